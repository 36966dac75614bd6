package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigCreatesDefault(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "PocketPlanner.config")

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Server.Port != 8089 {
		t.Errorf("expected default port 8089, got %d", cfg.Server.Port)
	}
	if cfg.Engine.MaxIterations != 200 {
		t.Errorf("expected default max iterations 200, got %d", cfg.Engine.MaxIterations)
	}

	// Second load reads the generated file back.
	again, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("second LoadConfig failed: %v", err)
	}
	if again.Server.Port != cfg.Server.Port {
		t.Errorf("round-trip changed port: %d vs %d", again.Server.Port, cfg.Server.Port)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("PORT", "9100")
	configPath := filepath.Join(t.TempDir(), "PocketPlanner.config")

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	// Default file is generated first; the override applies on read-back.
	cfg, err = LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("expected PORT override 9100, got %d", cfg.Server.Port)
	}
}

func TestResolvePaths(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "PocketPlanner.config")

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	cfg, err = LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if !filepath.IsAbs(cfg.Storage.HistoryDatabase) {
		t.Errorf("expected absolute history path, got %s", cfg.Storage.HistoryDatabase)
	}
	if !strings.HasPrefix(cfg.Storage.HistoryDatabase, dir) {
		t.Errorf("expected history path under %s, got %s", dir, cfg.Storage.HistoryDatabase)
	}
}

func TestLoadTuningRulesMissingFile(t *testing.T) {
	rules, err := LoadTuningRules(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("expected defaults for missing file, got error: %v", err)
	}
	if rules.MinClearance != 45 {
		t.Errorf("expected default min_clearance 45, got %v", rules.MinClearance)
	}
	if len(rules.Preferences) == 0 {
		t.Error("expected default preference rules")
	}
}

func TestLoadTuningRulesPartialOverride(t *testing.T) {
	yamlData := `
min_clearance: 60
preferences:
  - name: bed_against_wall
    label: bed
    kind: against_wall
    distance: 5
    bonus: 30
`
	rules, err := LoadTuningRulesFromReader(strings.NewReader(yamlData))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if rules.MinClearance != 60 {
		t.Errorf("expected override 60, got %v", rules.MinClearance)
	}
	if rules.DoorSwingRadius != 60 {
		t.Errorf("expected default door_swing_radius 60, got %v", rules.DoorSwingRadius)
	}
	if len(rules.Preferences) != 1 || rules.Preferences[0].Bonus != 30 {
		t.Errorf("expected single overridden preference, got %+v", rules.Preferences)
	}
}

func TestLoadTuningRulesInvalidYAML(t *testing.T) {
	if _, err := LoadTuningRulesFromReader(strings.NewReader("{{not yaml")); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestSaveAndReloadTuningRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")

	rules, err := LoadTuningRules(path)
	if err != nil {
		t.Fatalf("LoadTuningRules failed: %v", err)
	}
	rules.CorridorWidth = 90
	if err := SaveTuningRules(path, rules); err != nil {
		t.Fatalf("SaveTuningRules failed: %v", err)
	}

	loaded, err := LoadTuningRules(path)
	if err != nil {
		t.Fatalf("LoadTuningRules failed: %v", err)
	}
	if loaded.CorridorWidth != 90 {
		t.Errorf("expected saved corridor_width 90, got %v", loaded.CorridorWidth)
	}
}
