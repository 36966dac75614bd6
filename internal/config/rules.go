package config

import (
	"fmt"
	"io"
	"os"

	"github.com/pocket-planner/backend/internal/models"
	"gopkg.in/yaml.v3"
)

// LoadTuningRules reads the engine tuning rules from a YAML file. A missing
// file yields the built-in defaults; a partial file only overrides the fields
// it names.
func LoadTuningRules(filePath string) (models.TuningRules, error) {
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return models.DefaultTuningRules(), nil
		}
		return models.TuningRules{}, err
	}
	defer file.Close()

	return LoadTuningRulesFromReader(file)
}

// LoadTuningRulesFromReader parses tuning rules from an io.Reader.
func LoadTuningRulesFromReader(r io.Reader) (models.TuningRules, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return models.TuningRules{}, err
	}

	var rules models.TuningRules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return models.TuningRules{}, fmt.Errorf("failed to parse rules file: %w", err)
	}
	rules.FillDefaults()

	return rules, nil
}

// SaveTuningRules writes the tuning rules to a YAML file so edits made over
// the API persist across restarts.
func SaveTuningRules(filePath string, rules models.TuningRules) error {
	data, err := yaml.Marshal(rules)
	if err != nil {
		return fmt.Errorf("failed to marshal rules: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write rules file: %w", err)
	}
	return nil
}
