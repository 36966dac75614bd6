package models

// TuningRules holds the engine's configurable thresholds, penalties and
// weights. The YAML format mirrors `data/defaults/rules.yaml`; zero fields are
// filled from DefaultTuningRules so partial files stay valid.
type TuningRules struct {
	// MinClearance is the minimum comfortable distance between two movable
	// objects before a clearance warning is raised.
	MinClearance float64 `yaml:"min_clearance" json:"min_clearance"`
	// DoorSwingRadius is the buffer distance around a door that must stay
	// free of movable furniture.
	DoorSwingRadius float64 `yaml:"door_swing_radius" json:"door_swing_radius"`
	// CorridorWidth is the required walking-path width.
	CorridorWidth float64 `yaml:"corridor_width" json:"corridor_width"`

	// ErrorPenalty and WarningPenalty are the per-violation deductions from
	// the constraint subscore. ErrorPenalty must stay >= WarningPenalty.
	ErrorPenalty   float64 `yaml:"error_penalty" json:"error_penalty"`
	WarningPenalty float64 `yaml:"warning_penalty" json:"warning_penalty"`

	// Subscore weights; must sum to 1.
	ConstraintWeight  float64 `yaml:"constraint_weight" json:"constraint_weight"`
	WalkabilityWeight float64 `yaml:"walkability_weight" json:"walkability_weight"`
	PreferenceWeight  float64 `yaml:"preference_weight" json:"preference_weight"`

	// StepBase is the smallest candidate translation the optimizer tries;
	// StepMultipliers scale it into the full candidate ladder.
	StepBase        float64 `yaml:"step_base" json:"step_base"`
	StepMultipliers []int   `yaml:"step_multipliers" json:"step_multipliers"`

	// Preference heuristics, applied by label. Each entry contributes a
	// bounded positive amount to the preference subscore.
	Preferences []PreferenceRule `yaml:"preferences" json:"preferences"`
}

// PreferenceRule is a soft layout heuristic, e.g. "bed's long edge against a
// wall" or "desk near a window". Rules are data: adding one never touches the
// search loop.
type PreferenceRule struct {
	Name string `yaml:"name" json:"name"`
	// Label of the movable object the rule applies to.
	Label string `yaml:"label" json:"label"`
	// Kind selects the predicate: "against_wall" or "near_label".
	Kind string `yaml:"kind" json:"kind"`
	// NearLabel is the target label for "near_label" rules.
	NearLabel string `yaml:"near_label,omitempty" json:"near_label,omitempty"`
	// Distance is the qualifying distance for "near_label" and the wall gap
	// tolerance for "against_wall".
	Distance float64 `yaml:"distance" json:"distance"`
	// Bonus is the amount added to the preference subscore when satisfied.
	Bonus float64 `yaml:"bonus" json:"bonus"`
}

// DefaultTuningRules returns the built-in engine tuning. The concrete numbers
// are configuration, not contract: scoring stays monotonic and clamped for any
// sane values here.
func DefaultTuningRules() TuningRules {
	return TuningRules{
		MinClearance:      45,
		DoorSwingRadius:   60,
		CorridorWidth:     45,
		ErrorPenalty:      15,
		WarningPenalty:    5,
		ConstraintWeight:  0.5,
		WalkabilityWeight: 0.3,
		PreferenceWeight:  0.2,
		StepBase:          20,
		StepMultipliers:   []int{1, 2, 4},
		Preferences: []PreferenceRule{
			{Name: "bed_against_wall", Label: "bed", Kind: "against_wall", Distance: 10, Bonus: 25},
			{Name: "desk_near_window", Label: "desk", Kind: "near_label", NearLabel: "window", Distance: 150, Bonus: 15},
			{Name: "sofa_against_wall", Label: "sofa", Kind: "against_wall", Distance: 10, Bonus: 10},
		},
	}
}

// FillDefaults replaces zero-valued fields with the built-in defaults so a
// partial rules file only overrides what it names.
func (t *TuningRules) FillDefaults() {
	def := DefaultTuningRules()
	if t.MinClearance <= 0 {
		t.MinClearance = def.MinClearance
	}
	if t.DoorSwingRadius <= 0 {
		t.DoorSwingRadius = def.DoorSwingRadius
	}
	if t.CorridorWidth <= 0 {
		t.CorridorWidth = def.CorridorWidth
	}
	if t.ErrorPenalty <= 0 {
		t.ErrorPenalty = def.ErrorPenalty
	}
	if t.WarningPenalty <= 0 {
		t.WarningPenalty = def.WarningPenalty
	}
	if t.ConstraintWeight <= 0 && t.WalkabilityWeight <= 0 && t.PreferenceWeight <= 0 {
		t.ConstraintWeight = def.ConstraintWeight
		t.WalkabilityWeight = def.WalkabilityWeight
		t.PreferenceWeight = def.PreferenceWeight
	}
	if t.StepBase <= 0 {
		t.StepBase = def.StepBase
	}
	if len(t.StepMultipliers) == 0 {
		t.StepMultipliers = def.StepMultipliers
	}
	if t.Preferences == nil {
		t.Preferences = def.Preferences
	}
}
