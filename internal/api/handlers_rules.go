// handlers_rules.go - Tuning rules handlers
package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pocket-planner/backend/internal/models"
)

// HandleGetRules returns the active engine tuning rules.
func (h *Handler) HandleGetRules(c echo.Context) error {
	return c.JSON(http.StatusOK, h.currentRules())
}

// HandleUpdateRules replaces the active tuning rules. Omitted fields fall
// back to defaults; the result is persisted when a rules file is configured.
func (h *Handler) HandleUpdateRules(c echo.Context) error {
	var rules models.TuningRules
	if err := c.Bind(&rules); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	rules.FillDefaults()

	if err := validateRules(rules); err != nil {
		return NewBadRequestError("invalid tuning rules", err)
	}

	if err := h.setRules(rules); err != nil {
		return NewInternalError("failed to persist rules", err)
	}
	return c.JSON(http.StatusOK, rules)
}

func validateRules(rules models.TuningRules) error {
	if rules.ErrorPenalty < rules.WarningPenalty {
		return fmt.Errorf("error_penalty (%v) must be >= warning_penalty (%v)",
			rules.ErrorPenalty, rules.WarningPenalty)
	}
	sum := rules.ConstraintWeight + rules.WalkabilityWeight + rules.PreferenceWeight
	if sum < 0.99 || sum > 1.01 {
		return fmt.Errorf("subscore weights must sum to 1, got %v", sum)
	}
	for _, p := range rules.Preferences {
		if p.Kind != "against_wall" && p.Kind != "near_label" {
			return fmt.Errorf("preference %q has unknown kind %q", p.Name, p.Kind)
		}
		if p.Kind == "near_label" && p.NearLabel == "" {
			return fmt.Errorf("preference %q needs near_label", p.Name)
		}
	}
	return nil
}
