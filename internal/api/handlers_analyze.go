// handlers_analyze.go - Layout analysis handlers
package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pocket-planner/backend/internal/constraint"
	"github.com/pocket-planner/backend/internal/models"
	"github.com/pocket-planner/backend/internal/scoring"
)

// HandleAnalyze normalizes a layout, checks its constraints, scores it and
// opens a session so later optimize calls can reference it by id.
func (h *Handler) HandleAnalyze(c echo.Context) error {
	var req models.AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}

	objects, dims, err := h.resolveAnalyzeInput(&req)
	if err != nil {
		return NewUnprocessableError("cannot analyze layout", err)
	}

	rules := h.currentRules()
	checker := constraint.NewChecker(rules)
	scorer := scoring.NewScorer(rules)

	violations := checker.Check(objects, dims.WidthEstimate, dims.HeightEstimate)
	score := scorer.Score(objects, dims.WidthEstimate, dims.HeightEstimate, violations)

	sess := h.sessions.Create(dims, objects, score)

	message := fmt.Sprintf("Analyzed %d objects, found %d issues.", len(objects), len(violations))
	if len(violations) == 0 {
		message = fmt.Sprintf("Analyzed %d objects, layout looks good.", len(objects))
	}

	return c.JSON(http.StatusOK, models.AnalyzeResponse{
		SessionID:      sess.ID,
		RoomDimensions: dims,
		Objects:        objects,
		Violations:     violations,
		Score:          score,
		DetectedIssues: issueSummaries(violations),
		Message:        message,
	})
}
