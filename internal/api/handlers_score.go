// handlers_score.go - Stateless scoring and constraint-check handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pocket-planner/backend/internal/constraint"
	"github.com/pocket-planner/backend/internal/models"
	"github.com/pocket-planner/backend/internal/scoring"
)

// HandleScore scores a layout without opening a session.
func (h *Handler) HandleScore(c echo.Context) error {
	objects, dims, err := h.bindScoreRequest(c)
	if err != nil {
		return err
	}

	rules := h.currentRules()
	violations := constraint.NewChecker(rules).Check(objects, dims.WidthEstimate, dims.HeightEstimate)
	score := scoring.NewScorer(rules).Score(objects, dims.WidthEstimate, dims.HeightEstimate, violations)

	return c.JSON(http.StatusOK, score)
}

// HandleCheckConstraints runs the constraint checker alone, returning the
// ordered violation list.
func (h *Handler) HandleCheckConstraints(c echo.Context) error {
	objects, dims, err := h.bindScoreRequest(c)
	if err != nil {
		return err
	}

	violations := constraint.NewChecker(h.currentRules()).Check(objects, dims.WidthEstimate, dims.HeightEstimate)
	return c.JSON(http.StatusOK, models.CheckResponse{Violations: violations})
}

func (h *Handler) bindScoreRequest(c echo.Context) ([]models.RoomObject, models.RoomDimensions, error) {
	var req models.ScoreRequest
	if err := c.Bind(&req); err != nil {
		return nil, models.RoomDimensions{}, NewBadRequestError("invalid request body", err)
	}
	if len(req.Objects) == 0 {
		return nil, models.RoomDimensions{}, NewValidationError("objects")
	}
	if err := validateLayout(req.Objects, req.RoomDimensions); err != nil {
		return nil, models.RoomDimensions{}, NewBadRequestError("invalid layout", err)
	}
	return req.Objects, req.RoomDimensions, nil
}
