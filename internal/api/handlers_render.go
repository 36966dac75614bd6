// handlers_render.go - Render plan handler
package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pocket-planner/backend/internal/constraint"
	"github.com/pocket-planner/backend/internal/models"
)

// HandleRenderPlan computes the structured diff between an original and a
// final layout: which objects moved, by how much, and what violations remain.
// The image rendering itself is done by a separate collaborator consuming
// this plan.
func (h *Handler) HandleRenderPlan(c echo.Context) error {
	var req models.RenderPlanRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if len(req.OriginalLayout) == 0 || len(req.FinalLayout) == 0 {
		return NewValidationError("original_layout and final_layout")
	}
	if err := validateLayout(req.FinalLayout, req.RoomDimensions); err != nil {
		return NewBadRequestError("invalid final layout", err)
	}

	original := make(map[string]models.RoomObject, len(req.OriginalLayout))
	for _, o := range req.OriginalLayout {
		original[o.ID] = o
	}

	moves := make([]models.ObjectMove, 0)
	unchanged := make([]string, 0)
	for _, obj := range req.FinalLayout {
		before, ok := original[obj.ID]
		if !ok {
			// New object; treated as a move from its own position.
			unchanged = append(unchanged, obj.ID)
			continue
		}
		if before.BBox == obj.BBox {
			unchanged = append(unchanged, obj.ID)
			continue
		}
		moves = append(moves, models.ObjectMove{
			ObjectID: obj.ID,
			Label:    obj.Label,
			From:     before.BBox,
			To:       obj.BBox,
			DeltaX:   obj.BBox.X() - before.BBox.X(),
			DeltaY:   obj.BBox.Y() - before.BBox.Y(),
		})
	}

	residual := constraint.NewChecker(h.currentRules()).Check(
		req.FinalLayout, req.RoomDimensions.WidthEstimate, req.RoomDimensions.HeightEstimate)

	message := fmt.Sprintf("%d objects moved, %d unchanged.", len(moves), len(unchanged))
	if len(residual) > 0 {
		message += fmt.Sprintf(" %d issues remain.", len(residual))
	}

	return c.JSON(http.StatusOK, models.RenderPlanResponse{
		Moves:              moves,
		UnchangedIDs:       unchanged,
		ResidualViolations: residual,
		Message:            message,
	})
}
