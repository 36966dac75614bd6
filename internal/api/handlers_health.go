// handlers_health.go - Health check handler
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pocket-planner/backend/internal/models"
)

// HandleHealth returns service health and version information.
func (h *Handler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:  "ok",
		Version: h.version,
	})
}
