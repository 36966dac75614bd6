// routes.go - Route registration helpers
// This file provides a clean way to register all API routes
package api

import (
	"github.com/labstack/echo/v4"
	"github.com/pocket-planner/backend/internal/config"
	"github.com/pocket-planner/backend/internal/models"
	"github.com/pocket-planner/backend/internal/session"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	SessionMgr *session.Manager
	History    HistoryRecorder
	Rules      models.TuningRules
	RulesFile  string
	Engine     config.EngineConfig
	Version    string
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, h *Handler) {
	// Health check
	e.GET("/health", h.HandleHealth)
	e.GET("/api/health", h.HandleHealth)

	// Layout analysis and optimization
	e.POST("/api/analyze", h.HandleAnalyze)
	e.POST("/api/optimize", h.HandleOptimize)
	e.POST("/api/optimize/quick", h.HandleOptimizeQuick)
	e.POST("/api/score", h.HandleScore)
	e.POST("/api/constraints/check", h.HandleCheckConstraints)
	e.POST("/api/render/plan", h.HandleRenderPlan)

	// Session routes
	sessionGroup := e.Group("/api/sessions")
	sessionGroup.GET("/:sessionId", h.HandleGetSession)
	sessionGroup.GET("/:sessionId/msgpack", h.HandleGetSessionMsgpack)
	sessionGroup.POST("/:sessionId/keepalive", h.HandleSessionKeepAlive)

	// Tuning rules
	e.GET("/api/config/rules", h.HandleGetRules)
	e.PUT("/api/config/rules", h.HandleUpdateRules)

	// Run history
	e.GET("/api/history/recent", h.HandleRecentRuns)
}

// RegisterWebSocketRoutes registers WebSocket routes
func RegisterWebSocketRoutes(e *echo.Echo, h *Handler) {
	wsh := NewWebSocketHandler(h)
	e.GET("/api/ws/optimize", wsh.HandleOptimizeWS)
}

// SetupMiddleware configures common middleware
func SetupMiddleware(e *echo.Echo) {
	// Use custom error handler
	e.HTTPErrorHandler = ErrorHandler
}
