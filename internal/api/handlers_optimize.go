// handlers_optimize.go - Optimization run handlers
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pocket-planner/backend/internal/constraint"
	"github.com/pocket-planner/backend/internal/history"
	"github.com/pocket-planner/backend/internal/models"
	"github.com/pocket-planner/backend/internal/optimizer"
)

// HandleOptimize runs the full-budget optimization over a session's layout or
// an inline one.
func (h *Handler) HandleOptimize(c echo.Context) error {
	return h.runOptimize(c, h.maxIterations)
}

// HandleOptimizeQuick runs a small-budget pass for interactive previews.
func (h *Handler) HandleOptimizeQuick(c echo.Context) error {
	return h.runOptimize(c, h.quickIterations)
}

func (h *Handler) runOptimize(c echo.Context, budgetCap int) error {
	var req models.OptimizeRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}

	objects, dims, sess, err := h.resolveOptimizeInput(&req)
	if err != nil {
		if apiErr, ok := err.(*APIError); ok {
			return apiErr
		}
		return NewBadRequestError("invalid optimize request", err)
	}

	maxIterations := req.MaxIterations
	if maxIterations <= 0 || maxIterations > budgetCap {
		maxIterations = budgetCap
	}

	rules := h.currentRules()
	opt := optimizer.New(rules)

	started := time.Now()
	result, err := opt.Optimize(objects, dims.WidthEstimate, dims.HeightEstimate, req.LockedIDs, maxIterations, nil)
	if err != nil {
		return NewBadRequestError("optimization rejected input", err)
	}

	checker := constraint.NewChecker(rules)
	residual := checker.Check(result.Layout, dims.WidthEstimate, dims.HeightEstimate)

	if sess != nil {
		h.sessions.RecordOptimization(sess.ID, result.Layout, result.FinalScore, result.Iterations)
	}
	h.recordRun(sess, started, result, len(objects))

	return c.JSON(http.StatusOK, models.OptimizeResponse{
		NewLayout:            result.Layout,
		Explanation:          result.Explanation,
		LayoutScore:          result.FinalScore.TotalScore,
		Iterations:           result.Iterations,
		Termination:          result.Termination,
		ConstraintViolations: residual,
		Improvement:          result.FinalScore.TotalScore - result.InitialScore.TotalScore,
	})
}

// recordRun writes the run to history. History failures are logged, never
// surfaced: a full disk must not break optimization.
func (h *Handler) recordRun(sess *models.LayoutSession, started time.Time, result *optimizer.Result, objectCount int) {
	if h.history == nil {
		return
	}
	sessionID := ""
	if sess != nil {
		sessionID = sess.ID
	}
	run := history.Run{
		ID:           uuid.New().String(),
		SessionID:    sessionID,
		StartedAt:    started,
		DurationMs:   time.Since(started).Milliseconds(),
		InitialScore: result.InitialScore.TotalScore,
		FinalScore:   result.FinalScore.TotalScore,
		Iterations:   result.Iterations,
		Termination:  result.Termination,
		ObjectCount:  objectCount,
	}
	if err := h.history.Record(run); err != nil {
		fmt.Printf("[History] failed to record run %s: %v\n", run.ID, err)
	}
}

// HandleRecentRuns lists the most recent optimization runs.
func (h *Handler) HandleRecentRuns(c echo.Context) error {
	if h.history == nil {
		return NewServiceUnavailableError("run history is disabled")
	}

	limit := 20
	if raw := c.QueryParam("limit"); raw != "" {
		if _, err := fmt.Sscanf(raw, "%d", &limit); err != nil || limit <= 0 {
			return NewValidationError("limit")
		}
	}

	runs, err := h.history.Recent(limit)
	if err != nil {
		return NewInternalError("failed to load run history", err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"runs":  runs,
		"count": len(runs),
	})
}
