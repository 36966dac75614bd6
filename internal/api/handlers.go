// handlers.go - Shared handler state and layout resolution helpers
package api

import (
	"fmt"
	"sync"

	"github.com/pocket-planner/backend/internal/config"
	"github.com/pocket-planner/backend/internal/models"
	"github.com/pocket-planner/backend/internal/session"
	"github.com/pocket-planner/backend/internal/vision"
)

// Handler holds the dependencies shared by all HTTP handlers. The engine
// itself is stateless; everything mutable lives here behind locks.
type Handler struct {
	sessions *session.Manager
	history  HistoryRecorder
	version  string

	maxIterations   int
	quickIterations int

	rulesMu   sync.RWMutex
	rules     models.TuningRules
	rulesFile string
}

// NewHandler creates the shared handler from its dependencies.
func NewHandler(deps *Dependencies) *Handler {
	rules := deps.Rules
	rules.FillDefaults()

	maxIter := deps.Engine.MaxIterations
	if maxIter <= 0 {
		maxIter = 200
	}
	quickIter := deps.Engine.QuickIterations
	if quickIter <= 0 {
		quickIter = 25
	}

	return &Handler{
		sessions:        deps.SessionMgr,
		history:         deps.History,
		version:         deps.Version,
		maxIterations:   maxIter,
		quickIterations: quickIter,
		rules:           rules,
		rulesFile:       deps.RulesFile,
	}
}

// currentRules returns a snapshot of the active tuning rules.
func (h *Handler) currentRules() models.TuningRules {
	h.rulesMu.RLock()
	defer h.rulesMu.RUnlock()
	return h.rules
}

// setRules replaces the active tuning rules and persists them if a rules file
// is configured.
func (h *Handler) setRules(rules models.TuningRules) error {
	h.rulesMu.Lock()
	h.rules = rules
	h.rulesMu.Unlock()

	if h.rulesFile == "" {
		return nil
	}
	return config.SaveTuningRules(h.rulesFile, rules)
}

// resolveAnalyzeInput normalizes an analyze request into a layout. Detector
// payloads take precedence over inline objects.
func (h *Handler) resolveAnalyzeInput(req *models.AnalyzeRequest) ([]models.RoomObject, models.RoomDimensions, error) {
	if len(req.Detection) > 0 {
		det, err := vision.ParseDetection(req.Detection, req.ImageWidth, req.ImageHeight)
		if err != nil {
			return nil, models.RoomDimensions{}, fmt.Errorf("failed to parse detection: %w", err)
		}
		return det.Objects, det.RoomDimensions, nil
	}

	if len(req.Objects) == 0 {
		return nil, models.RoomDimensions{}, fmt.Errorf("objects or detection is required")
	}
	if req.RoomDimensions == nil {
		return nil, models.RoomDimensions{}, fmt.Errorf("room_dimensions is required with inline objects")
	}
	if err := validateLayout(req.Objects, *req.RoomDimensions); err != nil {
		return nil, models.RoomDimensions{}, err
	}
	return req.Objects, *req.RoomDimensions, nil
}

// resolveOptimizeInput returns the layout and dimensions an optimize request
// refers to, either from a session or inline.
func (h *Handler) resolveOptimizeInput(req *models.OptimizeRequest) ([]models.RoomObject, models.RoomDimensions, *models.LayoutSession, error) {
	if req.SessionID != "" {
		sess, ok := h.sessions.Get(req.SessionID)
		if !ok {
			return nil, models.RoomDimensions{}, nil, NewNotFoundError("session", req.SessionID)
		}
		return sess.Objects, sess.RoomDimensions, sess, nil
	}

	if len(req.CurrentLayout) == 0 {
		return nil, models.RoomDimensions{}, nil, NewValidationError("session_id or current_layout")
	}
	if req.RoomDimensions == nil {
		return nil, models.RoomDimensions{}, nil, NewValidationError("room_dimensions")
	}
	if err := validateLayout(req.CurrentLayout, *req.RoomDimensions); err != nil {
		return nil, models.RoomDimensions{}, nil, NewBadRequestError("invalid layout", err)
	}
	return req.CurrentLayout, *req.RoomDimensions, nil, nil
}

// validateLayout rejects layouts the engine cannot work with: non-positive
// room dimensions, empty or duplicate ids, degenerate boxes.
func validateLayout(objects []models.RoomObject, dims models.RoomDimensions) error {
	if dims.WidthEstimate <= 0 || dims.HeightEstimate <= 0 {
		return fmt.Errorf("room dimensions must be positive, got %dx%d", dims.WidthEstimate, dims.HeightEstimate)
	}
	seen := make(map[string]bool, len(objects))
	for _, o := range objects {
		if o.ID == "" {
			return fmt.Errorf("object with empty id")
		}
		if seen[o.ID] {
			return fmt.Errorf("duplicate object id: %s", o.ID)
		}
		seen[o.ID] = true
		if o.BBox.Width() <= 0 || o.BBox.Height() <= 0 {
			return fmt.Errorf("object %s has degenerate bbox %v", o.ID, o.BBox)
		}
	}
	return nil
}

// issueSummaries flattens violations into human-readable issue strings.
func issueSummaries(violations []models.ConstraintViolation) []string {
	issues := make([]string, 0, len(violations))
	for _, v := range violations {
		issues = append(issues, fmt.Sprintf("[%s] %s", v.Severity, v.Description))
	}
	return issues
}
