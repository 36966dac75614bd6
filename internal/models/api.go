package models

import "encoding/json"

// AnalyzeRequest is the body for POST /api/analyze. Either a pre-built layout
// or a raw detector payload must be supplied.
type AnalyzeRequest struct {
	// Objects and RoomDimensions describe an already-normalized layout.
	Objects        []RoomObject    `json:"objects,omitempty"`
	RoomDimensions *RoomDimensions `json:"room_dimensions,omitempty"`

	// Detection is the raw detector JSON (boxes on the 0-1000 scale) together
	// with the source image size used for scaling.
	Detection   json.RawMessage `json:"detection,omitempty"`
	ImageWidth  int             `json:"image_width,omitempty"`
	ImageHeight int             `json:"image_height,omitempty"`
}

// AnalyzeResponse is the response from POST /api/analyze.
type AnalyzeResponse struct {
	SessionID      string                `json:"session_id"`
	RoomDimensions RoomDimensions        `json:"room_dimensions"`
	Objects        []RoomObject          `json:"objects"`
	Violations     []ConstraintViolation `json:"violations"`
	Score          LayoutScore           `json:"score"`
	DetectedIssues []string              `json:"detected_issues"`
	Message        string                `json:"message"`
}

// OptimizeRequest is the body for POST /api/optimize. A session id or an
// inline layout must be supplied; locked ids are always passed explicitly and
// never flagged on the objects by the caller.
type OptimizeRequest struct {
	SessionID      string          `json:"session_id,omitempty"`
	CurrentLayout  []RoomObject    `json:"current_layout,omitempty"`
	RoomDimensions *RoomDimensions `json:"room_dimensions,omitempty"`
	LockedIDs      []string        `json:"locked_ids"`
	MaxIterations  int             `json:"max_iterations"`
}

// OptimizeResponse is the response from POST /api/optimize.
type OptimizeResponse struct {
	NewLayout            []RoomObject          `json:"new_layout"`
	Explanation          string                `json:"explanation"`
	LayoutScore          float64               `json:"layout_score"`
	Iterations           int                   `json:"iterations"`
	Termination          string                `json:"termination"`
	ConstraintViolations []ConstraintViolation `json:"constraint_violations"`
	Improvement          float64               `json:"improvement"`
}

// ScoreRequest is the body for POST /api/score and POST /api/constraints/check.
type ScoreRequest struct {
	Objects        []RoomObject   `json:"objects"`
	RoomDimensions RoomDimensions `json:"room_dimensions"`
}

// CheckResponse is the response from POST /api/constraints/check.
type CheckResponse struct {
	Violations []ConstraintViolation `json:"violations"`
}

// RenderPlanRequest is the body for POST /api/render/plan. The image work
// itself belongs to the render collaborator; this endpoint only computes the
// structured diff it consumes.
type RenderPlanRequest struct {
	OriginalLayout []RoomObject   `json:"original_layout"`
	FinalLayout    []RoomObject   `json:"final_layout"`
	RoomDimensions RoomDimensions `json:"room_dimensions"`
}

// ObjectMove describes one repositioned object in a render plan.
type ObjectMove struct {
	ObjectID string `json:"object_id"`
	Label    string `json:"label"`
	From     BBox   `json:"from"`
	To       BBox   `json:"to"`
	DeltaX   int    `json:"dx"`
	DeltaY   int    `json:"dy"`
}

// RenderPlanResponse is the response from POST /api/render/plan.
type RenderPlanResponse struct {
	Moves              []ObjectMove          `json:"moves"`
	UnchangedIDs       []string              `json:"unchanged_ids"`
	ResidualViolations []ConstraintViolation `json:"residual_violations"`
	Message            string                `json:"message"`
}

// HealthResponse is the response from GET /api/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Message string `json:"message,omitempty"`
}
