package models

import "time"

// SessionStatus represents the lifecycle state of a layout session.
type SessionStatus string

const (
	SessionStatusAnalyzed  SessionStatus = "analyzed"
	SessionStatusOptimized SessionStatus = "optimized"
)

// LayoutSession is one room a client is working on: the analyzed layout, its
// dimensions, and the latest engine results. Sessions are a boundary
// convenience; the engine itself never reads them.
type LayoutSession struct {
	ID             string         `json:"id"`
	Status         SessionStatus  `json:"status"`
	RoomDimensions RoomDimensions `json:"room_dimensions"`
	Objects        []RoomObject   `json:"objects"`
	LastScore      *LayoutScore   `json:"last_score,omitempty"`
	Iterations     int            `json:"iterations,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// NewLayoutSession creates a session in the analyzed state.
func NewLayoutSession(id string, dims RoomDimensions, objects []RoomObject) *LayoutSession {
	return &LayoutSession{
		ID:             id,
		Status:         SessionStatusAnalyzed,
		RoomDimensions: dims,
		Objects:        CloneLayout(objects),
		CreatedAt:      time.Now(),
	}
}
