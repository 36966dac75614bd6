// interfaces.go - Collaborator interfaces consumed by the handlers
package api

import "github.com/pocket-planner/backend/internal/history"

// HistoryRecorder persists completed optimization runs. Implemented by
// history.Store; nil disables history without touching the handlers.
type HistoryRecorder interface {
	Record(run history.Run) error
	Recent(limit int) ([]history.Run, error)
}
