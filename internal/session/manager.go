// Package session keeps the layouts clients are actively working on so the
// optimize and render boundaries can reference an analyzed room by id
// instead of resending it. Sessions are in-memory and expendable: losing one
// only means the client resubmits its layout.
package session

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pocket-planner/backend/internal/models"
)

// MaxSessions limits concurrent sessions to prevent memory exhaustion
const MaxSessions = 100

// SessionMaxAge is how long to keep idle sessions before cleanup
const SessionMaxAge = 30 * time.Minute

// SessionKeepAliveWindow is how long to keep sessions that are actively being used
const SessionKeepAliveWindow = 5 * time.Minute

// Manager handles active layout sessions.
type Manager struct {
	sessions map[string]*SessionState
	mu       sync.RWMutex
}

// SessionState holds the session plus its access time for keep-alive.
type SessionState struct {
	Session      *models.LayoutSession
	LastAccessed time.Time
}

// NewManager creates a new session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*SessionState)}
}

// Create stores a freshly analyzed layout and returns its session.
func (m *Manager) Create(dims models.RoomDimensions, objects []models.RoomObject, score models.LayoutScore) *models.LayoutSession {
	m.cleanupOldSessionsIfNeeded()

	session := models.NewLayoutSession(uuid.New().String(), dims, objects)
	session.LastScore = &score

	m.mu.Lock()
	m.sessions[session.ID] = &SessionState{
		Session:      session,
		LastAccessed: time.Now(),
	}
	m.mu.Unlock()

	return session
}

// Get returns a copy of the session. The copy owns its own object slice, so
// callers can hand it to the engine without coordination.
func (m *Manager) Get(sessionID string) (*models.LayoutSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[sessionID]
	if !ok {
		return nil, false
	}
	state.LastAccessed = time.Now()

	cp := *state.Session
	cp.Objects = models.CloneLayout(state.Session.Objects)
	if state.Session.LastScore != nil {
		score := *state.Session.LastScore
		cp.LastScore = &score
	}
	return &cp, true
}

// RecordOptimization replaces the session's layout with the optimized one.
func (m *Manager) RecordOptimization(sessionID string, layout []models.RoomObject, score models.LayoutScore, iterations int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[sessionID]
	if !ok {
		return false
	}
	state.Session.Objects = models.CloneLayout(layout)
	state.Session.Status = models.SessionStatusOptimized
	state.Session.LastScore = &score
	state.Session.Iterations = iterations
	state.LastAccessed = time.Now()
	return true
}

// TouchSession updates the last-accessed time to keep a session alive.
// Returns false if the session doesn't exist.
func (m *Manager) TouchSession(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[sessionID]
	if !ok {
		return false
	}
	state.LastAccessed = time.Now()
	return true
}

// SessionCount returns the number of live sessions.
func (m *Manager) SessionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CleanupOldSessions removes sessions idle for longer than maxAge, keeping
// anything touched within the keep-alive window. Returns the number removed.
func (m *Manager) CleanupOldSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-maxAge)
	keepAliveCutoff := now.Add(-SessionKeepAliveWindow)

	removed := 0
	for id, state := range m.sessions {
		if state.LastAccessed.After(keepAliveCutoff) {
			continue
		}
		if state.LastAccessed.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// cleanupOldSessionsIfNeeded evicts the least recently used sessions when the
// manager is at capacity, so a new session can always be created.
func (m *Manager) cleanupOldSessionsIfNeeded() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sessions) < MaxSessions {
		return
	}

	type entry struct {
		id       string
		accessed time.Time
	}
	entries := make([]entry, 0, len(m.sessions))
	for id, state := range m.sessions {
		entries = append(entries, entry{id: id, accessed: state.LastAccessed})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].accessed.Before(entries[j].accessed)
	})

	toRemove := len(m.sessions) - MaxSessions + 1
	for i := 0; i < toRemove && i < len(entries); i++ {
		delete(m.sessions, entries[i].id)
	}
}
