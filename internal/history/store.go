// Package history persists a record of optimizer runs in a local DuckDB
// file so recent results survive restarts and can be listed over the API.
package history

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"sync"
	"time"

	"github.com/marcboeker/go-duckdb"
)

// Run is one completed optimization captured for the history log.
type Run struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"session_id"`
	StartedAt    time.Time `json:"started_at"`
	DurationMs   int64     `json:"duration_ms"`
	InitialScore float64   `json:"initial_score"`
	FinalScore   float64   `json:"final_score"`
	Iterations   int       `json:"iterations"`
	Termination  string    `json:"termination"`
	ObjectCount  int       `json:"object_count"`
}

// Store is a DuckDB-backed run history. All methods are safe for concurrent use.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// NewStore opens (or creates) the history database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	connector, err := duckdb.NewConnector(dbPath, func(execer driver.ExecerContext) error {
		pragmas := []string{
			"PRAGMA memory_limit='256MB'",
			"PRAGMA threads=2",
			"PRAGMA enable_progress_bar=false",
		}
		for _, pragma := range pragmas {
			if _, err := execer.ExecContext(context.Background(), pragma, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create DuckDB connector: %w", err)
	}

	db := sql.OpenDB(connector)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id            VARCHAR PRIMARY KEY,
			session_id    VARCHAR NOT NULL,
			started_at    TIMESTAMP NOT NULL,
			duration_ms   BIGINT NOT NULL,
			initial_score DOUBLE NOT NULL,
			final_score   DOUBLE NOT NULL,
			iterations    INTEGER NOT NULL,
			termination   VARCHAR NOT NULL,
			object_count  INTEGER NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create runs table: %w", err)
	}

	return &Store{db: db}, nil
}

// Record appends a run to the history.
func (s *Store) Record(run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO runs (id, session_id, started_at, duration_ms,
			initial_score, final_score, iterations, termination, object_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.SessionID, run.StartedAt, run.DurationMs,
		run.InitialScore, run.FinalScore, run.Iterations, run.Termination, run.ObjectCount,
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// Recent returns the most recent runs, newest first.
func (s *Store) Recent(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT id, session_id, started_at, duration_ms,
			initial_score, final_score, iterations, termination, object_count
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := make([]Run, 0, limit)
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.SessionID, &r.StartedAt, &r.DurationMs,
			&r.InitialScore, &r.FinalScore, &r.Iterations, &r.Termination, &r.ObjectCount); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Count returns the total number of recorded runs.
func (s *Store) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return count, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
