// Package history persists one row per audit run so score trends are
// visible across runs of the same project.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/modernapi/modernapi/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS audit_runs (
	run_id      TEXT PRIMARY KEY,
	root        TEXT NOT NULL,
	score       INTEGER NOT NULL,
	routes      INTEGER NOT NULL,
	breakdown   TEXT NOT NULL,
	created_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_audit_runs_root ON audit_runs(root, created_at);
`

// Entry is one recorded audit run.
type Entry struct {
	RunID     string                 `json:"run_id"`
	Root      string                 `json:"root"`
	Score     int                    `json:"score"`
	Routes    int                    `json:"routes"`
	Breakdown []models.RuleBreakdown `json:"breakdown"`
	CreatedAt time.Time              `json:"created_at"`
}

// Store is a SQLite-backed history of audit runs.
type Store struct {
	conn *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	// A CLI opens one connection at a time; the pool just adds lock churn.
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing history schema: %w", err)
	}
	return &Store{conn: conn}, nil
}

// Record stores one finished report.
func (s *Store) Record(ctx context.Context, r *models.ProjectReport) error {
	breakdown, err := json.Marshal(r.Breakdown)
	if err != nil {
		return fmt.Errorf("encoding breakdown: %w", err)
	}

	_, err = s.conn.ExecContext(ctx,
		`INSERT INTO audit_runs (run_id, root, score, routes, breakdown, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Root, r.OverallScore, r.RoutesAnalyzed, string(breakdown),
		r.GeneratedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording audit run: %w", err)
	}
	return nil
}

// Recent returns the latest runs for a root, newest first.
func (s *Store) Recent(ctx context.Context, root string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.conn.QueryContext(ctx,
		`SELECT run_id, root, score, routes, breakdown, created_at
		 FROM audit_runs WHERE root = ?
		 ORDER BY created_at DESC LIMIT ?`,
		root, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var breakdown, createdAt string
		if err := rows.Scan(&e.RunID, &e.Root, &e.Score, &e.Routes, &breakdown, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		if err := json.Unmarshal([]byte(breakdown), &e.Breakdown); err != nil {
			return nil, fmt.Errorf("decoding breakdown: %w", err)
		}
		e.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.conn.Close()
}
