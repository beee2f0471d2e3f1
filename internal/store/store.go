// Package store keeps analysis runs and their per-step results in a local
// SQLite database so the last computed view survives restarts.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS analysis_runs (
	id          TEXT PRIMARY KEY,
	started_at  INTEGER NOT NULL,
	finished_at INTEGER,
	completed   TEXT NOT NULL DEFAULT '[]',
	failed      TEXT NOT NULL DEFAULT '[]',
	is_complete INTEGER NOT NULL DEFAULT 0,
	cancelled   INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS step_results (
	run_id      TEXT NOT NULL,
	step        TEXT NOT NULL,
	seq         INTEGER NOT NULL,
	ok          INTEGER NOT NULL,
	error       TEXT NOT NULL DEFAULT '',
	payload     BLOB,
	recorded_at INTEGER NOT NULL,
	PRIMARY KEY (run_id, step)
);

CREATE INDEX IF NOT EXISTS idx_step_results_step ON step_results(step, recorded_at);
`

// Failure is a step that did not complete.
type Failure struct {
	Step    string `json:"step"`
	Message string `json:"message"`
}

// Run is the persisted snapshot of one analysis run.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Completed  []string
	Failed     []Failure
	IsComplete bool
	Cancelled  bool
}

// Step is the persisted outcome of one analysis step.
type Step struct {
	RunID      string
	Step       string
	Seq        int
	OK         bool
	Error      string
	Payload    json.RawMessage
	RecordedAt time.Time
}

// Store is the analysis database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database file at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store db: %w", err)
	}
	// a single connection keeps PRAGMAs and writes on one handle
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// SaveRun inserts or replaces a run snapshot.
func (s *Store) SaveRun(ctx context.Context, r Run) error {
	completed, err := json.Marshal(nonNil(r.Completed))
	if err != nil {
		return fmt.Errorf("encode completed steps: %w", err)
	}
	failed, err := json.Marshal(nonNil(r.Failed))
	if err != nil {
		return fmt.Errorf("encode failed steps: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO analysis_runs (id, started_at, finished_at, completed, failed, is_complete, cancelled)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			finished_at = excluded.finished_at,
			completed   = excluded.completed,
			failed      = excluded.failed,
			is_complete = excluded.is_complete,
			cancelled   = excluded.cancelled`,
		r.ID, r.StartedAt.UnixMilli(), nullableTime(r.FinishedAt),
		string(completed), string(failed), r.IsComplete, r.Cancelled)
	if err != nil {
		return fmt.Errorf("save run %s: %w", r.ID, err)
	}
	return nil
}

// SaveStep inserts or replaces a step result.
func (s *Store) SaveStep(ctx context.Context, st Step) error {
	recorded := st.RecordedAt
	if recorded.IsZero() {
		recorded = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO step_results (run_id, step, seq, ok, error, payload, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		st.RunID, st.Step, st.Seq, st.OK, st.Error, []byte(st.Payload), recorded.UnixMilli())
	if err != nil {
		return fmt.Errorf("save step %s/%s: %w", st.RunID, st.Step, err)
	}
	return nil
}

// LatestRun returns the most recently started run.
func (s *Store) LatestRun(ctx context.Context) (Run, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, started_at, finished_at, completed, failed, is_complete, cancelled
		FROM analysis_runs ORDER BY started_at DESC, rowid DESC LIMIT 1`)

	var (
		r                 Run
		started           int64
		finished          sql.NullInt64
		completed, failed string
	)
	err := row.Scan(&r.ID, &started, &finished, &completed, &failed, &r.IsComplete, &r.Cancelled)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, fmt.Errorf("load latest run: %w", err)
	}
	r.StartedAt = time.UnixMilli(started)
	if finished.Valid {
		r.FinishedAt = time.UnixMilli(finished.Int64)
	}
	if err := json.Unmarshal([]byte(completed), &r.Completed); err != nil {
		return Run{}, false, fmt.Errorf("decode completed steps: %w", err)
	}
	if err := json.Unmarshal([]byte(failed), &r.Failed); err != nil {
		return Run{}, false, fmt.Errorf("decode failed steps: %w", err)
	}
	return r, true, nil
}

// Steps returns the results recorded for a run in step order.
func (s *Store) Steps(ctx context.Context, runID string) ([]Step, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, step, seq, ok, error, payload, recorded_at
		FROM step_results WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("query steps: %w", err)
	}
	defer rows.Close()
	return scanSteps(rows)
}

// LatestSuccess returns the newest successful result for a step across runs.
func (s *Store) LatestSuccess(ctx context.Context, step string) (Step, bool, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, step, seq, ok, error, payload, recorded_at
		FROM step_results WHERE step = ? AND ok = 1
		ORDER BY recorded_at DESC LIMIT 1`, step)
	if err != nil {
		return Step{}, false, fmt.Errorf("query step %s: %w", step, err)
	}
	defer rows.Close()

	steps, err := scanSteps(rows)
	if err != nil || len(steps) == 0 {
		return Step{}, false, err
	}
	return steps[0], true, nil
}

// Clear removes every stored run and step result.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM step_results; DELETE FROM analysis_runs;")
	if err != nil {
		return fmt.Errorf("clear store: %w", err)
	}
	return nil
}

// Stats counts stored rows.
type Stats struct {
	Runs  int64
	Steps int64
}

// GetStats returns statistics about the store contents.
func (s *Store) GetStats(ctx context.Context) (Stats, error) {
	var st Stats
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM analysis_runs").Scan(&st.Runs); err != nil {
		return Stats{}, fmt.Errorf("count runs: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM step_results").Scan(&st.Steps); err != nil {
		return Stats{}, fmt.Errorf("count steps: %w", err)
	}
	return st, nil
}

func scanSteps(rows *sql.Rows) ([]Step, error) {
	var out []Step
	for rows.Next() {
		var (
			st       Step
			payload  []byte
			recorded int64
		)
		if err := rows.Scan(&st.RunID, &st.Step, &st.Seq, &st.OK, &st.Error, &payload, &recorded); err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		if len(payload) > 0 {
			st.Payload = json.RawMessage(payload)
		}
		st.RecordedAt = time.UnixMilli(recorded)
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate steps: %w", err)
	}
	return out, nil
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UnixMilli()
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
