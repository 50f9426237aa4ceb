package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// History records runs and their outputs in SQLite. It is an audit log only;
// nothing read from it influences which entries a feed contains.
type History struct {
	db *sql.DB
}

// Open creates or opens the history database at dbPath
func Open(dbPath string) (*History, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	h := &History{db: db}
	if err := h.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate history db: %w", err)
	}

	return h, nil
}

// Close closes the database connection
func (h *History) Close() error {
	return h.db.Close()
}

func (h *History) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at DATETIME NOT NULL,
		finished_at DATETIME,
		status TEXT NOT NULL,
		error TEXT
	);

	CREATE TABLE IF NOT EXISTS run_outputs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		short TEXT NOT NULL,
		languages TEXT NOT NULL,
		entries INTEGER NOT NULL,
		path TEXT NOT NULL,
		written_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_run_outputs_run_id ON run_outputs(run_id);
	`

	_, err := h.db.Exec(schema)
	return err
}

// StartRun inserts a running run and returns its id
func (h *History) StartRun(ctx context.Context, startedAt time.Time) (string, error) {
	id := uuid.NewString()
	_, err := h.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, status) VALUES (?, ?, ?)
	`, id, startedAt.UTC(), StatusRunning)
	if err != nil {
		return "", err
	}
	return id, nil
}

// RecordOutput stores one finalized artifact of a run
func (h *History) RecordOutput(ctx context.Context, runID string, rec OutputRecord) error {
	langsJSON, err := json.Marshal(rec.Languages)
	if err != nil {
		return fmt.Errorf("failed to encode languages: %w", err)
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO run_outputs (run_id, short, languages, entries, path, written_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, runID, rec.Short, string(langsJSON), rec.Entries, rec.Path, rec.WrittenAt.UTC())
	return err
}

// FinishRun marks a run ok, or failed with runErr's message
func (h *History) FinishRun(ctx context.Context, runID string, finishedAt time.Time, runErr error) error {
	status := StatusOK
	var errText sql.NullString
	if runErr != nil {
		status = StatusFailed
		errText = sql.NullString{String: runErr.Error(), Valid: true}
	}

	_, err := h.db.ExecContext(ctx, `
		UPDATE runs SET finished_at = ?, status = ?, error = ? WHERE id = ?
	`, finishedAt.UTC(), status, errText, runID)
	return err
}

// Runs returns the most recent runs, newest first, with their outputs
func (h *History) Runs(ctx context.Context, limit int) ([]Run, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, status, error
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var finished sql.NullTime
		var errText sql.NullString

		if err := rows.Scan(&r.ID, &r.StartedAt, &finished, &r.Status, &errText); err != nil {
			return nil, err
		}
		if finished.Valid {
			t := finished.Time
			r.FinishedAt = &t
		}
		r.Error = errText.String
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range runs {
		outputs, err := h.outputs(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Outputs = outputs
	}

	return runs, nil
}

func (h *History) outputs(ctx context.Context, runID string) ([]OutputRecord, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT short, languages, entries, path, written_at
		FROM run_outputs
		WHERE run_id = ?
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []OutputRecord
	for rows.Next() {
		var rec OutputRecord
		var langsJSON string

		if err := rows.Scan(&rec.Short, &langsJSON, &rec.Entries, &rec.Path, &rec.WrittenAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(langsJSON), &rec.Languages); err != nil {
			return nil, fmt.Errorf("failed to decode languages of run %s: %w", runID, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
