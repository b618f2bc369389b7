package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"keyword-scout/pkg/storage"
)

var _ storage.History = (*sqliteHistory)(nil)

type sqliteHistory struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS research_runs (
	id TEXT PRIMARY KEY,
	created_at DATETIME NOT NULL,
	duration_ms INTEGER NOT NULL,
	seeds TEXT NOT NULL,
	results TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS research_runs_created_at ON research_runs (created_at);
`

// New opens (and migrates) a SQLite run history. ":memory:" works for tests.
func New(dsn string) (storage.History, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// a second connection to ":memory:" would see an empty database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}

	return &sqliteHistory{db: db}, nil
}

func (h *sqliteHistory) Save(ctx context.Context, run *storage.Run) error {
	seedsJSON, err := json.Marshal(run.Seeds)
	if err != nil {
		return fmt.Errorf("failed to encode seeds: %w", err)
	}
	resultsJSON, err := json.Marshal(run.Results)
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}

	query := `
	INSERT INTO research_runs (id, created_at, duration_ms, seeds, results)
	VALUES (?, ?, ?, ?, ?)
	`
	_, err = h.db.ExecContext(ctx, query,
		run.ID,
		run.CreatedAt.UTC(),
		run.DurationMS,
		string(seedsJSON),
		string(resultsJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}
	return nil
}

func (h *sqliteHistory) Recent(ctx context.Context, filter storage.Filter) ([]*storage.Run, error) {
	query := `SELECT id, created_at, duration_ms, seeds, results FROM research_runs WHERE 1=1`
	args := []any{}

	if filter.Since != nil {
		query += ` AND created_at >= ?`
		args = append(args, filter.Since.UTC())
	}

	query += ` ORDER BY created_at DESC`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += ` OFFSET ?`
			args = append(args, filter.Offset)
		}
	}

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*storage.Run
	for rows.Next() {
		var r storage.Run
		var seedsJSON, resultsJSON string

		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.DurationMS, &seedsJSON, &resultsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if err := json.Unmarshal([]byte(seedsJSON), &r.Seeds); err != nil {
			return nil, fmt.Errorf("failed to decode seeds of run %s: %w", r.ID, err)
		}
		if err := json.Unmarshal([]byte(resultsJSON), &r.Results); err != nil {
			return nil, fmt.Errorf("failed to decode results of run %s: %w", r.ID, err)
		}
		runs = append(runs, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}
	return runs, nil
}

func (h *sqliteHistory) Close() error {
	return h.db.Close()
}
