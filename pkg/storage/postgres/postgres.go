package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"keyword-scout/pkg/storage"
)

var _ storage.History = (*postgresHistory)(nil)

type postgresHistory struct {
	pool *pgxpool.Pool
}

const schema = `
CREATE TABLE IF NOT EXISTS research_runs (
	id TEXT PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL,
	duration_ms BIGINT NOT NULL,
	seeds JSONB NOT NULL,
	results JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS research_runs_created_at ON research_runs (created_at DESC);
`

// New connects to Postgres and creates the history table if needed.
func New(ctx context.Context, dsn string) (storage.History, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}

	return &postgresHistory{pool: pool}, nil
}

func (h *postgresHistory) Save(ctx context.Context, run *storage.Run) error {
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
	VALUES ($1, $2, $3, $4, $5)
	`
	_, err = h.pool.Exec(ctx, query,
		run.ID,
		run.CreatedAt,
		run.DurationMS,
		seedsJSON,
		resultsJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}
	return nil
}

func (h *postgresHistory) Recent(ctx context.Context, filter storage.Filter) ([]*storage.Run, error) {
	query := `SELECT id, created_at, duration_ms, seeds, results FROM research_runs WHERE 1=1`
	args := []any{}
	paramCount := 1

	if filter.Since != nil {
		query += fmt.Sprintf(` AND created_at >= $%d`, paramCount)
		args = append(args, *filter.Since)
		paramCount++
	}

	query += ` ORDER BY created_at DESC`

	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, paramCount)
		args = append(args, filter.Limit)
		paramCount++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, paramCount)
		args = append(args, filter.Offset)
	}

	rows, err := h.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*storage.Run
	for rows.Next() {
		var r storage.Run
		var seedsJSON, resultsJSON []byte

		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.DurationMS, &seedsJSON, &resultsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if err := json.Unmarshal(seedsJSON, &r.Seeds); err != nil {
			return nil, fmt.Errorf("failed to decode seeds of run %s: %w", r.ID, err)
		}
		if err := json.Unmarshal(resultsJSON, &r.Results); err != nil {
			return nil, fmt.Errorf("failed to decode results of run %s: %w", r.ID, err)
		}
		runs = append(runs, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}
	return runs, nil
}

func (h *postgresHistory) Close() error {
	h.pool.Close()
	return nil
}
