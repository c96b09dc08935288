// Package history provides a PostgreSQL-backed job store for the
// cleaning-job audit trail. Only job metadata is stored; uploaded data
// never touches the database.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/datascrub/datascrub/internal/core"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Store persists job records in the scrub_jobs table.
type Store struct {
	db DBTX
}

// NewStore creates a Store and ensures the scrub_jobs table exists.
func NewStore(ctx context.Context, db DBTX) (*Store, error) {
	s := &Store{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("history schema: %w", err)
	}
	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS scrub_jobs (
			id           UUID PRIMARY KEY,
			action       TEXT NOT NULL,
			file_name    TEXT NOT NULL,
			rows_in      INTEGER NOT NULL,
			rows_out     INTEGER NOT NULL,
			score_before INTEGER NOT NULL,
			score_after  INTEGER NOT NULL,
			steps        TEXT[] NOT NULL DEFAULT '{}',
			target       TEXT NOT NULL DEFAULT '',
			duration_ms  BIGINT NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	return err
}

// RecordJob inserts one job record.
func (s *Store) RecordJob(ctx context.Context, rec core.JobRecord) error {
	steps := rec.Steps
	if steps == nil {
		steps = []string{}
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO scrub_jobs
			(id, action, file_name, rows_in, rows_out, score_before, score_after, steps, target, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rec.ID,
		string(rec.Action),
		rec.FileName,
		rec.RowsIn,
		rec.RowsOut,
		rec.ScoreBefore,
		rec.ScoreAfter,
		steps,
		rec.Target,
		rec.Duration.Milliseconds(),
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

// RecentJobs returns up to limit records, newest first.
func (s *Store) RecentJobs(ctx context.Context, limit int) ([]core.JobRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, action, file_name, rows_in, rows_out, score_before, score_after, steps, target, duration_ms, created_at
		FROM scrub_jobs
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	var recs []core.JobRecord
	for rows.Next() {
		var rec core.JobRecord
		var action string
		var durationMs int64
		if err := rows.Scan(
			&rec.ID,
			&action,
			&rec.FileName,
			&rec.RowsIn,
			&rec.RowsOut,
			&rec.ScoreBefore,
			&rec.ScoreAfter,
			&rec.Steps,
			&rec.Target,
			&durationMs,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		rec.Action = core.JobAction(action)
		rec.Duration = time.Duration(durationMs) * time.Millisecond
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}
