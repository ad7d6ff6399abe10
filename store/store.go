// Package store persists analysis runs and pattern occurrences to
// PostgreSQL for historical and trend queries across runs. It sits
// outside the core pipeline's purity boundary (§5): the pipeline itself
// never touches the store; only the CLI does (analyze --store-dsn writes
// runs, serve reads them).
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmrimawi/patroid/apperr"
	"github.com/dmrimawi/patroid/report"
)

// Postgres is a pgx-backed report store.
type Postgres struct {
	pool *pgxpool.Pool
}

// Open connects to dsn and returns a ready Postgres store. The caller must
// call Close when done.
func Open(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, apperr.Wrap(apperr.InternalError, "connecting to report store", err)
	}
	return &Postgres{pool: pool}, nil
}

// Close releases the underlying connection pool.
func (s *Postgres) Close() { s.pool.Close() }

// ApplyDDL creates the runs and occurrences tables if they do not already
// exist. Safe to call on every process startup.
func (s *Postgres) ApplyDDL(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, runsTableSQL); err != nil {
		return apperr.Wrap(apperr.InternalError, "applying runs table DDL", err)
	}
	if _, err := s.pool.Exec(ctx, occurrencesTableSQL); err != nil {
		return apperr.Wrap(apperr.InternalError, "applying occurrences table DDL", err)
	}
	return nil
}

// Ping verifies connectivity, used by internal/doctor's store check.
func (s *Postgres) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// SaveReport inserts a run row and one occurrence row per witness bundle.
func (s *Postgres) SaveReport(ctx context.Context, r *report.Report, started, finished time.Time) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return apperr.Wrap(apperr.InternalError, "beginning report transaction", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO patroid_runs (run_id, project, started_at, finished_at) VALUES ($1, $2, $3, $4)`,
		r.RunID, r.Project, started, finished,
	); err != nil {
		if isUniqueViolation(err) {
			return apperr.Wrap(apperr.InternalError, fmt.Sprintf("run %s already recorded", r.RunID), err)
		}
		return apperr.Wrap(apperr.InternalError, "inserting run row", err)
	}

	for patternName, occurrences := range r.Occurrences {
		for _, occ := range occurrences {
			witnesses, err := json.Marshal(occ.Witnesses)
			if err != nil {
				return apperr.Wrap(apperr.InternalError, fmt.Sprintf("marshaling witnesses for %s", patternName), err)
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO patroid_occurrences (run_id, pattern, witnesses) VALUES ($1, $2, $3)`,
				r.RunID, patternName, witnesses,
			); err != nil {
				return apperr.Wrap(apperr.InternalError, "inserting occurrence row", err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Wrap(apperr.InternalError, "committing report transaction", err)
	}
	return nil
}

// postgresUniqueViolation is the SQLSTATE code Postgres returns for a
// unique-constraint conflict.
const postgresUniqueViolation = "23505"

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation, classified via pgx's own wire-protocol error type rather
// than database/sql's driver-specific error types, since this store
// talks to Postgres through pgx, not database/sql.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == postgresUniqueViolation
}

// LatestRun is a summary row returned by LatestRunForProject, used by the
// serve subcommand's /reports/:project endpoint.
type LatestRun struct {
	RunID      string    `json:"run_id"`
	Project    string    `json:"project"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// LatestRunForProject returns the most recent run row for project, or
// false if none exists.
func (s *Postgres) LatestRunForProject(ctx context.Context, project string) (LatestRun, bool, error) {
	var run LatestRun
	err := s.pool.QueryRow(ctx,
		`SELECT run_id, project, started_at, finished_at FROM patroid_runs
		 WHERE project = $1 ORDER BY started_at DESC LIMIT 1`,
		project,
	).Scan(&run.RunID, &run.Project, &run.StartedAt, &run.FinishedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return LatestRun{}, false, nil
		}
		return LatestRun{}, false, apperr.Wrap(apperr.InternalError, "querying latest run", err)
	}
	return run, true, nil
}

// OccurrencesForRun returns every (pattern, witnesses JSON) row recorded
// for runID.
func (s *Postgres) OccurrencesForRun(ctx context.Context, runID string) (map[string][]json.RawMessage, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT pattern, witnesses FROM patroid_occurrences WHERE run_id = $1`, runID,
	)
	if err != nil {
		return nil, apperr.Wrap(apperr.InternalError, "querying occurrences", err)
	}
	defer rows.Close()

	out := make(map[string][]json.RawMessage)
	for rows.Next() {
		var pattern string
		var witnesses json.RawMessage
		if err := rows.Scan(&pattern, &witnesses); err != nil {
			return nil, apperr.Wrap(apperr.InternalError, "scanning occurrence row", err)
		}
		out[pattern] = append(out[pattern], witnesses)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.InternalError, "iterating occurrence rows", err)
	}
	return out, nil
}
