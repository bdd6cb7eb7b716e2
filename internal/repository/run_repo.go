package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"delivery_kitchen/internal/models"
)

type RunSQLite struct {
	db *sql.DB
}

func NewRunSQLite(db *sql.DB) *RunSQLite {
	return &RunSQLite{db: db}
}

const (
	defaultRunListLimit = 50

	upsertRunSQL = `
		INSERT INTO simulation_runs (id, problem_id, status, started_by, rate_us, min_us, max_us,
			orders_total, orders_placed, result, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			problem_id=excluded.problem_id,
			status=excluded.status,
			orders_total=excluded.orders_total,
			orders_placed=excluded.orders_placed,
			result=excluded.result,
			error=excluded.error,
			finished_at=excluded.finished_at
	`

	selectRunColumns = `
		SELECT id, problem_id, status, started_by, rate_us, min_us, max_us,
			orders_total, orders_placed, result, error, started_at, finished_at
		FROM simulation_runs`

	selectRunByIDSQL     = selectRunColumns + ` WHERE id=?`
	listRunsSQL          = selectRunColumns + ` ORDER BY started_at DESC LIMIT ?`
	listRunsStartedBySQL = selectRunColumns + ` WHERE started_by=? ORDER BY started_at DESC LIMIT ?`
)

// nullableTime stores zero times as NULL.
func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Save inserts the run or updates its mutable columns.
func (r *RunSQLite) Save(ctx context.Context, run models.Run) error {
	startedAt := run.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, upsertRunSQL,
		run.ID,
		run.ProblemID,
		run.Status,
		nullableString(run.StartedBy),
		run.Rate.Microseconds(),
		run.MinPickup.Microseconds(),
		run.MaxPickup.Microseconds(),
		run.OrdersTotal,
		run.OrdersPlaced,
		run.Result,
		run.Error,
		startedAt.UTC(),
		nullableTime(run.FinishedAt),
	)
	if err != nil {
		return fmt.Errorf("save run %s: %w", run.ID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (models.Run, error) {
	var (
		run                                models.Run
		problemID, startedBy, result, errS sql.NullString
		rateUS, minUS, maxUS               int64
		finishedAt                         sql.NullTime
	)
	if err := row.Scan(
		&run.ID,
		&problemID,
		&run.Status,
		&startedBy,
		&rateUS,
		&minUS,
		&maxUS,
		&run.OrdersTotal,
		&run.OrdersPlaced,
		&result,
		&errS,
		&run.StartedAt,
		&finishedAt,
	); err != nil {
		return models.Run{}, err
	}
	run.ProblemID = problemID.String
	run.StartedBy = startedBy.String
	run.Result = result.String
	run.Error = errS.String
	run.Rate = time.Duration(rateUS) * time.Microsecond
	run.MinPickup = time.Duration(minUS) * time.Microsecond
	run.MaxPickup = time.Duration(maxUS) * time.Microsecond
	run.StartedAt = run.StartedAt.UTC()
	if finishedAt.Valid {
		run.FinishedAt = finishedAt.Time.UTC()
	}
	return run, nil
}

// Get loads a run by id. A missing run yields a zero Run and no error.
func (r *RunSQLite) Get(ctx context.Context, id string) (models.Run, error) {
	run, err := scanRun(r.db.QueryRowContext(ctx, selectRunByIDSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Run{}, nil
		}
		return models.Run{}, fmt.Errorf("select run %s: %w", id, err)
	}
	return run, nil
}

// List returns the most recent runs first. A non-empty startedBy keeps only
// the runs that dispatcher started.
func (r *RunSQLite) List(ctx context.Context, startedBy string, limit int) ([]models.Run, error) {
	if limit <= 0 {
		limit = defaultRunListLimit
	}
	var (
		rows *sql.Rows
		err  error
	)
	if startedBy == "" {
		rows, err = r.db.QueryContext(ctx, listRunsSQL, limit)
	} else {
		rows, err = r.db.QueryContext(ctx, listRunsStartedBySQL, startedBy, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	out := make([]models.Run, 0, limit)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
