package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"delivery_kitchen/internal/models"
)

type ActionSQLite struct {
	db *sql.DB
}

func NewActionSQLite(db *sql.DB) *ActionSQLite { return &ActionSQLite{db: db} }

const insertActionSQL = `
		INSERT INTO kitchen_actions (run_id, ts_us, order_id, action, target)
		VALUES (?, ?, ?, ?, ?)
	`

// AppendBatch stores a run's action log in one transaction, preserving order.
func (r *ActionSQLite) AppendBatch(ctx context.Context, runID string, actions []models.Action) error {
	if len(actions) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin action batch: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, insertActionSQL)
	if err != nil {
		return fmt.Errorf("prepare action insert: %w", err)
	}
	defer stmt.Close()

	for i, a := range actions {
		if _, err := stmt.ExecContext(ctx, runID, a.Timestamp, a.ID, string(a.Action), string(a.Target)); err != nil {
			return fmt.Errorf("insert action %d of run %s: %w", i, runID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit action batch: %w", err)
	}
	return nil
}

// List returns a run's actions in log order, optionally filtered by
// [from, to] (inclusive) and by kind. An empty runID lists across runs.
func (r *ActionSQLite) List(ctx context.Context, runID string, from, to time.Time, kind string) ([]models.Action, error) {
	var (
		conds []string
		args  []any
	)

	if runID != "" {
		conds = append(conds, "run_id = ?")
		args = append(args, runID)
	}
	if !from.IsZero() {
		conds = append(conds, "ts_us >= ?")
		args = append(args, from.UnixMicro())
	}
	if !to.IsZero() {
		conds = append(conds, "ts_us <= ?")
		args = append(args, to.UnixMicro())
	}
	if kind = strings.ToLower(strings.TrimSpace(kind)); kind != "" {
		conds = append(conds, "action = ?")
		args = append(args, kind)
	}

	q := `SELECT ts_us, order_id, action, target FROM kitchen_actions`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY seq ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Action, 0, 64)
	for rows.Next() {
		var (
			a              models.Action
			action, target string
		)
		if err := rows.Scan(&a.Timestamp, &a.ID, &action, &target); err != nil {
			return nil, err
		}
		a.Action = models.ActionKind(action)
		a.Target = models.Location(target)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
