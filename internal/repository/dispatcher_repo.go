package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"delivery_kitchen/internal/models"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrDispatcherNotFound = errors.New("dispatcher not found")
)

type DispatcherSQLite struct {
	db *sql.DB
}

func NewDispatcherSQLite(db *sql.DB) *DispatcherSQLite {
	return &DispatcherSQLite{db: db}
}

var _ Dispatchers = (*DispatcherSQLite)(nil)

const (
	insertDispatcherSQL = `INSERT INTO dispatchers (username, password_hash, created_at) VALUES (?, ?, ?)`
	selectDispatcherSQL = `SELECT id, username, password_hash, created_at FROM dispatchers WHERE username = ?`
)

// Create stores a dispatcher and returns its id. Usernames are unique
// regardless of case.
func (r *DispatcherSQLite) Create(ctx context.Context, d models.Dispatcher) (int64, error) {
	createdAt := d.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	res, err := r.db.ExecContext(ctx, insertDispatcherSQL, d.Username, d.PasswordHash, createdAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: %s", ErrUsernameTaken, d.Username)
		}
		return 0, fmt.Errorf("insert dispatcher %q: %w", d.Username, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id for dispatcher %q: %w", d.Username, err)
	}
	return id, nil
}

// GetByUsername loads a dispatcher or returns ErrDispatcherNotFound.
func (r *DispatcherSQLite) GetByUsername(ctx context.Context, username string) (models.Dispatcher, error) {
	var d models.Dispatcher
	err := r.db.QueryRowContext(ctx, selectDispatcherSQL, username).
		Scan(&d.ID, &d.Username, &d.PasswordHash, &d.CreatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.Dispatcher{}, fmt.Errorf("%w: %s", ErrDispatcherNotFound, username)
	case err != nil:
		return models.Dispatcher{}, fmt.Errorf("select dispatcher %q: %w", username, err)
	}
	d.CreatedAt = d.CreatedAt.UTC()
	return d, nil
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	// drivers wrapped by sql mocks only keep the message
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
