package repository

import (
	"context"
	"database/sql"
	"time"

	"delivery_kitchen/internal/models"
)

// Dispatchers stores API accounts.
type Dispatchers interface {
	Create(ctx context.Context, d models.Dispatcher) (int64, error)
	GetByUsername(ctx context.Context, username string) (models.Dispatcher, error)
}

// RunRepo stores simulation run records.
type RunRepo interface {
	Save(ctx context.Context, r models.Run) error
	Get(ctx context.Context, id string) (models.Run, error)
	List(ctx context.Context, startedBy string, limit int) ([]models.Run, error)
}

// ActionRepo stores the action log of each run.
type ActionRepo interface {
	AppendBatch(ctx context.Context, runID string, actions []models.Action) error
	List(ctx context.Context, runID string, from, to time.Time, kind string) ([]models.Action, error)
}

type Repository struct {
	RunRepo     RunRepo
	ActionRepo  ActionRepo
	Dispatchers Dispatchers
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		RunRepo:     NewRunSQLite(db),
		ActionRepo:  NewActionSQLite(db),
		Dispatchers: NewDispatcherSQLite(db),
	}
}
