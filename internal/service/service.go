package service

import (
	"context"

	"delivery_kitchen/internal/kitchen"
	"delivery_kitchen/internal/logger"
	"delivery_kitchen/internal/models"
	"delivery_kitchen/internal/repository"
)

// Authorization registers dispatchers and resolves bearer tokens to them.
type Authorization interface {
	SignUp(ctx context.Context, username, password string) (models.Dispatcher, error)
	SignIn(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (models.Identity, error)
}

// Kitchen operates the live kitchen: placing, picking up and resetting.
type Kitchen interface {
	PlaceOrder(ctx context.Context, p PlaceParams) (bool, error)
	PickupOrder(ctx context.Context, id string) (bool, error)
	Reset(ctx context.Context) error
}

// Monitoring exposes read-only state of the live kitchen.
type Monitoring interface {
	GetState(ctx context.Context) (models.KitchenState, error)
}

// ActionLog lists action log entries of the live kitchen or of a stored run.
type ActionLog interface {
	List(ctx context.Context, f ActionFilter) ([]models.Action, error)
}

// Simulation executes order streams against a fresh kitchen and keeps the
// history of runs.
type Simulation interface {
	Run(ctx context.Context, p SimulationParams) (models.Run, error)
	Start(ctx context.Context, p SimulationParams) (models.Run, error)
	Get(ctx context.Context, id string) (models.Run, error)
	List(ctx context.Context, f RunFilter) ([]models.Run, error)
}

type Service struct {
	Kitchen
	Monitoring
	ActionLog
	Simulation
	Authorization
}

// Deps carries what the services need beyond the repositories.
type Deps struct {
	Kitchen    *kitchen.Kitchen
	NewKitchen func(opts ...kitchen.Option) *kitchen.Kitchen
	Challenge  Challenge
	SigningKey string
	Log        *logger.Logger
}

// NewService wires the repository layer and the live kitchen into concrete
// services.
func NewService(repos *repository.Repository, deps Deps) *Service {
	return &Service{
		Kitchen:       NewKitchenService(deps.Kitchen),
		Monitoring:    NewMonitoringService(deps.Kitchen),
		ActionLog:     NewActionLogService(deps.Kitchen, repos.RunRepo, repos.ActionRepo),
		Simulation:    NewSimulationService(repos.RunRepo, repos.ActionRepo, deps.Challenge, deps.NewKitchen, deps.Log),
		Authorization: NewAuthService(repos.Dispatchers, deps.SigningKey),
	}
}

// Close stops background work owned by the services: scheduled drivers and
// simulations started with Start.
func (s *Service) Close() {
	for _, svc := range []any{s.Kitchen, s.Simulation} {
		if c, ok := svc.(interface{ Close() }); ok {
			c.Close()
		}
	}
}
