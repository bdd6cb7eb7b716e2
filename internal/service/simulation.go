package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"delivery_kitchen/internal/client"
	"delivery_kitchen/internal/kitchen"
	"delivery_kitchen/internal/logger"
	"delivery_kitchen/internal/metrics"
	"delivery_kitchen/internal/models"
	"delivery_kitchen/internal/repository"

	"github.com/google/uuid"
	"k8s.io/utils/clock"
)

// Challenge is the remote problem source and judge.
type Challenge interface {
	Fetch(ctx context.Context, name string, seed int64) (client.Problem, error)
	Solve(ctx context.Context, problemID string, rate, minPickup, maxPickup time.Duration, actions []models.Action) (string, error)
}

var ErrNoChallenge = errors.New("no orders given and no challenge server configured")

// statusTags prefix the per-action console lines.
var statusTags = map[models.ActionKind]string{
	models.ActionPlace:   "[PLACED]",
	models.ActionMove:    "[MOVED]",
	models.ActionPickup:  "[PICKUP]",
	models.ActionDiscard: "[DISCARD]",
}

// LogActions returns a hook that writes one status line per action.
func LogActions(log *logger.Logger, keysAndValues ...any) kitchen.ActionHook {
	return func(a models.Action) {
		kv := append([]any{"order_id", a.ID, "target", a.Target, "timestamp", a.Timestamp}, keysAndValues...)
		log.Infow(fmt.Sprintf("%s %s -> %s", statusTags[a.Action], a.ID, a.Target), kv...)
	}
}

// SimulationService replays order streams against a fresh kitchen: one order
// every Rate, one driver per placed order, then persists the action log and,
// for fetched problems, submits it for grading.
type SimulationService struct {
	runRepo    repository.RunRepo
	actionRepo repository.ActionRepo
	challenge  Challenge
	newKitchen func(opts ...kitchen.Option) *kitchen.Kitchen
	log        *logger.Logger
	clock      clock.Clock

	// background runs started through Start
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewSimulationService(
	runRepo repository.RunRepo,
	actionRepo repository.ActionRepo,
	challenge Challenge,
	newKitchen func(opts ...kitchen.Option) *kitchen.Kitchen,
	log *logger.Logger,
) *SimulationService {
	if newKitchen == nil {
		newKitchen = kitchen.New
	}
	if log == nil {
		log = logger.Nop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &SimulationService{
		runRepo:    runRepo,
		actionRepo: actionRepo,
		challenge:  challenge,
		newKitchen: newKitchen,
		log:        log,
		clock:      clock.RealClock{},
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Run executes a simulation and blocks until it has finished. The returned
// run is recorded even when err is non-nil.
func (s *SimulationService) Run(ctx context.Context, p SimulationParams) (models.Run, error) {
	run, err := s.begin(ctx, p)
	if err != nil {
		return models.Run{}, err
	}
	return s.execute(ctx, run, p)
}

// Start records a new run and executes it in the background. The returned
// run is still RUNNING; poll Get for the outcome.
func (s *SimulationService) Start(ctx context.Context, p SimulationParams) (models.Run, error) {
	run, err := s.begin(ctx, p)
	if err != nil {
		return models.Run{}, err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if _, err := s.execute(s.ctx, run, p); err != nil {
			s.log.Warnw("simulation_background_failed", "run_id", run.ID, "err", err)
		}
	}()
	return run, nil
}

// Close cancels background runs and waits for them to record their outcome.
func (s *SimulationService) Close() {
	s.cancel()
	s.wg.Wait()
}

func (s *SimulationService) Get(ctx context.Context, id string) (models.Run, error) {
	run, err := s.runRepo.Get(ctx, id)
	if err != nil {
		return models.Run{}, err
	}
	if run.ID == "" {
		return models.Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, nil
}

func (s *SimulationService) List(ctx context.Context, f RunFilter) ([]models.Run, error) {
	return s.runRepo.List(ctx, f.StartedBy, f.Limit)
}

func validateSimulation(p SimulationParams) error {
	if p.Rate < 0 {
		return fmt.Errorf("%w: rate must not be negative", ErrInvalidOrder)
	}
	if err := validatePickupWindow(p.MinPickup, p.MaxPickup); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(p.Orders))
	for i, o := range p.Orders {
		if err := validateOrder(o); err != nil {
			return fmt.Errorf("order %d: %w", i, err)
		}
		if _, dup := seen[o.ID]; dup {
			return fmt.Errorf("order %d: %w: %s", i, ErrDuplicateOrder, o.ID)
		}
		seen[o.ID] = struct{}{}
	}
	return nil
}

func (s *SimulationService) begin(ctx context.Context, p SimulationParams) (models.Run, error) {
	if err := validateSimulation(p); err != nil {
		return models.Run{}, err
	}
	if len(p.Orders) == 0 && s.challenge == nil {
		return models.Run{}, ErrNoChallenge
	}

	run := models.Run{
		ID:          uuid.NewString(),
		Status:      models.RunRunning,
		StartedBy:   p.StartedBy,
		Rate:        p.Rate,
		MinPickup:   p.MinPickup,
		MaxPickup:   p.MaxPickup,
		OrdersTotal: len(p.Orders),
		StartedAt:   s.clock.Now().UTC(),
	}
	if err := s.runRepo.Save(ctx, run); err != nil {
		return models.Run{}, fmt.Errorf("record run: %w", err)
	}
	return run, nil
}

func (s *SimulationService) execute(ctx context.Context, run models.Run, p SimulationParams) (models.Run, error) {
	orders := p.Orders
	remote := len(orders) == 0
	if remote {
		problem, err := s.challenge.Fetch(ctx, p.Name, p.Seed)
		if err != nil {
			return s.fail(ctx, run, fmt.Errorf("fetch problem: %w", err))
		}
		run.ProblemID = problem.ID
		orders = problem.Orders
		run.OrdersTotal = len(orders)
	}

	s.log.Infow("simulation_started",
		"run_id", run.ID,
		"started_by", run.StartedBy,
		"problem_id", run.ProblemID,
		"orders", len(orders),
		"rate", p.Rate,
		"min_pickup", p.MinPickup,
		"max_pickup", p.MaxPickup,
	)

	k := s.newKitchen(
		kitchen.WithActionHook(LogActions(s.log, "run_id", run.ID)),
		kitchen.WithActionHook(metrics.RecordAction),
	)
	placed, err := s.dispatch(ctx, k, orders, p)
	k.Wait()
	run.OrdersPlaced = placed
	if err != nil {
		return s.fail(ctx, run, err)
	}

	actions := k.Actions()
	if err := s.actionRepo.AppendBatch(ctx, run.ID, actions); err != nil {
		return s.fail(ctx, run, fmt.Errorf("store action log: %w", err))
	}

	if remote {
		result, err := s.challenge.Solve(ctx, run.ProblemID, p.Rate, p.MinPickup, p.MaxPickup, actions)
		if err != nil {
			return s.fail(ctx, run, fmt.Errorf("submit solution: %w", err))
		}
		run.Result = result
	}

	run.Status = models.RunCompleted
	run.FinishedAt = s.clock.Now().UTC()
	if err := s.runRepo.Save(ctx, run); err != nil {
		return run, fmt.Errorf("record run: %w", err)
	}
	metrics.RecordRun(run.Status)
	s.log.Infow("simulation_finished",
		"run_id", run.ID,
		"placed", run.OrdersPlaced,
		"total", run.OrdersTotal,
		"actions", len(actions),
		"result", run.Result,
	)
	return run, nil
}

// dispatch places the orders at the configured rate and schedules a driver
// for each placed one. It stops early when ctx ends.
func (s *SimulationService) dispatch(ctx context.Context, k *kitchen.Kitchen, orders []models.Order, p SimulationParams) (int, error) {
	placed := 0
	for _, o := range orders {
		if err := ctx.Err(); err != nil {
			return placed, err
		}
		if k.PlaceOrder(o) {
			placed++
			k.ScheduleDriverPickup(ctx, o.ID, p.MinPickup, p.MaxPickup)
		} else {
			metrics.RecordPlacementFailure()
			s.log.Warnw("[FAILED] Could not place order "+o.ID, "order_id", o.ID, "temp", o.Temp)
		}

		select {
		case <-ctx.Done():
			return placed, ctx.Err()
		case <-s.clock.After(p.Rate):
		}
	}
	return placed, nil
}

// fail records the run as FAILED. The record is written even if ctx has
// ended so cancelled runs do not stay RUNNING.
func (s *SimulationService) fail(ctx context.Context, run models.Run, cause error) (models.Run, error) {
	run.Status = models.RunFailed
	run.Error = cause.Error()
	run.FinishedAt = s.clock.Now().UTC()
	if err := s.runRepo.Save(context.WithoutCancel(ctx), run); err != nil {
		s.log.Errorw("simulation_record_failed", "run_id", run.ID, "err", err)
	}
	metrics.RecordRun(run.Status)
	s.log.Errorw("simulation_failed", "run_id", run.ID, "err", cause)
	return run, cause
}
