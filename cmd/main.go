package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "delivery_kitchen/docs"
	"delivery_kitchen/internal/client"
	"delivery_kitchen/internal/config"
	"delivery_kitchen/internal/handlers"
	"delivery_kitchen/internal/kitchen"
	"delivery_kitchen/internal/logger"
	"delivery_kitchen/internal/metrics"
	"delivery_kitchen/internal/repository"
	"delivery_kitchen/internal/repository/db"
	"delivery_kitchen/internal/server"
	"delivery_kitchen/internal/service"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// @title                       Delivery Kitchen API
// @version                     1.0
// @description                 Places, stores and hands out delivery orders across heater, cooler and shelf.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}

	log := logger.Get(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	sqlDB, err := db.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err, "path", cfg.DBPath)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch cfg.Mode {
	case config.ModeServe:
		err = serve(ctx, cfg, sqlDB, log)
	default:
		err = runOnce(ctx, cfg, sqlDB, log)
	}
	if err != nil {
		log.Errorw("exiting", "mode", cfg.Mode, "err", err)
		os.Exit(1)
	}
}

// kitchenFactory builds kitchens with the configured capacities.
func kitchenFactory(cfg config.Config) func(opts ...kitchen.Option) *kitchen.Kitchen {
	return func(opts ...kitchen.Option) *kitchen.Kitchen {
		base := []kitchen.Option{kitchen.WithCapacities(cfg.Storage.Heater, cfg.Storage.Cooler, cfg.Storage.Shelf)}
		return kitchen.New(append(base, opts...)...)
	}
}

func newChallenge(cfg config.Config) service.Challenge {
	if cfg.Challenge.Auth == "" {
		return nil
	}
	return client.New(cfg.Challenge.Endpoint, cfg.Challenge.Auth)
}

func simulationParams(cfg config.Config) service.SimulationParams {
	return service.SimulationParams{
		Name:      cfg.Challenge.Name,
		Seed:      cfg.Challenge.Seed,
		Rate:      cfg.Simulation.Rate,
		MinPickup: cfg.Simulation.Min,
		MaxPickup: cfg.Simulation.Max,
	}
}

// runOnce fetches one problem, runs it and submits the action log.
func runOnce(ctx context.Context, cfg config.Config, sqlDB *sql.DB, log *logger.Logger) error {
	challenge := newChallenge(cfg)
	if challenge == nil {
		return errors.New("challenge.auth is required in run mode (--auth or KITCHEN_CHALLENGE_AUTH)")
	}

	repos := repository.NewRepository(sqlDB)
	sim := service.NewSimulationService(repos.RunRepo, repos.ActionRepo, challenge, kitchenFactory(cfg), log)
	defer sim.Close()

	run, err := sim.Run(ctx, simulationParams(cfg))
	if err != nil {
		return err
	}
	log.Infow("Result: "+run.Result, "run_id", run.ID, "problem_id", run.ProblemID)
	return nil
}

// serve runs the HTTP API until ctx is cancelled.
func serve(ctx context.Context, cfg config.Config, sqlDB *sql.DB, log *logger.Logger) error {
	metrics.Register()

	newKitchen := kitchenFactory(cfg)
	live := newKitchen(
		kitchen.WithActionHook(service.LogActions(log, "kitchen", "live")),
		kitchen.WithActionHook(metrics.RecordAction),
	)
	if err := metrics.RegisterOccupancy(live.Snapshot); err != nil {
		return fmt.Errorf("register occupancy metrics: %w", err)
	}

	services := service.NewService(repository.NewRepository(sqlDB), service.Deps{
		Kitchen:    live,
		NewKitchen: newKitchen,
		Challenge:  newChallenge(cfg),
		SigningKey: cfg.SigningKey,
		Log:        log,
	})

	h := handlers.NewHandler(services, log)
	h.SetSimulationDefaults(cfg.Simulation.Rate, cfg.Simulation.Min, cfg.Simulation.Max)
	srv := server.New(cfg.Port, h.InitRoutes())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infow("http server listening", "addr", srv.Addr())
		return srv.Run()
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Infow("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)

		services.Close()
		return err
	})
	return g.Wait()
}
