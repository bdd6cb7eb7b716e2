package service

import (
	"time"

	"delivery_kitchen/internal/models"
)

// PlaceParams is a single order submitted to the live kitchen.
type PlaceParams struct {
	Order models.Order
	// Dispatch schedules a driver for the order once it is placed.
	Dispatch  bool
	MinPickup time.Duration // inclusive
	MaxPickup time.Duration // inclusive
}

// SimulationParams configures one simulation run. With no Orders the problem
// is fetched from the challenge server and the result submitted back.
type SimulationParams struct {
	StartedBy string // dispatcher username recorded on the run
	Orders    []models.Order
	Name      string // challenge problem name, "" for the server default
	Seed      int64  // challenge seed, 0 for random
	Rate      time.Duration
	MinPickup time.Duration
	MaxPickup time.Duration
}

// ActionFilter selects action log entries by run, time range and kind.
type ActionFilter struct {
	RunID string    // "" means the live kitchen
	From  time.Time // inclusive; zero means no lower bound
	To    time.Time // inclusive; zero means no upper bound
	Kind  string    // "", "place", "move", "pickup", "discard"
}

// RunFilter selects stored simulation runs, most recent first.
type RunFilter struct {
	StartedBy string // "" means every dispatcher
	Limit     int    // <= 0 means the repository default
}
