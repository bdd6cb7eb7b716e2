package models

import "time"

// Run statuses.
const (
	RunRunning   = "RUNNING"
	RunCompleted = "COMPLETED"
	RunFailed    = "FAILED"
)

// Run is the persisted record of one simulation.
type Run struct {
	ID           string        `json:"id"`
	ProblemID    string        `json:"problem_id,omitempty"`
	Status       string        `json:"status"`               // RUNNING | COMPLETED | FAILED
	StartedBy    string        `json:"started_by,omitempty"` // dispatcher username, "" for the CLI
	Rate         time.Duration `json:"rate"`                 // between orders
	MinPickup    time.Duration `json:"min_pickup"`           // inclusive
	MaxPickup    time.Duration `json:"max_pickup"`           // inclusive
	OrdersTotal  int           `json:"orders_total"`         // orders received
	OrdersPlaced int           `json:"orders_placed"`        // accepted by the kitchen
	Result       string        `json:"result,omitempty"`     // verdict text from the server
	Error        string        `json:"error,omitempty"`      // set when Status == FAILED
	StartedAt    time.Time     `json:"started_at"`
	FinishedAt   time.Time     `json:"finished_at,omitempty"`
}
