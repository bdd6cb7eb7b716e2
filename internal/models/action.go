package models

import "time"

// ActionKind is what happened to an order.
type ActionKind string

const (
	ActionPlace   ActionKind = "place"
	ActionMove    ActionKind = "move"
	ActionPickup  ActionKind = "pickup"
	ActionDiscard ActionKind = "discard"
)

// Location is one of the three storage containers.
type Location string

const (
	Heater Location = "heater"
	Cooler Location = "cooler"
	Shelf  Location = "shelf"
)

// Action is a single action log entry. This is the shape submitted to the
// challenge server.
type Action struct {
	Timestamp int64      `json:"timestamp"` // microseconds since epoch
	ID        string     `json:"id"`
	Action    ActionKind `json:"action"`
	Target    Location   `json:"target"`
}

// NewAction stamps an action with the given wall-clock time.
func NewAction(at time.Time, id string, kind ActionKind, target Location) Action {
	return Action{
		Timestamp: at.UnixMicro(),
		ID:        id,
		Action:    kind,
		Target:    target,
	}
}

// Time converts the microsecond timestamp back to a UTC time.
func (a Action) Time() time.Time {
	return time.UnixMicro(a.Timestamp).UTC()
}
