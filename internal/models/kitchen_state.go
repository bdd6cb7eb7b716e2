package models

import "time"

// StoredOrderView is a read-only view of an order sitting in storage.
type StoredOrderView struct {
	Order            Order     `json:"order"`
	Location         Location  `json:"location"`
	PlacedAt         time.Time `json:"placed_at"`
	Freshness        float64   `json:"freshness"` // 0..1
	IdealTemperature bool      `json:"ideal_temperature"`
	ExpiresInSeconds float64   `json:"expires_in_seconds"` // 0 once expired
}

// ContainerState is the occupancy of one storage container.
type ContainerState struct {
	Location Location          `json:"location"`
	Capacity int               `json:"capacity"`
	Size     int               `json:"size"`
	Orders   []StoredOrderView `json:"orders"`
}

// KitchenState is a snapshot of all containers.
type KitchenState struct {
	Containers     []ContainerState `json:"containers"`
	TrackedOnShelf int              `json:"tracked_on_shelf"` // overflow orders eligible for discard
	Actions        int              `json:"actions"`
	TakenAt        time.Time        `json:"taken_at"`
}
