package kitchen

import (
	"time"

	"delivery_kitchen/internal/models"
)

// Decay multipliers applied to elapsed time.
const (
	idealDecayRate    = 1.0
	nonIdealDecayRate = 2.0
)

// StoredOrder is an order sitting in one of the containers. It is treated as
// immutable: a move produces a new value at the new location.
type StoredOrder struct {
	Order    models.Order
	PlacedAt time.Time
	Location models.Location
}

func newStoredOrder(o models.Order, placedAt time.Time, loc models.Location) *StoredOrder {
	return &StoredOrder{Order: o, PlacedAt: placedAt, Location: loc}
}

// movedTo returns a copy of the order at a new location. PlacedAt is kept,
// so freshness keeps counting from the original placement.
func (s *StoredOrder) movedTo(loc models.Location) *StoredOrder {
	moved := *s
	moved.Location = loc
	return &moved
}

// IsAtIdealTemperature reports whether the current location matches the
// order's temperature class.
func (s *StoredOrder) IsAtIdealTemperature() bool {
	switch s.Order.Temp {
	case models.Hot:
		return s.Location == models.Heater
	case models.Cold:
		return s.Location == models.Cooler
	case models.Room:
		return s.Location == models.Shelf
	default:
		return false
	}
}

func (s *StoredOrder) decayRate() float64 {
	if s.IsAtIdealTemperature() {
		return idealDecayRate
	}
	return nonIdealDecayRate
}

// age is the time since placement in seconds, never negative.
func (s *StoredOrder) age(now time.Time) float64 {
	elapsed := now.Sub(s.PlacedAt).Seconds()
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// Freshness returns the remaining freshness in [0, 1] at now. The decay rate
// of the current location applies to the whole time since placement.
func (s *StoredOrder) Freshness(now time.Time) float64 {
	if s.Order.Freshness <= 0 {
		return 0
	}
	effectiveAge := s.age(now) * s.decayRate()
	f := 1.0 - effectiveAge/float64(s.Order.Freshness)
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}

// IsFresh reports whether any freshness remains at now.
func (s *StoredOrder) IsFresh(now time.Time) bool {
	return s.Freshness(now) > 0
}

// TimeUntilExpiration is how long until freshness reaches zero at the current
// decay rate. It is zero once the order has expired.
func (s *StoredOrder) TimeUntilExpiration(now time.Time) time.Duration {
	lifetime := float64(s.Order.Freshness) / s.decayRate()
	remaining := lifetime - s.age(now)
	if remaining <= 0 {
		return 0
	}
	return time.Duration(remaining * float64(time.Second))
}

// Value scores how worth keeping the order is; lower values are discarded
// first. Expired orders are always worth zero.
func (s *StoredOrder) Value(now time.Time) float64 {
	f := s.Freshness(now)
	if f <= 0 {
		return 0
	}
	tempMultiplier := idealDecayRate
	if !s.IsAtIdealTemperature() {
		tempMultiplier = nonIdealDecayRate
	}
	return (f * float64(s.Order.Freshness)) / ((s.age(now) + 1) * tempMultiplier)
}

// view converts the order to its read-only API representation.
func (s *StoredOrder) view(now time.Time) models.StoredOrderView {
	return models.StoredOrderView{
		Order:            s.Order,
		Location:         s.Location,
		PlacedAt:         s.PlacedAt.UTC(),
		Freshness:        s.Freshness(now),
		IdealTemperature: s.IsAtIdealTemperature(),
		ExpiresInSeconds: s.TimeUntilExpiration(now).Seconds(),
	}
}
