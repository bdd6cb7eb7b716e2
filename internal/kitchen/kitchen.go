// Package kitchen is the storage and eviction engine of the delivery kitchen:
// three bounded containers, the freshness model, value-based discard of
// overflow orders and the action log.
package kitchen

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"delivery_kitchen/internal/models"

	"k8s.io/utils/clock"
)

// ActionHook observes every action after it has been appended to the log.
// Hooks run on the goroutine that produced the action and must not call back
// into the Kitchen.
type ActionHook func(models.Action)

// Option configures a Kitchen.
type Option func(*Kitchen)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(clk clock.WithTicker) Option {
	return func(k *Kitchen) { k.clock = clk }
}

// WithRand makes pickup delays reproducible.
func WithRand(r *rand.Rand) Option {
	return func(k *Kitchen) { k.rnd = r }
}

// WithCapacities overrides the container capacities.
func WithCapacities(heater, cooler, shelf int) Option {
	return func(k *Kitchen) {
		k.capacities = [3]int{heater, cooler, shelf}
	}
}

// WithActionHook registers an observer for appended actions.
func WithActionHook(h ActionHook) Option {
	return func(k *Kitchen) { k.hooks = append(k.hooks, h) }
}

// Kitchen owns the containers, the discard strategy and the action log.
//
// Each container, the strategy and the log have their own lock. Placements
// are additionally serialised with each other; pickups run concurrently with
// everything. A pickup racing with a shelf-to-heater move may miss the order
// while it is between containers.
type Kitchen struct {
	clock      clock.WithTicker
	capacities [3]int

	heater  *Container
	cooler  *Container
	shelf   *Container
	discard *DiscardStrategy

	placeMu sync.Mutex

	actionsMu sync.Mutex
	actions   []models.Action
	hooks     []ActionHook

	rndMu sync.Mutex
	rnd   *rand.Rand

	pickups sync.WaitGroup
}

// New builds a Kitchen with default capacities and the real clock.
func New(opts ...Option) *Kitchen {
	k := &Kitchen{
		clock:      clock.RealClock{},
		capacities: [3]int{DefaultHeaterCapacity, DefaultCoolerCapacity, DefaultShelfCapacity},
	}
	for _, opt := range opts {
		opt(k)
	}
	k.heater = NewContainer(models.Heater, k.capacities[0])
	k.cooler = NewContainer(models.Cooler, k.capacities[1])
	k.shelf = NewContainer(models.Shelf, k.capacities[2])
	k.discard = NewDiscardStrategy(k.clock)
	return k
}

// Storage returns the container at loc, or nil for an unknown location.
func (k *Kitchen) Storage(loc models.Location) *Container {
	switch loc {
	case models.Heater:
		return k.heater
	case models.Cooler:
		return k.cooler
	case models.Shelf:
		return k.shelf
	default:
		return nil
	}
}

// Holds reports whether any container stores the id.
func (k *Kitchen) Holds(id string) bool {
	for _, c := range []*Container{k.heater, k.cooler, k.shelf} {
		if c.Get(id) != nil {
			return true
		}
	}
	return false
}

// Discard exposes the strategy tracking overflow shelf orders.
func (k *Kitchen) Discard() *DiscardStrategy { return k.discard }

// PlaceOrder stores the order in its ideal container, falling back to the
// shelf for hot and cold orders. When the shelf is full it first tries to move
// a shelf order to its now-free ideal container, then discards the least
// valuable overflow order. It returns false, without logging, if no slot can
// be found or an order with the same id is already stored.
func (k *Kitchen) PlaceOrder(order models.Order) bool {
	k.placeMu.Lock()
	defer k.placeMu.Unlock()

	if k.Holds(order.ID) {
		return false
	}

	now := k.clock.Now()
	ideal := order.Temp.IdealLocation()
	if k.Storage(ideal).Add(newStoredOrder(order, now, ideal)) {
		k.record(order.ID, models.ActionPlace, ideal)
		return true
	}
	// Room orders have nowhere else to go and never free shelf space by moving.
	if ideal == models.Shelf {
		return false
	}

	overflow := newStoredOrder(order, now, models.Shelf)
	if k.addToShelf(overflow) {
		return true
	}
	if !k.moveToIdeal() && !k.discardLowest() {
		return false
	}
	return k.addToShelf(overflow)
}

// addToShelf places an overflow order on the shelf and tracks it for discard.
func (k *Kitchen) addToShelf(o *StoredOrder) bool {
	if !k.shelf.Add(o) {
		return false
	}
	k.discard.Add(o)
	k.record(o.Order.ID, models.ActionPlace, models.Shelf)
	return true
}

// moveToIdeal moves the oldest shelf order whose ideal container has room.
func (k *Kitchen) moveToIdeal() bool {
	for _, occupant := range k.shelf.All() {
		dest := occupant.Order.Temp.IdealLocation()
		if dest == models.Shelf {
			continue
		}
		target := k.Storage(dest)
		if target.IsFull() {
			continue
		}
		if k.shelf.Remove(occupant.Order.ID) == nil {
			// Picked up in the meantime.
			continue
		}
		k.discard.RemoveByID(occupant.Order.ID)
		if !target.Add(occupant.movedTo(dest)) {
			k.shelf.Add(occupant)
			k.discard.Add(occupant)
			continue
		}
		k.record(occupant.Order.ID, models.ActionMove, dest)
		return true
	}
	return false
}

// discardLowest evicts the least valuable overflow order from the shelf.
func (k *Kitchen) discardLowest() bool {
	for {
		victim := k.discard.Poll()
		if victim == nil {
			return false
		}
		if k.shelf.Remove(victim.Order.ID) != nil {
			k.record(victim.Order.ID, models.ActionDiscard, models.Shelf)
			return true
		}
		// A concurrent pickup took it; that freed the slot anyway.
		if !k.shelf.IsFull() {
			return true
		}
	}
}

// PickupOrder removes the order from whichever container holds it. Fresh
// orders are logged as a pickup and return true. Expired orders are logged as
// a discard and return false. Unknown ids return false and log nothing.
func (k *Kitchen) PickupOrder(id string) bool {
	var taken *StoredOrder
	for _, c := range []*Container{k.cooler, k.heater, k.shelf} {
		if taken = c.Remove(id); taken != nil {
			break
		}
	}
	if taken == nil {
		return false
	}
	if taken.Location == models.Shelf {
		k.discard.RemoveByID(id)
	}

	if !taken.IsFresh(k.clock.Now()) {
		k.record(id, models.ActionDiscard, taken.Location)
		return false
	}
	k.record(id, models.ActionPickup, taken.Location)
	return true
}

// ScheduleDriverPickup starts a driver that waits a uniformly random delay in
// [minDelay, maxDelay] and then picks the order up. The delay is drawn and the timer
// armed before returning. If ctx ends first the driver leaves without picking
// up. It returns the drawn delay.
func (k *Kitchen) ScheduleDriverPickup(ctx context.Context, id string, minDelay, maxDelay time.Duration) time.Duration {
	delay := k.pickupDelay(minDelay, maxDelay)
	timer := k.clock.NewTimer(delay)

	k.pickups.Add(1)
	go func() {
		defer k.pickups.Done()
		select {
		case <-ctx.Done():
			timer.Stop()
		case <-timer.C():
			k.PickupOrder(id)
		}
	}()
	return delay
}

// Wait blocks until every scheduled driver has finished.
func (k *Kitchen) Wait() {
	k.pickups.Wait()
}

func (k *Kitchen) pickupDelay(minDelay, maxDelay time.Duration) time.Duration {
	if minDelay < 0 {
		minDelay = 0
	}
	span := maxDelay - minDelay
	if span <= 0 {
		return minDelay
	}
	k.rndMu.Lock()
	defer k.rndMu.Unlock()
	if k.rnd == nil {
		return minDelay + time.Duration(rand.Int64N(int64(span)+1))
	}
	return minDelay + time.Duration(k.rnd.Int64N(int64(span)+1))
}

// Actions returns a copy of the action log in append order.
func (k *Kitchen) Actions() []models.Action {
	k.actionsMu.Lock()
	defer k.actionsMu.Unlock()
	out := make([]models.Action, len(k.actions))
	copy(out, k.actions)
	return out
}

// Clear empties every container, the discard strategy and the action log.
func (k *Kitchen) Clear() {
	k.placeMu.Lock()
	defer k.placeMu.Unlock()

	k.heater.Clear()
	k.cooler.Clear()
	k.shelf.Clear()
	k.discard.Clear()

	k.actionsMu.Lock()
	k.actions = nil
	k.actionsMu.Unlock()
}

// Snapshot reports container occupancy and per-order freshness right now.
func (k *Kitchen) Snapshot() models.KitchenState {
	now := k.clock.Now()
	state := models.KitchenState{TakenAt: now.UTC()}
	for _, c := range []*Container{k.heater, k.cooler, k.shelf} {
		orders := c.All()
		cs := models.ContainerState{
			Location: c.Location(),
			Capacity: c.Capacity(),
			Size:     len(orders),
			Orders:   make([]models.StoredOrderView, 0, len(orders)),
		}
		for _, o := range orders {
			cs.Orders = append(cs.Orders, o.view(now))
		}
		state.Containers = append(state.Containers, cs)
	}
	state.TrackedOnShelf = k.discard.Len()

	k.actionsMu.Lock()
	state.Actions = len(k.actions)
	k.actionsMu.Unlock()
	return state
}

func (k *Kitchen) record(id string, kind models.ActionKind, target models.Location) {
	a := models.NewAction(k.clock.Now(), id, kind, target)

	k.actionsMu.Lock()
	k.actions = append(k.actions, a)
	k.actionsMu.Unlock()

	for _, h := range k.hooks {
		h(a)
	}
}
