package kitchen

import (
	"sort"
	"sync"

	"delivery_kitchen/internal/models"
)

// Default capacities of the three containers.
const (
	DefaultHeaterCapacity = 6
	DefaultCoolerCapacity = 6
	DefaultShelfCapacity  = 12
)

// Container is a bounded store of orders keyed by order id. All methods are
// safe for concurrent use; the lock is never held across anything slower than
// a map operation.
type Container struct {
	mu       sync.Mutex
	location models.Location
	capacity int
	orders   map[string]*StoredOrder
}

// NewContainer returns an empty container.
func NewContainer(loc models.Location, capacity int) *Container {
	return &Container{
		location: loc,
		capacity: capacity,
		orders:   make(map[string]*StoredOrder, capacity),
	}
}

// Location is where this container sits.
func (c *Container) Location() models.Location { return c.location }

// Capacity is the fixed maximum number of orders.
func (c *Container) Capacity() int { return c.capacity }

// Add inserts the order if there is room and no order with the same id is
// already stored. It reports whether the order was inserted.
func (c *Container) Add(o *StoredOrder) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.orders) >= c.capacity {
		return false
	}
	if _, exists := c.orders[o.Order.ID]; exists {
		return false
	}
	c.orders[o.Order.ID] = o
	return true
}

// Remove deletes and returns the order, or nil if it is not here.
func (c *Container) Remove(id string) *StoredOrder {
	c.mu.Lock()
	defer c.mu.Unlock()
	o, ok := c.orders[id]
	if !ok {
		return nil
	}
	delete(c.orders, id)
	return o
}

// Get returns the order without removing it, or nil.
func (c *Container) Get(id string) *StoredOrder {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.orders[id]
}

// All returns a snapshot of the stored orders, oldest placement first.
func (c *Container) All() []*StoredOrder {
	c.mu.Lock()
	out := make([]*StoredOrder, 0, len(c.orders))
	for _, o := range c.orders {
		out = append(out, o)
	}
	c.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].PlacedAt.Equal(out[j].PlacedAt) {
			return out[i].PlacedAt.Before(out[j].PlacedAt)
		}
		return out[i].Order.ID < out[j].Order.ID
	})
	return out
}

// Size is the number of stored orders.
func (c *Container) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.orders)
}

func (c *Container) IsFull() bool  { return c.Size() >= c.capacity }
func (c *Container) IsEmpty() bool { return c.Size() == 0 }

// Clear drops every stored order.
func (c *Container) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.orders = make(map[string]*StoredOrder, c.capacity)
}
