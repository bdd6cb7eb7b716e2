package kitchen

import (
	"container/heap"
	"sync"
	"time"

	"k8s.io/utils/clock"
)

// candidate is an element of the discard heap.
// The index is needed by heap.Remove and is maintained by the heap.Interface methods.
type candidate struct {
	order *StoredOrder
	value float64 // cached at insertion or at the last refresh
	index int
}

// valueHeap is a min-heap on value, ties broken by order id.
type valueHeap []*candidate

func (h valueHeap) Len() int { return len(h) }

func (h valueHeap) Less(i, j int) bool {
	if h[i].value != h[j].value {
		return h[i].value < h[j].value
	}
	return h[i].order.Order.ID < h[j].order.Order.ID
}

func (h valueHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *valueHeap) Push(x any) {
	c := x.(*candidate)
	c.index = len(*h)
	*h = append(*h, c)
}

func (h *valueHeap) Pop() any {
	old := *h
	n := len(old)
	c := old[n-1]
	old[n-1] = nil // avoid memory leak
	c.index = -1
	*h = old[:n-1]
	return c
}

// DiscardStrategy orders overflow shelf orders by value so the least
// valuable one can be evicted without scanning the shelf.
//
// Values are cached when an order is added. Because every value changes as
// time passes, Peek and Poll rebuild the heap against the current time
// whenever the clock has moved since the last rebuild.
type DiscardStrategy struct {
	mu          sync.Mutex
	clock       clock.PassiveClock
	items       valueHeap
	lookup      map[string]*candidate
	refreshedAt time.Time
}

// NewDiscardStrategy returns an empty strategy reading time from clk.
func NewDiscardStrategy(clk clock.PassiveClock) *DiscardStrategy {
	return &DiscardStrategy{
		clock:  clk,
		lookup: make(map[string]*candidate),
	}
}

// Add tracks an order. It returns false if the id is already tracked.
func (d *DiscardStrategy) Add(o *StoredOrder) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.lookup[o.Order.ID]; exists {
		return false
	}
	c := &candidate{order: o, value: o.Value(d.clock.Now())}
	d.lookup[o.Order.ID] = c
	heap.Push(&d.items, c)
	return true
}

// Remove stops tracking the given order.
func (d *DiscardStrategy) Remove(o *StoredOrder) bool {
	if o == nil {
		return false
	}
	return d.RemoveByID(o.Order.ID)
}

// RemoveByID stops tracking the order with the given id. It reports whether
// the order was tracked.
func (d *DiscardStrategy) RemoveByID(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, ok := d.lookup[id]
	if !ok {
		return false
	}
	heap.Remove(&d.items, c.index)
	delete(d.lookup, id)
	return true
}

// Peek returns the lowest-value order without removing it, or nil.
func (d *DiscardStrategy) Peek() *StoredOrder {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.items) == 0 {
		return nil
	}
	d.refreshIfStale()
	return d.items[0].order
}

// Poll removes and returns the lowest-value order, or nil.
func (d *DiscardStrategy) Poll() *StoredOrder {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.items) == 0 {
		return nil
	}
	d.refreshIfStale()
	c := heap.Pop(&d.items).(*candidate)
	delete(d.lookup, c.order.Order.ID)
	return c.order
}

// Refresh recomputes every value at the current time and restores heap order.
func (d *DiscardStrategy) Refresh() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rebuild(d.clock.Now())
}

// Len is the number of tracked orders.
func (d *DiscardStrategy) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.items)
}

// Contains reports whether the id is tracked.
func (d *DiscardStrategy) Contains(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.lookup[id]
	return ok
}

// Clear drops every tracked order.
func (d *DiscardStrategy) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.items = nil
	d.lookup = make(map[string]*candidate)
	d.refreshedAt = time.Time{}
}

// refreshIfStale must be called with mu held.
func (d *DiscardStrategy) refreshIfStale() {
	now := d.clock.Now()
	if now.Equal(d.refreshedAt) {
		return
	}
	d.rebuild(now)
}

// rebuild must be called with mu held.
func (d *DiscardStrategy) rebuild(now time.Time) {
	for _, c := range d.items {
		c.value = c.order.Value(now)
	}
	heap.Init(&d.items)
	d.refreshedAt = now
}
