package kitchen

import (
	"fmt"
	"sync"
	"testing"

	"delivery_kitchen/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storedAt(id string, temp models.Temperature, loc models.Location) *StoredOrder {
	return newStoredOrder(models.Order{ID: id, Temp: temp, Freshness: 60}, epoch, loc)
}

func TestContainer_CapacityInvariant(t *testing.T) {
	c := NewContainer(models.Heater, 6)
	require.True(t, c.IsEmpty())

	for i := 0; i < 6; i++ {
		require.True(t, c.Add(storedAt(fmt.Sprintf("h%d", i), models.Hot, models.Heater)))
		assert.LessOrEqual(t, c.Size(), c.Capacity())
	}
	assert.True(t, c.IsFull())

	assert.False(t, c.Add(storedAt("h6", models.Hot, models.Heater)), "7th add must be rejected")
	assert.Equal(t, 6, c.Size())
	assert.Nil(t, c.Get("h6"))
}

func TestContainer_DuplicateIDRejected(t *testing.T) {
	c := NewContainer(models.Shelf, 3)
	first := storedAt("dup", models.Room, models.Shelf)
	require.True(t, c.Add(first))
	assert.False(t, c.Add(storedAt("dup", models.Room, models.Shelf)))
	assert.Equal(t, 1, c.Size())
	assert.Same(t, first, c.Get("dup"))
}

func TestContainer_RemoveGetClear(t *testing.T) {
	c := NewContainer(models.Cooler, 2)
	o := storedAt("c1", models.Cold, models.Cooler)
	require.True(t, c.Add(o))

	assert.Same(t, o, c.Get("c1"))
	assert.Equal(t, 1, c.Size(), "Get must not remove")

	assert.Same(t, o, c.Remove("c1"))
	assert.Nil(t, c.Remove("c1"), "second remove finds nothing")
	assert.Nil(t, c.Remove("missing"))

	require.True(t, c.Add(storedAt("c2", models.Cold, models.Cooler)))
	require.True(t, c.Add(storedAt("c3", models.Cold, models.Cooler)))
	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.Empty(t, c.All())
}

func TestContainer_AllIsSnapshot(t *testing.T) {
	c := NewContainer(models.Shelf, 4)
	ids := []string{"b", "a", "c"}
	for _, id := range ids {
		require.True(t, c.Add(storedAt(id, models.Room, models.Shelf)))
	}

	snapshot := c.All()
	require.Len(t, snapshot, 3)
	c.Remove("a")
	assert.Len(t, snapshot, 3)

	got := map[string]bool{}
	for _, o := range snapshot {
		got[o.Order.ID] = true
	}
	assert.Equal(t, map[string]bool{"a": true, "b": true, "c": true}, got)
}

func TestContainer_ConcurrentAddsNeverExceedCapacity(t *testing.T) {
	c := NewContainer(models.Shelf, 12)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if c.Add(storedAt(fmt.Sprintf("s%03d", i), models.Room, models.Shelf)) {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 12, accepted)
	assert.Equal(t, 12, c.Size())
}
