package metrics

import (
	"strings"
	"testing"

	"delivery_kitchen/internal/models"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAction(t *testing.T) {
	c := actionCounter.WithLabelValues("pickup", "cooler")
	before := testutil.ToFloat64(c)

	RecordAction(models.Action{ID: "a", Action: models.ActionPickup, Target: models.Cooler})
	RecordAction(models.Action{ID: "b", Action: models.ActionPickup, Target: models.Cooler})

	assert.Equal(t, before+2, testutil.ToFloat64(c))
}

func TestOccupancyCollector_ReadsAtScrape(t *testing.T) {
	state := models.KitchenState{Containers: []models.ContainerState{
		{Location: models.Heater, Capacity: 6, Size: 4},
		{Location: models.Shelf, Capacity: 12, Size: 11},
	}}
	c := NewOccupancyCollector(func() models.KitchenState { return state })

	want := `
# HELP kitchen_storage_occupancy Orders currently held, by container.
# TYPE kitchen_storage_occupancy gauge
kitchen_storage_occupancy{location="heater"} 4
kitchen_storage_occupancy{location="shelf"} 11
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(want)))

	state.Containers[0].Size = 1
	want = strings.Replace(want, `{location="heater"} 4`, `{location="heater"} 1`, 1)
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(want)), "value follows the kitchen between scrapes")
}

func TestRegister_Idempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Register()
		Register()
	})
}
