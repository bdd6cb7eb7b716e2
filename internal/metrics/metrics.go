package metrics

import (
	"sync"

	"delivery_kitchen/internal/models"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "kitchen"

var (
	actionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_total",
			Help:      "Actions appended to the kitchen action log, by kind and target.",
		},
		[]string{"action", "target"},
	)

	placementFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "placement_failures_total",
			Help:      "Orders that could not be placed in any container.",
		},
	)

	runsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulation_runs_total",
			Help:      "Finished simulation runs, by status.",
		},
		[]string{"status"},
	)

	registerOnce sync.Once
)

// Register adds every collector to the default registry. Safe to call more
// than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(actionCounter, placementFailures, runsCounter)
	})
}

// RecordAction counts one action log entry.
func RecordAction(a models.Action) {
	actionCounter.WithLabelValues(string(a.Action), string(a.Target)).Inc()
}

// RecordPlacementFailure counts an order that found no slot.
func RecordPlacementFailure() {
	placementFailures.Inc()
}

// RecordRun counts a finished simulation run.
func RecordRun(status string) {
	runsCounter.WithLabelValues(status).Inc()
}

var descOccupancy = prometheus.NewDesc(
	prometheus.BuildFQName(namespace, "", "storage_occupancy"),
	"Orders currently held, by container.",
	[]string{"location"}, nil,
)

type occupancyCollector struct {
	snapshot func() models.KitchenState
}

var _ prometheus.Collector = &occupancyCollector{}

// NewOccupancyCollector reports container sizes read from snapshot at scrape
// time.
func NewOccupancyCollector(snapshot func() models.KitchenState) prometheus.Collector {
	return &occupancyCollector{snapshot: snapshot}
}

func (c *occupancyCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- descOccupancy
}

func (c *occupancyCollector) Collect(ch chan<- prometheus.Metric) {
	for _, cs := range c.snapshot().Containers {
		ch <- prometheus.MustNewConstMetric(descOccupancy, prometheus.GaugeValue, float64(cs.Size), string(cs.Location))
	}
}

// RegisterOccupancy exposes the occupancy of one kitchen on the default
// registry. Only one kitchen can be registered.
func RegisterOccupancy(snapshot func() models.KitchenState) error {
	return prometheus.Register(NewOccupancyCollector(snapshot))
}
