package metric

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/hallwatch-go/internal/core/domain"
)

// ViewSource provides the latest published view.
type ViewSource interface {
	View() *domain.View
}

// Collector exports occupancy gauges computed from the latest view at
// scrape time.
type Collector struct {
	source ViewSource

	hallInside   *prometheus.Desc
	hallCapacity *prometheus.Desc
	cameras      *prometheus.Desc
}

// NewCollector creates a collector reading from source.
func NewCollector(source ViewSource) *Collector {
	return &Collector{
		source: source,
		hallInside: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "hall_inside"),
			"Sum of inside across the hall's cameras.",
			[]string{"hall"}, nil,
		),
		hallCapacity: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "hall_capacity"),
			"Configured capacity of the hall.",
			[]string{"hall"}, nil,
		),
		cameras: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "cameras"),
			"Number of live cameras across all halls.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hallInside
	ch <- c.hallCapacity
	ch <- c.cameras
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	v := c.source.View()
	if v == nil {
		return
	}

	for _, h := range v.Halls {
		ch <- prometheus.MustNewConstMetric(c.hallInside, prometheus.GaugeValue, float64(h.Inside), h.HallID)
		if h.Capacity > 0 {
			ch <- prometheus.MustNewConstMetric(c.hallCapacity, prometheus.GaugeValue, float64(h.Capacity), h.HallID)
		}
	}
	ch <- prometheus.MustNewConstMetric(c.cameras, prometheus.GaugeValue, float64(v.Cameras))
}
