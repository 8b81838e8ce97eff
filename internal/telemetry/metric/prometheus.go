package metric

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hallwatch"

// Registry holds all application metrics.
type Registry struct {
	registry *prometheus.Registry

	// Update pipeline
	UpdatesTotal  *prometheus.CounterVec
	EventsTotal   *prometheus.CounterVec
	CounterResets prometheus.Counter
	MergeDuration prometheus.Histogram

	// Alerts and registry
	AlertsTotal   *prometheus.CounterVec
	RegistryCalls *prometheus.CounterVec

	// Transport
	PushConnected prometheus.Gauge

	// HTTP API
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewRegistry creates a registry with Go runtime and process collectors
// and every HallWatch metric registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{
		registry: reg,
		UpdatesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates_total",
			Help:      "Snapshot updates applied, by transport source.",
		}, []string{"source"}),
		EventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Occupancy events appended to the log, by kind.",
		}, []string{"kind"}),
		CounterResets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "counter_resets_total",
			Help:      "Counter decreases treated as backend resets.",
		}),
		MergeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "merge_duration_seconds",
			Help:      "Time to merge one update, derive events and publish the view.",
			Buckets:   []float64{.00005, .0001, .00025, .0005, .001, .0025, .005, .01, .05},
		}),
		AlertsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_total",
			Help:      "Capacity alerts raised, by kind.",
		}, []string{"kind"}),
		RegistryCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registry_calls_total",
			Help:      "Camera add/remove calls, by operation and result.",
		}, []string{"op", "result"}),
		PushConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "push_connected",
			Help:      "1 while the push channel is connected.",
		}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Dashboard HTTP API requests, by method and status.",
		}, []string{"method", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Dashboard HTTP API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}

	reg.MustRegister(
		r.UpdatesTotal,
		r.EventsTotal,
		r.CounterResets,
		r.MergeDuration,
		r.AlertsTotal,
		r.RegistryCalls,
		r.PushConnected,
		r.RequestsTotal,
		r.RequestDuration,
	)
	return r
}

var (
	globalOnce sync.Once
	global     *Registry
)

// Global returns the process-wide registry.
func Global() *Registry {
	globalOnce.Do(func() {
		global = NewRegistry()
	})
	return global
}

// Handler returns the /metrics handler of the global registry.
func Handler() http.Handler {
	return Global().Handler()
}

// Handler returns an HTTP handler exposing this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Register adds a custom collector to the registry.
func (r *Registry) Register(c prometheus.Collector) error {
	return r.registry.Register(c)
}

// IncUpdate counts one applied update.
func (r *Registry) IncUpdate(source string) {
	r.UpdatesTotal.WithLabelValues(source).Inc()
}

// AddEvents counts n appended events of a kind.
func (r *Registry) AddEvents(kind string, n int) {
	if n > 0 {
		r.EventsTotal.WithLabelValues(kind).Add(float64(n))
	}
}

// IncCounterReset counts one counter reset.
func (r *Registry) IncCounterReset() {
	r.CounterResets.Inc()
}

// ObserveMerge records the duration of one merge.
func (r *Registry) ObserveMerge(d time.Duration) {
	r.MergeDuration.Observe(d.Seconds())
}

// IncAlert counts one capacity alert.
func (r *Registry) IncAlert(kind string) {
	r.AlertsTotal.WithLabelValues(kind).Inc()
}

// RecordRegistryCall counts one registry call. result is "ok" or an error code.
func (r *Registry) RecordRegistryCall(op, result string) {
	r.RegistryCalls.WithLabelValues(op, result).Inc()
}

// SetPushConnected records the push channel state.
func (r *Registry) SetPushConnected(connected bool) {
	if connected {
		r.PushConnected.Set(1)
		return
	}
	r.PushConnected.Set(0)
}

// RecordRequest counts one HTTP request and its latency.
func (r *Registry) RecordRequest(method, status string, d time.Duration) {
	r.RequestsTotal.WithLabelValues(method, status).Inc()
	r.RequestDuration.WithLabelValues(method).Observe(d.Seconds())
}
