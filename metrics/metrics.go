package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dispatch outcomes.
const (
	OutcomeOK               = "ok"
	OutcomeNotFound         = "not_found"
	OutcomeMethodNotAllowed = "method_not_allowed"
	OutcomeError            = "error"
)

// Short-circuit stages.
const (
	StageGlobal = "global"
	StageRoute  = "route"
)

// DefaultBuckets are the latency buckets used by New.
var DefaultBuckets = []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1}

// Collector records dispatch metrics. A nil *Collector records nothing.
type Collector struct {
	dispatches    *prometheus.CounterVec
	shortCircuits *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	inFlight      prometheus.Gauge
}

// New creates a collector with the default buckets.
func New(namespace string) *Collector {
	return NewWithBuckets(namespace, DefaultBuckets)
}

// NewWithBuckets creates a collector with custom latency buckets in seconds.
func NewWithBuckets(namespace string, buckets []float64) *Collector {
	if len(buckets) == 0 {
		buckets = DefaultBuckets
	}
	return &Collector{
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatches_total",
			Help:      "Dispatched requests by outcome.",
		}, []string{"outcome"}),
		shortCircuits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filter_short_circuits_total",
			Help:      "Before filters that answered in place of the route.",
		}, []string{"stage"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatch_duration_seconds",
			Help:      "Dispatch latency by outcome.",
			Buckets:   buckets,
		}, []string{"outcome"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dispatches_in_flight",
			Help:      "Requests currently being dispatched.",
		}),
	}
}

// Register registers every collector with reg.
func (c *Collector) Register(reg prometheus.Registerer) error {
	for _, col := range []prometheus.Collector{c.dispatches, c.shortCircuits, c.latency, c.inFlight} {
		if err := reg.Register(col); err != nil {
			return err
		}
	}
	return nil
}

// Start marks the start of a dispatch.
func (c *Collector) Start() time.Time {
	if c != nil {
		c.inFlight.Inc()
	}
	return time.Now()
}

// End records a finished dispatch.
func (c *Collector) End(start time.Time, outcome string) {
	if c == nil {
		return
	}
	c.inFlight.Dec()
	c.dispatches.WithLabelValues(outcome).Inc()
	c.latency.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
}

// ShortCircuit records a before filter answering at the given stage.
func (c *Collector) ShortCircuit(stage string) {
	if c == nil {
		return
	}
	c.shortCircuits.WithLabelValues(stage).Inc()
}

// Handler exposes the gatherer in the Prometheus text format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	if gatherer == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
