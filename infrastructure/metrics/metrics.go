// Package metrics records dispatch activity as Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/reglet-dev/xrlayer/domain/entities"
	"github.com/reglet-dev/xrlayer/domain/ports"
)

const namespace = "xrlayer"

// Collector implements ports.Observer on top of Prometheus vectors.
type Collector struct {
	resolutions     *prometheus.CounterVec
	invocations     *prometheus.CounterVec
	upstreamMissing *prometheus.CounterVec
	duration        *prometheus.HistogramVec
}

var _ ports.Observer = (*Collector)(nil)

// New creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "resolutions_total",
				Help:      "Name resolutions by outcome.",
			},
			[]string{"outcome"},
		),
		invocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "shim_invocations_total",
				Help:      "Shim calls by function and result.",
			},
			[]string{"function", "result"},
		),
		upstreamMissing: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upstream_missing_total",
				Help:      "Shimmed functions the next layer did not provide.",
			},
			[]string{"function"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "shim_duration_seconds",
				Help:      "Shim call latency.",
				Buckets:   []float64{0.00001, 0.0001, 0.001, 0.005, 0.01, 0.05},
			},
			[]string{"function"},
		),
	}

	if reg == nil {
		return c, nil
	}
	for _, col := range []prometheus.Collector{c.resolutions, c.invocations, c.upstreamMissing, c.duration} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// MustNew is New that panics on registration failure.
func MustNew(reg prometheus.Registerer) *Collector {
	c, err := New(reg)
	if err != nil {
		panic(err)
	}
	return c
}

// ObserveResolution implements ports.Observer.
func (c *Collector) ObserveResolution(_ string, outcome ports.Outcome) {
	c.resolutions.WithLabelValues(string(outcome)).Inc()
}

// ObserveUpstreamMissing implements ports.Observer.
func (c *Collector) ObserveUpstreamMissing(name string) {
	c.upstreamMissing.WithLabelValues(name).Inc()
}

// ObserveInvocation implements ports.Observer.
func (c *Collector) ObserveInvocation(name string, elapsed time.Duration, result entities.Result) {
	c.invocations.WithLabelValues(name, result.String()).Inc()
	c.duration.WithLabelValues(name).Observe(elapsed.Seconds())
}
