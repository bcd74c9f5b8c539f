// Package metrics exports the state of a clock to Prometheus.
//
// A core.Clock is single-threaded, so the exporter never reads it from
// the HTTP handler: Sample runs on the goroutine that owns the clock and
// only the resulting values are shared with scrapes.
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"bootclock/core"
)

const namespace = "bootclock"

// Exporter mirrors a clock into Prometheus collectors
type Exporter struct {
	clock *core.Clock

	timeSeconds prometheus.Gauge
	priority    prometheus.Gauge
	state       *prometheus.GaugeVec
	source      *prometheus.GaugeVec
	events      *prometheus.GaugeVec
	samples     prometheus.Counter
	readLatency prometheus.Histogram
}

// NewExporter creates an exporter for c and registers it with reg
func NewExporter(c *core.Clock, reg prometheus.Registerer) (*Exporter, error) {
	e := &Exporter{
		clock: c,
		timeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "time_seconds",
			Help:      "Monotonic clock time since the clock started.",
		}),
		priority: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_source_priority",
			Help:      "Priority of the active clocksource.",
		}),
		state: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "state",
			Help:      "Clock lifecycle state, 1 for the current one.",
		}, []string{"state"}),
		source: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_source_info",
			Help:      "Active clocksource and its scale factors.",
		}, []string{"source", "mult", "shift"}),
		events: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "recent_events",
			Help:      "Clock events held in the event ring, by type.",
		}, []string{"event"}),
		samples: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_total",
			Help:      "Number of times the clock was sampled.",
		}),
		readLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "read_duration_seconds",
			Help:      "Time spent in one clock read, measured by the clock itself.",
			Buckets:   prometheus.ExponentialBuckets(1e-8, 4, 10),
		}),
	}

	collectors := []prometheus.Collector{
		e.timeSeconds, e.priority, e.state, e.source, e.events, e.samples, e.readLatency,
	}
	for _, col := range collectors {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Sample reads the clock once and updates every collector. Call it only
// from the goroutine that owns the clock.
func (e *Exporter) Sample() {
	before := e.clock.GetTimeNs()
	after := e.clock.GetTimeNs()

	e.timeSeconds.Set(float64(after) / core.NSecPerSec)
	e.readLatency.Observe(float64(after-before) / core.NSecPerSec)
	e.samples.Inc()

	current := e.clock.State()
	for _, s := range []core.ClockState{core.StateUninitialized, core.StateDummyActive, core.StateSourceActive} {
		v := 0.0
		if s == current {
			v = 1
		}
		e.state.WithLabelValues(s.String()).Set(v)
	}

	if cs := e.clock.Active(); cs != nil {
		e.priority.Set(float64(cs.Priority))
		e.source.Reset()
		e.source.WithLabelValues(cs.Name, strconv.FormatUint(uint64(cs.Mult), 10), strconv.FormatUint(uint64(cs.Shift), 10)).Set(1)
	}

	e.events.Reset()
	for _, evt := range e.clock.Events() {
		e.events.WithLabelValues(core.EventName(evt.EventType)).Inc()
	}
}

// Run samples the clock every interval until ctx is done. The calling
// goroutine becomes the clock's owner for the duration.
func (e *Exporter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	e.Sample()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.Sample()
		}
	}
}
