package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/randalmurphal/enc/cost"
	"github.com/randalmurphal/enc/provider"
)

// Namespace prefixes every metric name.
const Namespace = "enc"

// Run statuses used as the status label.
const (
	StatusSuccess = "success"
	StatusBlocked = "blocked"
	StatusError   = "error"
)

// Recorder collects transpilation metrics. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	registry *prometheus.Registry

	runsTotal   *prometheus.CounterVec
	unitsTotal  *prometheus.CounterVec
	costTotal   *prometheus.CounterVec
	unpriced    *prometheus.CounterVec
	runDuration *prometheus.HistogramVec
	lastRun     prometheus.Gauge
}

// New creates a Recorder with its own registry.
func New() *Recorder {
	return NewWithRegistry(prometheus.NewRegistry())
}

// NewWithRegistry creates a Recorder registered with registry.
func NewWithRegistry(registry *prometheus.Registry) *Recorder {
	r := &Recorder{
		registry: registry,
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "runs_total",
				Help:      "Transpilation runs by provider, model and status",
			},
			[]string{"provider", "model", "status"},
		),
		unitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "usage_units_total",
				Help:      "Metered usage by provider, model, unit kind and direction",
			},
			[]string{"provider", "model", "unit", "direction"},
		),
		costTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "cost_usd_total",
				Help:      "Estimated cost in USD by provider, model and component",
			},
			[]string{"provider", "model", "component"},
		),
		unpriced: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "unpriced_runs_total",
				Help:      "Runs whose cost calculation was skipped",
			},
			[]string{"provider", "model"},
		),
		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "generation_duration_seconds",
				Help:      "Backend generation latency",
				// LLM code generation runs from seconds to minutes.
				Buckets: []float64{1, 2.5, 5, 10, 30, 60, 120, 300},
			},
			[]string{"provider", "model"},
		),
		lastRun: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "last_run_timestamp_seconds",
				Help:      "Unix time of the last completed run",
			},
		),
	}

	registry.MustRegister(
		r.runsTotal,
		r.unitsTotal,
		r.costTotal,
		r.unpriced,
		r.runDuration,
		r.lastRun,
	)
	return r
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveRun records a completed generation.
func (r *Recorder) ObserveRun(providerName, model string, u provider.Usage, b cost.Breakdown, blocked bool, elapsed time.Duration) {
	if r == nil {
		return
	}

	status := StatusSuccess
	if blocked {
		status = StatusBlocked
	}
	r.runsTotal.WithLabelValues(providerName, model, status).Inc()

	unit := string(u.Kind)
	r.unitsTotal.WithLabelValues(providerName, model, unit, "input").Add(float64(u.Input))
	r.unitsTotal.WithLabelValues(providerName, model, unit, "output").Add(float64(u.Output))
	if u.IsTokens() {
		r.unitsTotal.WithLabelValues(providerName, model, unit, "thinking").Add(float64(u.Thinking))
	}

	if b.Skipped {
		r.unpriced.WithLabelValues(providerName, model).Inc()
	} else {
		r.costTotal.WithLabelValues(providerName, model, "input").Add(b.Input.InexactFloat64())
		r.costTotal.WithLabelValues(providerName, model, "output").Add(b.Output.InexactFloat64())
		r.costTotal.WithLabelValues(providerName, model, "thinking").Add(b.Thinking.InexactFloat64())
	}

	r.runDuration.WithLabelValues(providerName, model).Observe(elapsed.Seconds())
	r.lastRun.SetToCurrentTime()
}

// ObserveFailure records a run that ended in an error.
func (r *Recorder) ObserveFailure(providerName, model string) {
	if r == nil {
		return
	}
	r.runsTotal.WithLabelValues(providerName, model, StatusError).Inc()
	r.lastRun.SetToCurrentTime()
}

// WriteTextfile writes all metrics to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}
