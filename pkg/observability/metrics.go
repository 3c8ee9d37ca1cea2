package observability

import (
	"context"

	"github.com/aretw0/onclick/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors fed by the dispatch engine.
type Metrics struct {
	passes      prometheus.Counter
	failures    prometheus.Counter
	collected   prometheus.Counter
	slots       *prometheus.CounterVec
	slotErrors  *prometheus.CounterVec
	slotSeconds *prometheus.HistogramVec
	skipped     *prometheus.CounterVec
}

// MetricsOption configures Metrics.
type MetricsOption func(*metricsConfig)

type metricsConfig struct {
	namespace  string
	registerer prometheus.Registerer
}

// WithNamespace prefixes every metric name. Defaults to "onclick".
func WithNamespace(ns string) MetricsOption {
	return func(c *metricsConfig) {
		c.namespace = ns
	}
}

// WithRegisterer registers the collectors somewhere other than the default registry.
func WithRegisterer(r prometheus.Registerer) MetricsOption {
	return func(c *metricsConfig) {
		c.registerer = r
	}
}

// NewMetrics creates and registers the collectors.
// It panics if they are already registered, like prometheus.MustRegister.
func NewMetrics(opts ...MetricsOption) *Metrics {
	cfg := metricsConfig{
		namespace:  "onclick",
		registerer: prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	m := &Metrics{
		passes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "dispatch_passes_total",
			Help:      "Dispatch passes that collected at least one queue.",
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "dispatch_failures_total",
			Help:      "Dispatch passes aborted by a slot error.",
		}),
		collected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "queues_collected_total",
			Help:      "Action queues taken for execution.",
		}),
		slots: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "slot_invocations_total",
			Help:      "Slot invocations by kind.",
		}, []string{"kind"}),
		slotErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "slot_errors_total",
			Help:      "Slot invocations that returned an error, by kind.",
		}, []string{"kind"}),
		slotSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.namespace,
			Name:      "slot_duration_seconds",
			Help:      "Duration of slot invocations.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"kind"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "writeback_skipped_total",
			Help:      "Queues dropped at writeback, by reason.",
		}, []string{"reason"}),
	}

	cfg.registerer.MustRegister(
		m.passes, m.failures, m.collected,
		m.slots, m.slotErrors, m.slotSeconds, m.skipped,
	)
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDispatchEnd: func(_ context.Context, e *domain.DispatchEvent) {
			m.passes.Inc()
			m.collected.Add(float64(len(e.Collected)))
			if e.Err != nil {
				m.failures.Inc()
			}
		},
		OnSlotReturn: func(_ context.Context, e *domain.SlotEvent) {
			kind := string(e.Kind)
			m.slots.WithLabelValues(kind).Inc()
			m.slotSeconds.WithLabelValues(kind).Observe(e.Duration.Seconds())
			if e.IsError {
				m.slotErrors.WithLabelValues(kind).Inc()
			}
		},
		OnWritebackSkipped: func(_ context.Context, e *domain.WritebackEvent) {
			m.skipped.WithLabelValues(e.Reason).Inc()
		},
	}
}
