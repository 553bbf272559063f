// Package telemetry provides Prometheus and OpenTelemetry implementations of
// the reactive core's instrumentation hook.
//
// Install at startup:
//
//	metrics := telemetry.NewMetrics(telemetry.WithNamespace("myapp"))
//	reactive.SetInstrumentation(metrics)
//
//	// Expose the default registry:
//	http.Handle("/metrics", promhttp.Handler())
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bindery-dev/bindery/pkg/reactive"
)

// MetricsConfig configures the Prometheus instrumentation.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "bindery").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for notification fan-out duration.
	// Default: prometheus.DefBuckets.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus instrumentation.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the notification duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "bindery",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics records reactive-core activity as Prometheus metrics.
// It implements reactive.Instrumentation.
//
// Metrics collected (all labelled by primitive kind):
//   - bindery_primitives_created_total
//   - bindery_subscriptions_total
//   - bindery_unsubscriptions_total
//   - bindery_live_subscribers
//   - bindery_notifications_total
//   - bindery_notification_fanout
//   - bindery_notification_duration_seconds
type Metrics struct {
	primitivesCreated *prometheus.CounterVec
	subscriptions     *prometheus.CounterVec
	unsubscriptions   *prometheus.CounterVec
	liveSubscribers   *prometheus.GaugeVec
	notifications     *prometheus.CounterVec
	notifyFanout      *prometheus.HistogramVec
	notifyDuration    *prometheus.HistogramVec
}

// NewMetrics creates and registers the Prometheus instrumentation.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		primitivesCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "primitives_created_total",
			Help:        "Total number of reactive primitives created",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		subscriptions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "subscriptions_total",
			Help:        "Total number of callback registrations",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		unsubscriptions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "unsubscriptions_total",
			Help:        "Total number of callback removals",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		liveSubscribers: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "live_subscribers",
			Help:        "Number of currently registered callbacks",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "notifications_total",
			Help:        "Total number of mutation fan-outs delivered",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		notifyFanout: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "notification_fanout",
			Help:        "Number of callbacks invoked per mutation",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{1, 2, 5, 10, 25, 50, 100},
		}, []string{"kind"}),

		notifyDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "notification_duration_seconds",
			Help:        "Wall time spent invoking callbacks per mutation",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"kind"}),
	}
}

// Created implements reactive.Instrumentation.
func (m *Metrics) Created(kind reactive.Kind) {
	m.primitivesCreated.WithLabelValues(string(kind)).Inc()
}

// Subscribed implements reactive.Instrumentation.
func (m *Metrics) Subscribed(kind reactive.Kind) {
	m.subscriptions.WithLabelValues(string(kind)).Inc()
	m.liveSubscribers.WithLabelValues(string(kind)).Inc()
}

// Unsubscribed implements reactive.Instrumentation.
func (m *Metrics) Unsubscribed(kind reactive.Kind) {
	m.unsubscriptions.WithLabelValues(string(kind)).Inc()
	m.liveSubscribers.WithLabelValues(string(kind)).Dec()
}

// Notified implements reactive.Instrumentation.
func (m *Metrics) Notified(kind reactive.Kind, fanout int, seconds float64) {
	label := string(kind)
	m.notifications.WithLabelValues(label).Inc()
	m.notifyFanout.WithLabelValues(label).Observe(float64(fanout))
	m.notifyDuration.WithLabelValues(label).Observe(seconds)
}

var _ reactive.Instrumentation = (*Metrics)(nil)
