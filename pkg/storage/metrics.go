package storage

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus instrumentation wrapper.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "statekit").
	Namespace string

	// Subsystem is the metrics subsystem (default: "storage").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for operation duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus instrumentation wrapper.
type MetricsOption func(*MetricsConfig)

// WithMetricsNamespace sets the metrics namespace.
func WithMetricsNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithMetricsSubsystem sets the metrics subsystem.
func WithMetricsSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithMetricsConstLabels sets constant labels for all metrics.
func WithMetricsConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithMetricsBuckets sets the histogram buckets.
func WithMetricsBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithMetricsRegistry sets the Prometheus registry.
func WithMetricsRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "statekit",
		Subsystem: "storage",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// instrumentedStore wraps a Store and records per-operation metrics.
type instrumentedStore struct {
	next Store

	opsTotal   *prometheus.CounterVec
	opDuration *prometheus.HistogramVec
}

// WithMetrics wraps a store so every operation is counted and timed:
//
//	statekit_storage_ops_total{op, status}
//	statekit_storage_op_duration_seconds{op}
//
// The status label is "ok", "miss" (Get with no entry) or "error".
func WithMetrics(store Store, opts ...MetricsOption) Store {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &instrumentedStore{
		next: store,
		opsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "ops_total",
			Help:        "Total number of storage operations",
			ConstLabels: config.ConstLabels,
		}, []string{"op", "status"}),
		opDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "op_duration_seconds",
			Help:        "Storage operation duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"op"}),
	}
}

// observe records one completed operation.
func (i *instrumentedStore) observe(op, status string, start time.Time) {
	i.opsTotal.WithLabelValues(op, status).Inc()
	i.opDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (i *instrumentedStore) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	value, err := i.next.Get(ctx, key)

	status := "ok"
	switch {
	case err != nil:
		status = "error"
	case value == nil:
		status = "miss"
	}
	i.observe("get", status, start)
	return value, err
}

func (i *instrumentedStore) Set(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := i.next.Set(ctx, key, value)
	i.observe("set", statusOf(err), start)
	return err
}

func (i *instrumentedStore) Remove(ctx context.Context, key string) error {
	start := time.Now()
	err := i.next.Remove(ctx, key)
	i.observe("remove", statusOf(err), start)
	return err
}

func (i *instrumentedStore) Close() error {
	return i.next.Close()
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
