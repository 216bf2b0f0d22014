package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vango-dev/memokit/pkg/hooks"
)

// MetricsConfig configures the Prometheus observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "memokit").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for render duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus observer.
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

// WithBuckets sets the render duration histogram buckets.
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
		Namespace: "memokit",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// PrometheusObserver records render activity as Prometheus metrics.
type PrometheusObserver struct {
	rendersTotal   *prometheus.CounterVec
	renderDuration prometheus.Histogram
	renderHooks    prometheus.Histogram
	hooksEvaluated *prometheus.CounterVec
}

// Prometheus creates an observer and registers its metrics.
// It panics if the metrics are already registered with the same registry,
// so create one observer per registry and share it between instances.
func Prometheus(opts ...MetricsOption) *PrometheusObserver {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &PrometheusObserver{
		rendersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Total number of render passes",
			ConstLabels: config.ConstLabels,
		}, []string{"result"}),

		renderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "Render pass duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		renderHooks: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_hooks",
			Help:        "Number of hooks called per render pass",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{1, 2, 4, 8, 16, 32, 64, 128},
		}),

		hooksEvaluated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "hooks_evaluated_total",
			Help:        "Memoizing hook evaluations by kind and cache result",
			ConstLabels: config.ConstLabels,
		}, []string{"kind", "result"}),
	}
}

// BeginRender implements hooks.Observer.
func (p *PrometheusObserver) BeginRender(*hooks.Instance) func(hooks.RenderStats) {
	return func(stats hooks.RenderStats) {
		result := "ok"
		if stats.Aborted {
			result = "aborted"
		}
		p.rendersTotal.WithLabelValues(result).Inc()
		p.renderDuration.Observe(stats.Duration.Seconds())
		p.renderHooks.Observe(float64(stats.Hooks))
	}
}

// HookEvaluated implements hooks.Observer.
func (p *PrometheusObserver) HookEvaluated(_ *hooks.Instance, kind hooks.HookType, reused bool) {
	result := "miss"
	if reused {
		result = "hit"
	}
	p.hooksEvaluated.WithLabelValues(kind.String(), result).Inc()
}
