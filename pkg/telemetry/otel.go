package telemetry

import (
	"context"
	"strconv"
	"sync"

	"github.com/vango-dev/memokit/pkg/hooks"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for memokit instrumentation.
const defaultTracerName = "memokit"

// OTelConfig configures the tracing observer.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "memokit").
	TracerName string

	// TracerProvider supplies the tracer.
	// Default: the global provider from otel.GetTracerProvider.
	TracerProvider trace.TracerProvider

	// Filter determines which instances are traced.
	// If nil, all instances are traced.
	Filter func(inst *hooks.Instance) bool

	// IncludeHookEvents adds a span event for every memoizing hook.
	// Enabled by default.
	IncludeHookEvents bool
}

// OTelOption configures the tracing observer.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithInstanceFilter sets a filter function for instances.
func WithInstanceFilter(filter func(inst *hooks.Instance) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithHookEvents enables or disables per-hook span events.
func WithHookEvents(include bool) OTelOption {
	return func(c *OTelConfig) {
		c.IncludeHookEvents = include
	}
}

func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName:        defaultTracerName,
		IncludeHookEvents: true,
	}
}

// TracingObserver starts a span for every render pass.
type TracingObserver struct {
	config OTelConfig
	tracer trace.Tracer

	// active maps instance IDs to the span of their running pass.
	active sync.Map
}

// Tracing creates a tracing observer.
//
// Each pass becomes a "memokit.render" span, a child of the span found in
// the instance's context (see hooks.WithContext). The span carries the
// instance ID, pass number, hook count, reuse count and fingerprint, and has
// an error status when the pass panicked.
func Tracing(opts ...OTelOption) *TracingObserver {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.TracerProvider == nil {
		config.TracerProvider = otel.GetTracerProvider()
	}

	return &TracingObserver{
		config: config,
		tracer: config.TracerProvider.Tracer(config.TracerName),
	}
}

// BeginRender implements hooks.Observer.
func (o *TracingObserver) BeginRender(inst *hooks.Instance) func(hooks.RenderStats) {
	if o.config.Filter != nil && !o.config.Filter(inst) {
		return nil
	}

	attrs := []attribute.KeyValue{
		attribute.Int64("memokit.instance_id", int64(inst.ID())),
	}
	if parent := inst.Parent(); parent != nil {
		attrs = append(attrs, attribute.Int64("memokit.parent_id", int64(parent.ID())))
	}

	_, span := o.tracer.Start(
		inst.Context(),
		"memokit.render",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	o.active.Store(inst.ID(), span)

	return func(stats hooks.RenderStats) {
		o.active.Delete(inst.ID())

		span.SetAttributes(
			attribute.Int("memokit.pass", stats.Pass),
			attribute.Int("memokit.hooks", stats.Hooks),
			attribute.Int("memokit.reused", stats.Reused),
			attribute.String("memokit.fingerprint", strconv.FormatUint(stats.Fingerprint, 16)),
		)
		if stats.Aborted {
			span.SetStatus(codes.Error, "render pass aborted")
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}
}

// HookEvaluated implements hooks.Observer.
func (o *TracingObserver) HookEvaluated(inst *hooks.Instance, kind hooks.HookType, reused bool) {
	if !o.config.IncludeHookEvents {
		return
	}
	v, ok := o.active.Load(inst.ID())
	if !ok {
		return
	}
	v.(trace.Span).AddEvent("hook", trace.WithAttributes(
		attribute.String("memokit.hook_kind", kind.String()),
		attribute.Bool("memokit.reused", reused),
	))
}

// SpanContext returns a context carrying the span of the pass inst is
// currently rendering, for propagation to calls made from a render.
// Outside a traced pass it returns the instance context unchanged.
func (o *TracingObserver) SpanContext(inst *hooks.Instance) context.Context {
	if v, ok := o.active.Load(inst.ID()); ok {
		return trace.ContextWithSpan(inst.Context(), v.(trace.Span))
	}
	return inst.Context()
}
