// Package telemetry provides hooks.Observer implementations that export
// render pass activity.
//
// # Prometheus Metrics
//
// Prometheus collects counters and histograms about render passes and
// memoizing hooks:
//   - memokit_renders_total: Render passes by result (ok, aborted)
//   - memokit_render_duration_seconds: Render pass duration histogram
//   - memokit_render_hooks: Hooks called per render pass
//   - memokit_hooks_evaluated_total: Memoizing hook evaluations by kind and result (hit, miss)
//
// Create one observer per registry and share it:
//
//	reg := prometheus.NewRegistry()
//	inst := hooks.NewInstance(nil, hooks.WithObserver(
//	    telemetry.Prometheus(telemetry.WithRegistry(reg)),
//	))
//
// # OpenTelemetry
//
// Tracing starts one span per render pass, parented on the instance
// context, and adds an event for every memoizing hook evaluated during it.
//
//	hooks.NewInstance(nil, hooks.WithObserver(
//	    telemetry.Tracing(telemetry.WithTracerName("my-app")),
//	))
//
// Both observers can be combined with hooks.Observers.
package telemetry
