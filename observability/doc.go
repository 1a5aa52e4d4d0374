// Package observability provides OpenTelemetry tracing and metrics for
// planning passes.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("buildplan"))
//	defer tp.Shutdown(ctx)
//
// Phases:
//
//	ctx, phase := observability.StartPhase(ctx, "sort", metrics)
//	order, err := dag.Sort(g)
//	phase.End(ctx, err)
//
// Without InitTracer or InitMeter the global no-op providers are used.
package observability
