package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Phase tracks one planning phase as a span and a duration measurement.
type Phase struct {
	Name    string
	start   time.Time
	span    trace.Span
	metrics *Metrics
}

// StartPhase opens a span named after the phase. Metrics may be nil.
func StartPhase(ctx context.Context, name string, metrics *Metrics) (context.Context, *Phase) {
	ctx, span := StartSpan(ctx, "buildplan."+name, trace.WithAttributes(
		attribute.String(AttrPhase, name),
	))
	return ctx, &Phase{
		Name:    name,
		start:   time.Now(),
		span:    span,
		metrics: metrics,
	}
}

// End closes the phase span, recording err if set, and returns the elapsed
// time.
func (p *Phase) End(ctx context.Context, err error) time.Duration {
	d := time.Since(p.start)
	if err != nil {
		p.span.RecordError(err)
		p.span.SetStatus(codes.Error, err.Error())
	}
	p.span.End()
	if p.metrics != nil {
		p.metrics.RecordPhase(ctx, p.Name, d)
	}
	return d
}

// Span returns the phase span.
func (p *Phase) Span() trace.Span {
	return p.span
}
