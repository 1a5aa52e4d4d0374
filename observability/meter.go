package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/ashokvundavalli/AderantDevops-sub005/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns defaults for a local collector.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "dev",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter installs a global meter provider exporting over OTLP HTTP.
// The returned provider must be shut down on exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(newResource(config.ServiceName, config.ServiceVersion, config.Environment)),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns the planner's meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Metrics holds the planner's metric instruments.
type Metrics struct {
	planTotal       metric.Int64Counter
	planDuration    metric.Float64Histogram
	phaseDuration   metric.Float64Histogram
	graphVertices   metric.Int64Histogram
	dirtyProjects   metric.Int64Histogram
	diagnosticTotal metric.Int64Counter
	errorTotal      metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	planTotal, err := meter.Int64Counter("buildplan.plans",
		metric.WithDescription("Planning passes by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating buildplan.plans counter: %w", err)
	}

	planDuration, err := meter.Float64Histogram("buildplan.plan.duration",
		metric.WithDescription("Duration of a planning pass"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating buildplan.plan.duration histogram: %w", err)
	}

	phaseDuration, err := meter.Float64Histogram("buildplan.phase.duration",
		metric.WithDescription("Duration of a planning phase"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating buildplan.phase.duration histogram: %w", err)
	}

	graphVertices, err := meter.Int64Histogram("buildplan.graph.vertices",
		metric.WithDescription("Vertices in the resolved reference graph"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating buildplan.graph.vertices histogram: %w", err)
	}

	dirtyProjects, err := meter.Int64Histogram("buildplan.dirty",
		metric.WithDescription("Projects marked dirty in a planning pass"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating buildplan.dirty histogram: %w", err)
	}

	diagnosticTotal, err := meter.Int64Counter("buildplan.diagnostics",
		metric.WithDescription("Diagnostics by code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating buildplan.diagnostics counter: %w", err)
	}

	errorTotal, err := meter.Int64Counter("buildplan.errors",
		metric.WithDescription("Failed planning passes by error code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating buildplan.errors counter: %w", err)
	}

	return &Metrics{
		planTotal:       planTotal,
		planDuration:    planDuration,
		phaseDuration:   phaseDuration,
		graphVertices:   graphVertices,
		dirtyProjects:   dirtyProjects,
		diagnosticTotal: diagnosticTotal,
		errorTotal:      errorTotal,
	}, nil
}

// RecordPlan records a finished planning pass.
func (m *Metrics) RecordPlan(ctx context.Context, mode, status string, duration time.Duration) {
	m.planTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("mode", mode),
		attribute.String("status", status),
	))
	m.planDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("mode", mode),
	))
}

// RecordPhase records the duration of one planning phase.
func (m *Metrics) RecordPhase(ctx context.Context, phase string, duration time.Duration) {
	m.phaseDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("phase", phase),
	))
}

// RecordGraph records the size of a resolved graph.
func (m *Metrics) RecordGraph(ctx context.Context, vertices int) {
	m.graphVertices.Record(ctx, int64(vertices))
}

// RecordDirty records how many projects a pass marked dirty.
func (m *Metrics) RecordDirty(ctx context.Context, dirty int) {
	m.dirtyProjects.Record(ctx, int64(dirty))
}

// RecordDiagnostic counts a diagnostic by code.
func (m *Metrics) RecordDiagnostic(ctx context.Context, code string) {
	m.diagnosticTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("code", code)))
}

// RecordError counts a failed pass by error code.
func (m *Metrics) RecordError(ctx context.Context, code string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("code", code)))
}
