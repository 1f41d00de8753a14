package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer uses the global OTel tracer provider.
var tracer = otel.Tracer("waitlist")

// SpanManager handles trace span lifecycle for simulation runs.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartSimulationSpan starts a span for an entire simulation run.
	StartSimulationSpan(ctx context.Context, runID string, clients int) (context.Context, trace.Span)

	// StartClientSpan starts a span for one simulated client.
	// The client span should be a child of the simulation span.
	StartClientSpan(ctx context.Context, clientID int) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

func (m *otelSpanManager) StartSimulationSpan(ctx context.Context, runID string, clients int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "waitlist.simulation",
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.Int("simulation.clients", clients),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (m *otelSpanManager) StartClientSpan(ctx context.Context, clientID int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "waitlist."+ClientName(clientID),
		trace.WithAttributes(
			attribute.Int("client.id", clientID),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
