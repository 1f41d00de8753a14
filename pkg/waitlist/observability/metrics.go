package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Operation names recorded on the waitlist.operations counter.
const (
	OpAdd    = "add"
	OpTreat  = "treat"
	OpPurge  = "purge"
	OpList   = "list"
	OpStatus = "status"
)

// MetricsRecorder records registry metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordOperation records one registry operation. matched is false when
	// the operation found nothing to act on (unmatched treat, empty purge,
	// status miss).
	RecordOperation(ctx context.Context, op string, duration time.Duration, matched bool)

	// RecordQueueSizes records the current lengths of both record lists.
	RecordQueueSizes(ctx context.Context, waiting, treated int)

	// RecordSimulation records a simulation run completion.
	RecordSimulation(ctx context.Context, success bool, duration time.Duration)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	operations        metric.Int64Counter
	operationLatency  metric.Float64Histogram
	misses            metric.Int64Counter
	waitingSize       metric.Int64Gauge
	treatedSize       metric.Int64Gauge
	simulations       metric.Int64Counter
	simulationLatency metric.Float64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics lazily initializes the OTel instruments on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("waitlist")

	operations, err := meter.Int64Counter("waitlist.operations",
		metric.WithDescription("Number of registry operations"),
	)
	if err != nil {
		return nil, err
	}

	operationLatency, err := meter.Float64Histogram("waitlist.operation.latency_ms",
		metric.WithDescription("Registry operation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	misses, err := meter.Int64Counter("waitlist.operation.misses",
		metric.WithDescription("Operations that matched no record"),
	)
	if err != nil {
		return nil, err
	}

	waitingSize, err := meter.Int64Gauge("waitlist.waiting.size",
		metric.WithDescription("Number of waiting records"),
	)
	if err != nil {
		return nil, err
	}

	treatedSize, err := meter.Int64Gauge("waitlist.treated.size",
		metric.WithDescription("Number of treated records"),
	)
	if err != nil {
		return nil, err
	}

	simulations, err := meter.Int64Counter("waitlist.simulation.runs",
		metric.WithDescription("Number of simulation runs"),
	)
	if err != nil {
		return nil, err
	}

	simulationLatency, err := meter.Float64Histogram("waitlist.simulation.latency_ms",
		metric.WithDescription("Simulation run latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		operations:        operations,
		operationLatency:  operationLatency,
		misses:            misses,
		waitingSize:       waitingSize,
		treatedSize:       treatedSize,
		simulations:       simulations,
		simulationLatency: simulationLatency,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordOperation records a registry operation.
func (m *otelMetrics) RecordOperation(ctx context.Context, op string, duration time.Duration, matched bool) {
	attrs := metric.WithAttributes(attribute.String("op", op))

	m.operations.Add(ctx, 1, attrs)
	m.operationLatency.Record(ctx, Milliseconds(duration), attrs)

	if !matched {
		m.misses.Add(ctx, 1, attrs)
	}
}

// RecordQueueSizes records list lengths.
func (m *otelMetrics) RecordQueueSizes(ctx context.Context, waiting, treated int) {
	m.waitingSize.Record(ctx, int64(waiting))
	m.treatedSize.Record(ctx, int64(treated))
}

// RecordSimulation records a simulation run.
func (m *otelMetrics) RecordSimulation(ctx context.Context, success bool, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.Bool("success", success))
	m.simulations.Add(ctx, 1, attrs)
	m.simulationLatency.Record(ctx, Milliseconds(duration), attrs)
}
