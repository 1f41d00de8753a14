// Package observability provides logging, metrics, and tracing for the
// waiting registry and the simulation driver.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"strconv"
	"time"
)

// EnrichLogger adds simulation context to a logger.
// Returns a new logger with run_id and client_id fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, "run-123", 4)
//	enriched.Info("adding patients") // includes run_id, client_id
func EnrichLogger(logger *slog.Logger, runID string, clientID int) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("run_id", runID),
		slog.Int("client_id", clientID),
	)
}

// LogPatientAdded logs a new waiting record.
func LogPatientAdded(logger *slog.Logger, name string, waiting int) {
	if logger == nil {
		return
	}
	logger.Debug("patient added",
		slog.String("name", name),
		slog.Int("waiting", waiting),
	)
}

// LogPatientTreated logs a waiting record moving to the treated list.
func LogPatientTreated(logger *slog.Logger, name, date string) {
	if logger == nil {
		return
	}
	logger.Info("patient treated",
		slog.String("name", name),
		slog.String("treatment_date", date),
	)
}

// LogTreatUnmatched logs a treat call that found no waiting record.
func LogTreatUnmatched(logger *slog.Logger, name string) {
	if logger == nil {
		return
	}
	logger.Debug("treat ignored, no waiting record",
		slog.String("name", name),
	)
}

// LogRecordsPurged logs removal of old treated records.
func LogRecordsPurged(logger *slog.Logger, before string, removed, remaining int) {
	if logger == nil {
		return
	}
	logger.Info("treated records purged",
		slog.String("before", before),
		slog.Int("removed", removed),
		slog.Int("remaining", remaining),
	)
}

// LogStatusMiss logs a status lookup for an unknown name.
func LogStatusMiss(logger *slog.Logger, name string) {
	if logger == nil {
		return
	}
	logger.Debug("status lookup missed",
		slog.String("name", name),
	)
}

// LogPublishError logs a change event that could not be delivered (non-fatal).
func LogPublishError(logger *slog.Logger, eventType string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("change event not published",
		slog.String("event_type", eventType),
		slog.String("error", err.Error()),
	)
}

// LogSimulationStart logs the start of a simulation run.
func LogSimulationStart(logger *slog.Logger, runID string, clients int) {
	if logger == nil {
		return
	}
	logger.Info("simulation starting",
		slog.String("run_id", runID),
		slog.Int("clients", clients),
	)
}

// LogSimulationComplete logs successful simulation completion.
func LogSimulationComplete(logger *slog.Logger, runID string, duration time.Duration, waiting, treated int) {
	if logger == nil {
		return
	}
	logger.Info("simulation completed",
		slog.String("run_id", runID),
		slog.Float64("duration_ms", Milliseconds(duration)),
		slog.Int("waiting", waiting),
		slog.Int("treated", treated),
	)
}

// LogSimulationError logs simulation failure.
func LogSimulationError(logger *slog.Logger, runID string, err error, duration time.Duration) {
	if logger == nil {
		return
	}
	logger.Error("simulation failed",
		slog.String("run_id", runID),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", Milliseconds(duration)),
	)
}

// ClientName is the span and log label for a simulated client.
func ClientName(clientID int) string {
	return "client-" + strconv.Itoa(clientID)
}

// Milliseconds converts a duration to fractional milliseconds.
func Milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	elapsed := done()
func TimedOperation() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}
