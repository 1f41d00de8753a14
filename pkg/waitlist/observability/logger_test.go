package observability

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newCaptureLogger returns a debug-level JSON logger writing to the buffer.
func newCaptureLogger() (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}

func records(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range bytes.Split(buf.Bytes(), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal(line, &m))
		out = append(out, m)
	}
	return out
}

func lastRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	all := records(t, buf)
	require.NotEmpty(t, all)
	return all[len(all)-1]
}

func TestEnrichLogger(t *testing.T) {
	t.Run("adds run_id and client_id", func(t *testing.T) {
		logger, buf := newCaptureLogger()

		EnrichLogger(logger, "run-123", 4).Info("test message")

		record := lastRecord(t, buf)
		assert.Equal(t, "run-123", record["run_id"])
		assert.Equal(t, float64(4), record["client_id"]) // JSON decodes ints as float64
		assert.Equal(t, "test message", record["msg"])
	})

	t.Run("nil logger returns nil", func(t *testing.T) {
		assert.Nil(t, EnrichLogger(nil, "run-123", 1))
	})
}

func TestRegistryLogHelpers(t *testing.T) {
	logger, buf := newCaptureLogger()

	LogPatientAdded(logger, "A", 3)
	LogPatientTreated(logger, "A", "2025-01-15")
	LogTreatUnmatched(logger, "B")
	LogRecordsPurged(logger, "2021-01-01", 2, 5)
	LogStatusMiss(logger, "C")
	LogPublishError(logger, "patient.added", errors.New("closed"))

	all := records(t, buf)
	require.Len(t, all, 6)

	tests := []struct {
		level string
		msg   string
		key   string
		value any
	}{
		{"DEBUG", "patient added", "waiting", float64(3)},
		{"INFO", "patient treated", "treatment_date", "2025-01-15"},
		{"DEBUG", "treat ignored, no waiting record", "name", "B"},
		{"INFO", "treated records purged", "removed", float64(2)},
		{"DEBUG", "status lookup missed", "name", "C"},
		{"WARN", "change event not published", "error", "closed"},
	}
	for i, tt := range tests {
		assert.Equal(t, tt.level, all[i]["level"], tt.msg)
		assert.Equal(t, tt.msg, all[i]["msg"])
		assert.Equal(t, tt.value, all[i][tt.key], tt.msg)
	}
}

func TestSimulationLogHelpers(t *testing.T) {
	logger, buf := newCaptureLogger()

	LogSimulationStart(logger, "run-1", 8)
	LogSimulationComplete(logger, "run-1", 1500*time.Microsecond, 10, 20)
	LogSimulationError(logger, "run-1", errors.New("boom"), time.Second)

	all := records(t, buf)
	require.Len(t, all, 3)

	assert.Equal(t, "simulation starting", all[0]["msg"])
	assert.Equal(t, float64(8), all[0]["clients"])

	assert.Equal(t, "simulation completed", all[1]["msg"])
	assert.InDelta(t, 1.5, all[1]["duration_ms"], 0.001)
	assert.Equal(t, float64(10), all[1]["waiting"])
	assert.Equal(t, float64(20), all[1]["treated"])

	assert.Equal(t, "ERROR", all[2]["level"])
	assert.Equal(t, "boom", all[2]["error"])
	assert.InDelta(t, 1000.0, all[2]["duration_ms"], 0.001)
}

func TestLogHelpers_NilLoggerIsSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		LogPatientAdded(nil, "A", 1)
		LogPatientTreated(nil, "A", "2025-01-01")
		LogTreatUnmatched(nil, "A")
		LogRecordsPurged(nil, "2025-01-01", 1, 0)
		LogStatusMiss(nil, "A")
		LogPublishError(nil, "patient.added", errors.New("x"))
		LogSimulationStart(nil, "r", 1)
		LogSimulationComplete(nil, "r", time.Second, 0, 0)
		LogSimulationError(nil, "r", errors.New("x"), time.Second)
	})
}

func TestTimedOperation(t *testing.T) {
	done := TimedOperation()
	time.Sleep(5 * time.Millisecond)
	assert.GreaterOrEqual(t, done(), 5*time.Millisecond)
}

func TestClientName(t *testing.T) {
	assert.Equal(t, "client-0", ClientName(0))
	assert.Equal(t, "client-12", ClientName(12))
}
