// Package sim drives a waitlist.Registry from many goroutines at once,
// the way independent clients would, and checks the registry stays
// consistent while they interleave.
//
// Each client owns a disjoint set of names, so it can verify that every
// name it added is still visible as waiting or treated, unless it treated
// the name with a date the purge cutoff removes.
package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/randalmurphal/waitlist/pkg/waitlist"
	"github.com/randalmurphal/waitlist/pkg/waitlist/config"
	"github.com/randalmurphal/waitlist/pkg/waitlist/observability"
)

// ErrInconsistent indicates a client observed a state the registry should
// never expose.
var ErrInconsistent = errors.New("registry inconsistent")

// ClientError wraps a failure with the client that hit it.
type ClientError struct {
	ClientID int
	Name     string
	Err      error
}

// Error implements the error interface.
func (e *ClientError) Error() string {
	return fmt.Sprintf("client %d: %s: %v", e.ClientID, e.Name, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *ClientError) Unwrap() error {
	return e.Err
}

// Report summarizes a completed run.
type Report struct {
	RunID    string
	Added    int
	Treated  int
	Reads    int
	Purged   int
	Waiting  int
	Remain   int // treated records left after the final purge
	Duration time.Duration
}

type runConfig struct {
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
	runID   string
}

// Option configures a run.
type Option func(*runConfig)

// WithLogger sets the run logger. Default: no logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *runConfig) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics recorder. Default: observability.NoopMetrics.
func WithMetrics(recorder observability.MetricsRecorder) Option {
	return func(c *runConfig) {
		if recorder != nil {
			c.metrics = recorder
		}
	}
}

// WithSpanManager sets the span manager. Default: observability.NoopSpanManager.
func WithSpanManager(spans observability.SpanManager) Option {
	return func(c *runConfig) {
		if spans != nil {
			c.spans = spans
		}
	}
}

// WithRunID sets the run identifier. Default: a random UUID.
func WithRunID(id string) Option {
	return func(c *runConfig) {
		if id != "" {
			c.runID = id
		}
	}
}

// PatientName is the name client clientID uses for its n-th patient.
func PatientName(clientID, n int) string {
	return fmt.Sprintf("client%d-patient%d", clientID, n)
}

type counters struct {
	added   atomic.Int64
	treated atomic.Int64
	reads   atomic.Int64
	purged  atomic.Int64
}

// Run starts s.Clients goroutines against reg and waits for all of them.
// The first client error cancels the others. After the clients finish, a
// final purge at s.PurgeBefore runs.
func Run(ctx context.Context, reg *waitlist.Registry, s config.Settings, opts ...Option) (Report, error) {
	if err := s.Validate(); err != nil {
		return Report{}, err
	}
	cutoff, err := s.PurgeDate()
	if err != nil {
		return Report{}, fmt.Errorf("purge cutoff: %w", err)
	}

	cfg := runConfig{
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
		runID:   uuid.New().String(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	done := observability.TimedOperation()
	ctx, span := cfg.spans.StartSimulationSpan(ctx, cfg.runID, s.Clients)
	observability.LogSimulationStart(cfg.logger, cfg.runID, s.Clients)

	var c counters
	g, gctx := errgroup.WithContext(ctx)
	for id := range s.Clients {
		cl := &client{
			id:     id,
			reg:    reg,
			s:      s,
			cutoff: cutoff,
			rng:    rand.New(rand.NewPCG(s.Seed, uint64(id))),
			logger: observability.EnrichLogger(cfg.logger, cfg.runID, id),
			spans:  cfg.spans,
			c:      &c,
		}
		g.Go(func() error {
			return cl.run(gctx)
		})
	}

	err = g.Wait()
	if err == nil {
		c.purged.Add(int64(reg.Purge(cutoff)))
	}

	elapsed := done()
	cfg.metrics.RecordSimulation(ctx, err == nil, elapsed)
	cfg.spans.EndSpanWithError(span, err)

	waiting, treated := reg.Len()
	report := Report{
		RunID:    cfg.runID,
		Added:    int(c.added.Load()),
		Treated:  int(c.treated.Load()),
		Reads:    int(c.reads.Load()),
		Purged:   int(c.purged.Load()),
		Waiting:  waiting,
		Remain:   treated,
		Duration: elapsed,
	}
	if err != nil {
		observability.LogSimulationError(cfg.logger, cfg.runID, err, elapsed)
		return report, err
	}
	observability.LogSimulationComplete(cfg.logger, cfg.runID, elapsed, waiting, treated)
	return report, nil
}

type client struct {
	id     int
	reg    *waitlist.Registry
	s      config.Settings
	cutoff waitlist.Date
	rng    *rand.Rand
	logger *slog.Logger
	spans  observability.SpanManager
	c      *counters

	// treatedOn records the date each treated name was given.
	treatedOn map[string]waitlist.Date
}

func (cl *client) run(ctx context.Context) (err error) {
	ctx, span := cl.spans.StartClientSpan(ctx, cl.id)
	defer func() { cl.spans.EndSpanWithError(span, err) }()

	cl.treatedOn = make(map[string]waitlist.Date)
	names := make([]string, cl.s.NamesPerClient)
	for n := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		names[n] = PatientName(cl.id, n)
		cl.reg.Add(names[n])
		cl.c.added.Add(1)
	}
	cl.spans.AddSpanEvent(ctx, "patients.added", attribute.Int("count", len(names)))

	toTreat := int(float64(len(names)) * cl.s.TreatRatio)
	for n, name := range names[:toTreat] {
		if err := ctx.Err(); err != nil {
			return err
		}
		date := cl.randomDate()
		cl.reg.Treat(name, date)
		cl.treatedOn[name] = date
		cl.c.treated.Add(1)

		if cl.s.PurgeEvery > 0 && (n+1)%cl.s.PurgeEvery == 0 {
			cl.c.purged.Add(int64(cl.reg.Purge(cl.cutoff)))
		}
	}
	cl.spans.AddSpanEvent(ctx, "patients.treated", attribute.Int("count", toTreat))

	for range cl.s.ReadsPerClient {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := cl.read(names); err != nil {
			return err
		}
		cl.c.reads.Add(1)
	}

	if cl.logger != nil {
		cl.logger.Debug("client finished",
			slog.Int("added", len(names)),
			slog.Int("treated", toTreat),
		)
	}
	return nil
}

// read alternates status lookups of the client's own names with full
// waiting-list snapshots.
func (cl *client) read(names []string) error {
	if len(names) == 0 {
		_ = cl.reg.Waiting()
		return nil
	}

	name := names[cl.rng.IntN(len(names))]
	status, err := cl.reg.Status(name)

	date, treated := cl.treatedOn[name]
	switch {
	case errors.Is(err, waitlist.ErrNotFound):
		if treated && date.Before(cl.cutoff) {
			return nil
		}
		return &ClientError{ClientID: cl.id, Name: name, Err: fmt.Errorf("%w: added name is missing", ErrInconsistent)}
	case err != nil:
		return &ClientError{ClientID: cl.id, Name: name, Err: err}
	case treated && status != waitlist.StatusTreated:
		return &ClientError{ClientID: cl.id, Name: name, Err: fmt.Errorf("%w: treated name reported %s", ErrInconsistent, status)}
	case !treated && status != waitlist.StatusWaiting:
		return &ClientError{ClientID: cl.id, Name: name, Err: fmt.Errorf("%w: untreated name reported %s", ErrInconsistent, status)}
	}

	if cl.rng.IntN(2) == 0 {
		_ = cl.reg.Waiting()
	}
	return nil
}

// randomDate picks a date between 2018 and 2026. Days stop at 28 so every
// generated date is a real one.
func (cl *client) randomDate() waitlist.Date {
	return waitlist.NewDate(2018+cl.rng.IntN(9), 1+cl.rng.IntN(12), 1+cl.rng.IntN(28))
}
