package waitlist

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/randalmurphal/waitlist/pkg/waitlist/event"
	"github.com/randalmurphal/waitlist/pkg/waitlist/observability"
)

// Registry tracks waiting and treated records under a single lock.
// The zero value is not usable; create registries with New.
type Registry struct {
	mu      sync.RWMutex
	waiting []WaitingRecord
	treated []TreatedRecord

	// Set once by New and read-only afterwards.
	logger    *slog.Logger
	metrics   observability.MetricsRecorder
	publisher event.Publisher
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		metrics: observability.NoopMetrics{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add appends a waiting record for name. Empty and duplicate names are
// accepted.
func (r *Registry) Add(name string) {
	done := observability.TimedOperation()
	waiting, treated := r.add(name)

	r.observe(observability.OpAdd, done(), true, waiting, treated)
	observability.LogPatientAdded(r.logger, name, waiting)
	r.publish(event.PatientAdded(name))
}

func (r *Registry) add(name string) (waiting, treated int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.waiting = append(r.waiting, WaitingRecord{Name: name})
	return len(r.waiting), len(r.treated)
}

// Treat moves the first waiting record named name to the end of the treated
// list with the given date. If several waiting records share the name, only
// the earliest is moved. Unknown names are ignored.
func (r *Registry) Treat(name string, date Date) {
	done := observability.TimedOperation()
	matched, waiting, treated := r.treat(name, date)

	r.observe(observability.OpTreat, done(), matched, waiting, treated)
	if !matched {
		observability.LogTreatUnmatched(r.logger, name)
		return
	}
	observability.LogPatientTreated(r.logger, name, date.String())
	r.publish(event.PatientTreated(name, date.String()))
}

func (r *Registry) treat(name string, date Date) (matched bool, waiting, treated int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := slices.IndexFunc(r.waiting, func(w WaitingRecord) bool {
		return w.Name == name
	})
	if i >= 0 {
		r.waiting = slices.Delete(r.waiting, i, i+1)
		r.treated = append(r.treated, TreatedRecord{Name: name, TreatmentDate: date})
		matched = true
	}
	return matched, len(r.waiting), len(r.treated)
}

// Purge deletes every treated record dated strictly before the cutoff and
// returns how many were removed. Survivors keep their relative order.
func (r *Registry) Purge(before Date) int {
	done := observability.TimedOperation()
	removed, waiting, treated := r.purge(before)

	r.observe(observability.OpPurge, done(), removed > 0, waiting, treated)
	if removed == 0 {
		return 0
	}
	observability.LogRecordsPurged(r.logger, before.String(), removed, treated)
	r.publish(event.RecordsPurged(before.String(), removed))
	return removed
}

func (r *Registry) purge(before Date) (removed, waiting, treated int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.treated)
	r.treated = slices.DeleteFunc(r.treated, func(t TreatedRecord) bool {
		return t.TreatmentDate.Before(before)
	})
	return n - len(r.treated), len(r.waiting), len(r.treated)
}

// Waiting returns the names on the waiting list in insertion order.
// The returned slice is a copy owned by the caller.
func (r *Registry) Waiting() []string {
	done := observability.TimedOperation()
	names := r.waitingNames()
	r.metrics.RecordOperation(context.Background(), observability.OpList, done(), true)
	return names
}

func (r *Registry) waitingNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.waiting))
	for i, w := range r.waiting {
		names[i] = w.Name
	}
	return names
}

// Treated returns the names on the treated list in treatment order.
// The returned slice is a copy owned by the caller.
func (r *Registry) Treated() []string {
	done := observability.TimedOperation()
	names := r.treatedNames()
	r.metrics.RecordOperation(context.Background(), observability.OpList, done(), true)
	return names
}

func (r *Registry) treatedNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.treated))
	for i, t := range r.treated {
		names[i] = t.Name
	}
	return names
}

// TreatedRecords returns a copy of the treated list including dates.
func (r *Registry) TreatedRecords() []TreatedRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]TreatedRecord, len(r.treated))
	copy(out, r.treated)
	return out
}

// Len returns the current lengths of both lists, read under one lock.
func (r *Registry) Len() (waiting, treated int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.waiting), len(r.treated)
}

// Status reports whether name is waiting or treated. The waiting list is
// searched first. A name in neither list yields StatusUnknown and an error
// matching ErrNotFound.
func (r *Registry) Status(name string) (Status, error) {
	done := observability.TimedOperation()
	status := r.status(name)

	r.metrics.RecordOperation(context.Background(), observability.OpStatus, done(), status != StatusUnknown)
	if status == StatusUnknown {
		observability.LogStatusMiss(r.logger, name)
		return StatusUnknown, &NotFoundError{Name: name}
	}
	return status, nil
}

func (r *Registry) status(name string) Status {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if slices.ContainsFunc(r.waiting, func(w WaitingRecord) bool { return w.Name == name }) {
		return StatusWaiting
	}
	if slices.ContainsFunc(r.treated, func(t TreatedRecord) bool { return t.Name == name }) {
		return StatusTreated
	}
	return StatusUnknown
}

// Take moves all records into a new registry and leaves r empty.
// The new registry shares r's logger, metrics, and publisher.
func (r *Registry) Take() *Registry {
	waiting, treated := r.drain()
	return &Registry{
		waiting:   waiting,
		treated:   treated,
		logger:    r.logger,
		metrics:   r.metrics,
		publisher: r.publisher,
	}
}

// MoveFrom replaces r's records with src's and leaves src empty.
// r.MoveFrom(r) and r.MoveFrom(nil) leave r unchanged.
// Only one registry lock is held at a time, so concurrent moves in opposite
// directions cannot deadlock.
func (r *Registry) MoveFrom(src *Registry) {
	if src == nil || src == r {
		return
	}
	waiting, treated := src.drain()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.waiting, r.treated = waiting, treated
}

func (r *Registry) drain() ([]WaitingRecord, []TreatedRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	waiting, treated := r.waiting, r.treated
	r.waiting, r.treated = nil, nil
	return waiting, treated
}

func (r *Registry) observe(op string, elapsed time.Duration, matched bool, waiting, treated int) {
	ctx := context.Background()
	r.metrics.RecordOperation(ctx, op, elapsed, matched)
	r.metrics.RecordQueueSizes(ctx, waiting, treated)
}

func (r *Registry) publish(evt event.Event) {
	if r.publisher == nil {
		return
	}
	var err error
	if tp, ok := r.publisher.(event.TryPublisher); ok {
		err = tp.TryPublish(evt)
	} else {
		err = r.publisher.Publish(context.Background(), evt)
	}
	if err != nil {
		observability.LogPublishError(r.logger, string(evt.Type), err)
	}
}
