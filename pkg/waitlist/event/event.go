// Package event provides change notifications for the waiting registry.
//
// The registry publishes one Event per effective mutation:
//   - patient.added when a waiting record is appended
//   - patient.treated when a waiting record moves to the treated list
//   - records.purged when a purge removes at least one treated record
//
// Events are published after the registry lock is released, so handlers may
// call back into the registry. Delivery order across goroutines follows
// publish order per subscriber only.
package event

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Type identifies the kind of change.
type Type string

// Event types.
const (
	TypePatientAdded   Type = "patient.added"
	TypePatientTreated Type = "patient.treated"
	TypeRecordsPurged  Type = "records.purged"
)

// Event describes a single change to the registry.
// Events are values and never mutated after creation.
type Event struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Timestamp time.Time `json:"timestamp"`

	// Name is set for patient.added and patient.treated.
	Name string `json:"name,omitempty"`

	// Date is the treatment date for patient.treated and the cutoff for
	// records.purged, formatted YYYY-MM-DD.
	Date string `json:"date,omitempty"`

	// Removed is the number of records deleted by records.purged.
	Removed int `json:"removed,omitempty"`
}

// New creates an event of the given type with a fresh ID and timestamp.
func New(t Type) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      t,
		Timestamp: time.Now().UTC(),
	}
}

// PatientAdded creates a patient.added event.
func PatientAdded(name string) Event {
	e := New(TypePatientAdded)
	e.Name = name
	return e
}

// PatientTreated creates a patient.treated event.
func PatientTreated(name, date string) Event {
	e := New(TypePatientTreated)
	e.Name = name
	e.Date = date
	return e
}

// RecordsPurged creates a records.purged event.
func RecordsPurged(before string, removed int) Event {
	e := New(TypeRecordsPurged)
	e.Date = before
	e.Removed = removed
	return e
}

// Publisher accepts events for delivery.
// Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// TryPublisher is a Publisher that can also deliver without waiting.
// TryPublish must return promptly even when subscribers are slow.
type TryPublisher interface {
	Publisher
	TryPublish(evt Event) error
}

// Handler processes a delivered event.
type Handler func(ctx context.Context, evt Event)
