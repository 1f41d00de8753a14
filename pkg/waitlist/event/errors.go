package event

import "errors"

// Sentinel errors for bus operations.
var (
	// ErrBusClosed indicates Publish or Subscribe was called after Close.
	ErrBusClosed = errors.New("event bus closed")

	// ErrEventDropped indicates TryPublish skipped subscribers whose buffer was full.
	ErrEventDropped = errors.New("event dropped")

	// ErrNilHandler indicates Subscribe was called without a handler.
	ErrNilHandler = errors.New("handler cannot be nil")
)
