package waitlist

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrNotFound indicates a name is in neither the waiting nor the treated list.
	ErrNotFound = errors.New("patient not found")

	// ErrInvalidDate indicates a date string could not be parsed.
	ErrInvalidDate = errors.New("invalid date")
)

// NotFoundError reports which name a status lookup missed.
type NotFoundError struct {
	// Name is the name that was looked up.
	Name string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %q", ErrNotFound, e.Name)
}

// Unwrap returns ErrNotFound for errors.Is support.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// DateError describes a malformed date string.
type DateError struct {
	Input  string
	Reason string
}

// Error implements the error interface.
func (e *DateError) Error() string {
	return fmt.Sprintf("%s %q: %s", ErrInvalidDate, e.Input, e.Reason)
}

// Unwrap returns ErrInvalidDate for errors.Is support.
func (e *DateError) Unwrap() error {
	return ErrInvalidDate
}
