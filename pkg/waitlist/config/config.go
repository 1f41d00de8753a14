package config

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/randalmurphal/waitlist/pkg/waitlist"
)

// ErrInvalidConfig indicates a setting is out of range or malformed.
var ErrInvalidConfig = errors.New("invalid config")

// Error describes one invalid setting.
type Error struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidConfig, e.Field, e.Reason)
}

// Unwrap returns ErrInvalidConfig for errors.Is support.
func (e *Error) Unwrap() error {
	return ErrInvalidConfig
}

// Settings controls a simulation run.
type Settings struct {
	// Clients is the number of concurrent simulated clients.
	Clients int `yaml:"clients" json:"clients"`

	// NamesPerClient is how many distinct names each client adds.
	NamesPerClient int `yaml:"names_per_client" json:"names_per_client"`

	// TreatRatio is the share of its names each client treats, in [0, 1].
	TreatRatio float64 `yaml:"treat_ratio" json:"treat_ratio"`

	// ReadsPerClient is how many status and list queries each client issues.
	ReadsPerClient int `yaml:"reads_per_client" json:"reads_per_client"`

	// PurgeEvery makes each client purge after every N treatments.
	// Zero disables client purges; a final purge always runs.
	PurgeEvery int `yaml:"purge_every" json:"purge_every"`

	// PurgeBefore is the purge cutoff, YYYY-MM-DD.
	PurgeBefore string `yaml:"purge_before" json:"purge_before"`

	// Seed makes treatment dates reproducible.
	Seed uint64 `yaml:"seed" json:"seed"`

	Metrics  bool   `yaml:"metrics" json:"metrics"`
	Tracing  bool   `yaml:"tracing" json:"tracing"`
	LogLevel string `yaml:"log_level" json:"log_level"`
}

// Default returns settings matching the concurrent-add scenario:
// ten clients adding a hundred names each.
func Default() Settings {
	return Settings{
		Clients:        10,
		NamesPerClient: 100,
		TreatRatio:     0.5,
		ReadsPerClient: 10,
		PurgeBefore:    "2021-01-01",
		Seed:           1,
		LogLevel:       "info",
	}
}

// Validate checks every field and returns the first problem found.
func (s Settings) Validate() error {
	switch {
	case s.Clients <= 0:
		return &Error{Field: "clients", Reason: "must be positive"}
	case s.NamesPerClient < 0:
		return &Error{Field: "names_per_client", Reason: "must not be negative"}
	case s.TreatRatio < 0 || s.TreatRatio > 1:
		return &Error{Field: "treat_ratio", Reason: "must be between 0 and 1"}
	case s.ReadsPerClient < 0:
		return &Error{Field: "reads_per_client", Reason: "must not be negative"}
	case s.PurgeEvery < 0:
		return &Error{Field: "purge_every", Reason: "must not be negative"}
	}
	if _, err := waitlist.ParseDate(s.PurgeBefore); err != nil {
		return &Error{Field: "purge_before", Reason: err.Error()}
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return &Error{Field: "log_level", Reason: err.Error()}
	}
	return nil
}

// PurgeDate returns the parsed purge cutoff.
func (s Settings) PurgeDate() (waitlist.Date, error) {
	return waitlist.ParseDate(s.PurgeBefore)
}

// Level returns the configured log level, or slog.LevelInfo if unparsable.
func (s Settings) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
