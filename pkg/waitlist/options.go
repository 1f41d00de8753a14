package waitlist

import (
	"log/slog"

	"github.com/randalmurphal/waitlist/pkg/waitlist/event"
	"github.com/randalmurphal/waitlist/pkg/waitlist/observability"
)

// Option configures a Registry.
type Option func(*Registry)

// WithLogger enables structured logging of registry changes.
// A nil logger disables logging (the default).
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
//	reg := waitlist.New(waitlist.WithLogger(logger))
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithMetrics sets the metrics recorder. Default: observability.NoopMetrics.
//
// Example:
//
//	reg := waitlist.New(waitlist.WithMetrics(observability.NewMetricsRecorder()))
func WithMetrics(recorder observability.MetricsRecorder) Option {
	return func(r *Registry) {
		if recorder != nil {
			r.metrics = recorder
		}
	}
}

// WithPublisher publishes a change event after every effective mutation.
// Publish errors are logged and never returned from registry methods.
//
// Registry methods must not wait on subscribers. A publisher that implements
// event.TryPublisher, such as event.LocalBus, is called through TryPublish,
// which drops events for full subscribers instead of blocking. Any other
// publisher's Publish must return without waiting.
func WithPublisher(publisher event.Publisher) Option {
	return func(r *Registry) {
		r.publisher = publisher
	}
}
