package ledger

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/tabletop-rentals/rental-ledger-go/rental/shell"
)

var ErrInvalidOption = errors.New("invalid ledger option")

// Option configures a Ledger.
type Option func(*Ledger) error

// WithLogger sets the logger for handlers, views and the import.
func WithLogger(logger shell.Logger) Option {
	return func(l *Ledger) error {
		l.logger = logger
		return nil
	}
}

// WithContextualLogger sets the context aware logger for handlers and views.
func WithContextualLogger(logger shell.ContextualLogger) Option {
	return func(l *Ledger) error {
		l.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for handlers, retries and views.
func WithMetrics(collector shell.MetricsCollector) Option {
	return func(l *Ledger) error {
		l.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for handlers and views.
func WithTracing(collector shell.TracingCollector) Option {
	return func(l *Ledger) error {
		l.tracingCollector = collector
		return nil
	}
}

// WithClock replaces time.Now for event times and token expiry.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) error {
		if now == nil {
			return errors.Join(ErrInvalidOption, errors.New("clock must not be nil"))
		}

		l.now = now

		return nil
	}
}

// WithIDGenerator replaces uuid.NewV7 for client and rental IDs.
func WithIDGenerator(newID func() (uuid.UUID, error)) Option {
	return func(l *Ledger) error {
		if newID == nil {
			return errors.Join(ErrInvalidOption, errors.New("id generator must not be nil"))
		}

		l.newID = newID

		return nil
	}
}

// WithConfirmationTTL sets how long confirmation tokens stay valid.
func WithConfirmationTTL(ttl time.Duration) Option {
	return func(l *Ledger) error {
		if ttl <= 0 {
			return errors.Join(ErrInvalidOption, errors.New("confirmation ttl must be positive"))
		}

		l.confirmationTTL = ttl

		return nil
	}
}

// WithRetryOptions sets the concurrency conflict retry configuration of all command handlers.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(l *Ledger) error {
		l.retryOptions = opts
		return nil
	}
}
