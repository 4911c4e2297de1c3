// Package views keeps the materialized views (catalog, clients, open rentals, history) in the Persistent Store
// up to date with the event log.
//
// A stored view document remembers the sequence number it was built up to. Refresh loads the document,
// queries only the events stored after that sequence number, folds them into the records and saves the document.
// A corrupt document is rebuilt from the whole log, the caller only sees a warning log and a metric.
//
// Incremental refresh assumes sequence numbers become visible in order, which holds for a single writer
// per event log. With EVENTSTORE_DRIVER=postgres and several concurrent writers a lower sequence number
// can commit after a higher one was already read, and a view built in between skips that event until it
// is rebuilt. Run one writing process per Postgres event log.
package views

import (
	"context"
	"errors"
	"time"

	"github.com/tabletop-rentals/rental-ledger-go/collection"
	"github.com/tabletop-rentals/rental-ledger-go/eventstore"
	"github.com/tabletop-rentals/rental-ledger-go/rental/core"
	"github.com/tabletop-rentals/rental-ledger-go/rental/shell"
)

// ErrNilDependency is returned when the refresher is created without event store or collection store.
var ErrNilDependency = errors.New("event store and collection store must not be nil")

// ApplyFunc folds one event into the records of a view. It must be deterministic.
type ApplyFunc[R any] func(records []R, event core.DomainEvent) []R

// View describes one materialized view.
type View[R any] struct {
	ID     collection.ID
	Filter eventstore.Filter
	Apply  ApplyFunc[R]
}

// Refresher refreshes views. It is safe for sequential use, concurrent refreshes of the same view
// may save the same document twice, which is harmless.
type Refresher struct {
	eventStore       shell.QueriesEvents
	store            *collection.Store
	logger           shell.Logger
	contextualLogger shell.ContextualLogger
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
}

// Option configures a Refresher.
type Option func(*Refresher)

// WithLogging sets the basic logger.
func WithLogging(logger shell.Logger) Option {
	return func(r *Refresher) {
		r.logger = logger
	}
}

// WithContextualLogging sets the contextual logger.
func WithContextualLogging(logger shell.ContextualLogger) Option {
	return func(r *Refresher) {
		r.contextualLogger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(collector shell.MetricsCollector) Option {
	return func(r *Refresher) {
		r.metricsCollector = collector
	}
}

// WithTracing sets the tracing collector.
func WithTracing(collector shell.TracingCollector) Option {
	return func(r *Refresher) {
		r.tracingCollector = collector
	}
}

// NewRefresher creates a Refresher.
func NewRefresher(eventStore shell.QueriesEvents, store *collection.Store, opts ...Option) (*Refresher, error) {
	if eventStore == nil || store == nil {
		return nil, ErrNilDependency
	}

	refresher := &Refresher{
		eventStore: eventStore,
		store:      store,
	}

	for _, opt := range opts {
		opt(refresher)
	}

	return refresher, nil
}

// Refresh brings the stored document of the view up to date with the event log and returns it.
//
// A failed save is logged and the refreshed document is returned anyway, the next refresh catches up again.
func Refresh[R any](ctx context.Context, r *Refresher, view View[R]) (collection.Document[R], error) {
	start := time.Now()
	viewName := string(view.ID)
	ctx, span := shell.StartViewSpan(ctx, r.tracingCollector, viewName)

	document, err := collection.Load[R](ctx, r.store, view.ID)
	if err != nil {
		if !errors.Is(err, collection.ErrStorageCorrupt) {
			r.finish(ctx, span, viewName, shell.StatusError, start, 0, err)
			return collection.Document[R]{}, err
		}

		shell.LogViewWarning(ctx, r.logger, r.contextualLogger, shell.LogMsgViewRebuilt, viewName, err)
		shell.RecordViewRebuild(ctx, r.metricsCollector, viewName)
		document = collection.Document[R]{Records: []R{}}
	}

	// single writer per log, see package doc
	fromSequence := document.SequenceNumber

	storableEvents, _, err := r.eventStore.Query(ctx, view.Filter.WithSequenceNumberHigherThan(fromSequence))
	if err != nil {
		r.finish(ctx, span, viewName, shell.StatusError, start, 0, err)
		return collection.Document[R]{}, err
	}

	if len(storableEvents) == 0 {
		r.finish(ctx, span, viewName, shell.StatusSuccess, start, 0, nil)
		return document, nil
	}

	for _, storableEvent := range storableEvents {
		event, mappingErr := shell.DomainEventFrom(storableEvent)
		if mappingErr != nil {
			r.finish(ctx, span, viewName, shell.StatusError, start, 0, mappingErr)
			return collection.Document[R]{}, mappingErr
		}

		document.Records = view.Apply(document.Records, event)
		document.SequenceNumber = max(document.SequenceNumber, storableEvent.SequenceNumber)
	}

	if saveErr := collection.Save(ctx, r.store, view.ID, document.SequenceNumber, document.Records); saveErr != nil {
		shell.LogViewWarning(ctx, r.logger, r.contextualLogger, shell.LogMsgViewSaveFailed, viewName, saveErr)
	}

	shell.LogViewRefreshed(
		ctx, r.logger, r.contextualLogger, viewName,
		fromSequence, document.SequenceNumber, len(storableEvents),
	)
	r.finish(ctx, span, viewName, shell.StatusSuccess, start, len(storableEvents), nil)

	return document, nil
}

func (r *Refresher) finish(
	ctx context.Context,
	span shell.SpanContext,
	view string,
	status string,
	start time.Time,
	eventCount int,
	err error,
) {

	duration := time.Since(start)
	shell.RecordViewMetrics(ctx, r.metricsCollector, view, status, duration, eventCount)
	shell.FinishSpan(r.tracingCollector, span, status, duration, err)
}
