package shell

import (
	"context"

	"github.com/tabletop-rentals/rental-ledger-go/eventstore"
)

// EventStore defines the event store operations the command handlers and the view refresher need.
// Both sqliteengine.EventStore and postgresengine.EventStore satisfy it.
type EventStore interface {
	QueriesEvents
	Append(
		ctx context.Context,
		filter eventstore.Filter,
		expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
		storableEvents ...eventstore.StorableEvent,
	) error
}

// QueriesEvents defines the read side of the event store.
type QueriesEvents interface {
	Query(ctx context.Context, filter eventstore.Filter) (
		eventstore.StorableEvents,
		eventstore.MaxSequenceNumberUint,
		error,
	)
}

// Command represents the contract for all command types.
// The CommandType method enables polymorphic handling and observability instrumentation.
type Command interface {
	CommandType() string
}

// CoreCommandHandler defines the contract for components that process commands with pure business logic.
// Handlers orchestrate the complete command workflow: retrieving events, unmarshaling, deciding, and appending.
// Implementations should focus on business logic, observability is added by wrapping them with observable.CommandWrapper.
type CoreCommandHandler[C Command] interface {
	Handle(ctx context.Context, command C) (HandlerResult, error)
}

// Query represents the contract for all query types.
type Query interface {
	QueryType() string
}

// QueryResult represents the contract for all read model results.
// GetSequenceNumber returns the highest event sequence number included in the result.
type QueryResult interface {
	GetSequenceNumber() uint
}

// CoreQueryHandler defines the contract for components that build read models.
type CoreQueryHandler[Q Query, R QueryResult] interface {
	Handle(ctx context.Context, query Q) (R, error)
}
