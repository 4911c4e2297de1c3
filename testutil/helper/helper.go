package helper

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabletop-rentals/rental-ledger-go/collection"
	"github.com/tabletop-rentals/rental-ledger-go/collection/memory"
	"github.com/tabletop-rentals/rental-ledger-go/eventstore"
	"github.com/tabletop-rentals/rental-ledger-go/eventstore/sqliteengine"
	"github.com/tabletop-rentals/rental-ledger-go/rental/core"
	"github.com/tabletop-rentals/rental-ledger-go/rental/shell"
)

func GivenUniqueID(t testing.TB) uuid.UUID {
	id, err := uuid.NewV7()
	assert.NoError(t, err, "error in arranging test data")

	return id
}

// GivenSQLiteEventStore creates an event store in a fresh database file below t.TempDir().
func GivenSQLiteEventStore(t testing.TB, options ...sqliteengine.Option) sqliteengine.EventStore {
	t.Helper()

	db, err := sqliteengine.OpenDB(filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err, "error in arranging test data")
	t.Cleanup(func() { _ = db.Close() })

	es, err := sqliteengine.NewEventStore(db, options...)
	require.NoError(t, err, "error in arranging test data")
	require.NoError(t, es.CreateEventsTable(context.Background()), "error in arranging test data")

	return es
}

// GivenMemoryCollectionStore creates a collection store on top of the memory backend.
func GivenMemoryCollectionStore(t testing.TB, options ...collection.Option) (*collection.Store, *memory.Backend) {
	t.Helper()

	backend := memory.New()

	store, err := collection.NewStore(backend, options...)
	require.NoError(t, err, "error in arranging test data")

	return store, backend
}

func ToStorable(t testing.TB, domainEvent core.DomainEvent) eventstore.StorableEvent {
	storableEvent, err := shell.StorableEventFrom(domainEvent, shell.NewCommandMetadata())
	assert.NoError(t, err, "error in arranging test data")

	return storableEvent
}

// GivenEventsWereAppended appends the events unconditionally, in one batch.
func GivenEventsWereAppended(t testing.TB, ctx context.Context, es shell.EventStore, events ...core.DomainEvent) {
	t.Helper()

	filter := eventstore.BuildEventFilter().MatchingAnyEvent()

	_, maxSequenceNumber, err := es.Query(ctx, filter)
	require.NoError(t, err, "error in arranging test data")

	storableEvents := make(eventstore.StorableEvents, 0, len(events))
	for _, event := range events {
		storableEvents = append(storableEvents, ToStorable(t, event))
	}

	require.NoError(t, es.Append(ctx, filter, maxSequenceNumber, storableEvents...), "error in arranging test data")
}
