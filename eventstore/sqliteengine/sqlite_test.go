package sqliteengine_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabletop-rentals/rental-ledger-go/eventstore"
	"github.com/tabletop-rentals/rental-ledger-go/eventstore/sqliteengine"
)

func givenEventStore(t *testing.T) sqliteengine.EventStore {
	t.Helper()

	db, err := sqliteengine.OpenDB(filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	es, err := sqliteengine.NewEventStore(db)
	require.NoError(t, err)
	require.NoError(t, es.CreateEventsTable(context.Background()))

	return es
}

func storable(t *testing.T, eventType string, occurredAt time.Time, payload string) eventstore.StorableEvent {
	t.Helper()

	event, err := eventstore.BuildStorableEvent(eventType, occurredAt, []byte(payload), []byte(`{"MessageID":"m"}`))
	require.NoError(t, err)

	return event
}

func givenItemAdded(t *testing.T, es sqliteengine.EventStore, name string, at time.Time) {
	t.Helper()

	err := es.Append(
		context.Background(),
		filterForItem(name),
		queryMaxSequenceNumber(t, es, filterForItem(name)),
		storable(t, "ItemAddedToCatalog", at, fmt.Sprintf(`{"ItemName":%q}`, name)),
	)
	require.NoError(t, err)
}

func filterForItem(name string) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(eventstore.P("ItemName", name), eventstore.P("NewItemName", name)).
		Finalize()
}

func queryMaxSequenceNumber(t *testing.T, es sqliteengine.EventStore, filter eventstore.Filter) eventstore.MaxSequenceNumberUint {
	t.Helper()

	_, maxSequenceNumber, err := es.Query(context.Background(), filter)
	require.NoError(t, err)

	return maxSequenceNumber
}

func Test_NewEventStore_RejectsInvalidInput(t *testing.T) {
	// act
	_, nilDBErr := sqliteengine.NewEventStore(nil)

	db, err := sqliteengine.OpenDB(filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	defer db.Close()

	_, emptyTableErr := sqliteengine.NewEventStore(db, sqliteengine.WithTableName(""))

	// assert
	assert.ErrorIs(t, nilDBErr, eventstore.ErrNilDatabaseConnection)
	assert.ErrorIs(t, emptyTableErr, eventstore.ErrEmptyEventsTableName)
}

func Test_Append_When_NoEvent_MatchesTheQuery_BeforeAppend(t *testing.T) {
	// setup
	es := givenEventStore(t)
	fakeClock := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	// arrange
	givenItemAdded(t, es, "Azul", fakeClock)
	filter := filterForItem("Catan")
	maxSequenceNumberBeforeAppend := queryMaxSequenceNumber(t, es, filter)

	// act
	err := es.Append(
		context.Background(),
		filter,
		maxSequenceNumberBeforeAppend,
		storable(t, "ItemAddedToCatalog", fakeClock.Add(time.Second), `{"ItemName":"Catan"}`),
	)

	// assert
	assert.Equal(t, eventstore.MaxSequenceNumberUint(0), maxSequenceNumberBeforeAppend)
	assert.NoError(t, err)
}

func Test_Append_When_A_ConcurrencyConflict_ShouldHappen(t *testing.T) {
	// setup
	es := givenEventStore(t)
	fakeClock := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	// arrange
	givenItemAdded(t, es, "Catan", fakeClock)
	filter := filterForItem("Catan")
	maxSequenceNumberBeforeAppend := queryMaxSequenceNumber(t, es, filter)
	concurrentErr := es.Append( // concurrent append
		context.Background(),
		filter,
		maxSequenceNumberBeforeAppend,
		storable(t, "ItemRemovedFromCatalog", fakeClock.Add(time.Second), `{"ItemName":"Catan"}`),
	)
	require.NoError(t, concurrentErr)

	// act
	err := es.Append(
		context.Background(),
		filter,
		maxSequenceNumberBeforeAppend,
		storable(t, "ItemRenamed", fakeClock.Add(2*time.Second), `{"ItemName":"Catan","NewItemName":"Catan 2"}`),
	)

	// assert
	assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
}

func Test_Append_When_OtherStreamsChanged_DoesNotConflict(t *testing.T) {
	// setup
	es := givenEventStore(t)
	fakeClock := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	// arrange
	givenItemAdded(t, es, "Catan", fakeClock)
	filter := filterForItem("Catan")
	maxSequenceNumberBeforeAppend := queryMaxSequenceNumber(t, es, filter)
	givenItemAdded(t, es, "Azul", fakeClock.Add(time.Second))

	// act
	err := es.Append(
		context.Background(),
		filter,
		maxSequenceNumberBeforeAppend,
		storable(t, "ItemRemovedFromCatalog", fakeClock.Add(2*time.Second), `{"ItemName":"Catan"}`),
	)

	// assert
	assert.NoError(t, err)
}

func Test_Append_MultipleEvents_Atomically(t *testing.T) {
	// setup
	es := givenEventStore(t)
	fakeClock := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	allEvents := eventstore.BuildEventFilter().MatchingAnyEvent()

	// act
	err := es.Append(
		context.Background(),
		allEvents,
		0,
		storable(t, "ClientRegistered", fakeClock, `{"ClientID":"c1","FirstName":"Anna"}`),
		storable(t, "ClientRegistered", fakeClock, `{"ClientID":"c2","FirstName":"Jan"}`),
		storable(t, "ClientRegistered", fakeClock, `{"ClientID":"c3","FirstName":"Ewa"}`),
	)
	events, maxSequenceNumber, queryErr := es.Query(context.Background(), allEvents)

	// assert
	require.NoError(t, err)
	require.NoError(t, queryErr)
	assert.Len(t, events, 3)
	assert.Equal(t, eventstore.MaxSequenceNumberUint(3), maxSequenceNumber)
	for i, event := range events {
		assert.Equal(t, eventstore.MaxSequenceNumberUint(i+1), event.SequenceNumber)
	}
}

func Test_Append_When_ExpectedSequenceIsStale_NothingIsStored(t *testing.T) {
	// setup
	es := givenEventStore(t)
	fakeClock := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	allEvents := eventstore.BuildEventFilter().MatchingAnyEvent()

	// arrange
	givenItemAdded(t, es, "Catan", fakeClock)

	// act
	err := es.Append(
		context.Background(),
		allEvents,
		0,
		storable(t, "ItemAddedToCatalog", fakeClock, `{"ItemName":"Azul"}`),
		storable(t, "ItemAddedToCatalog", fakeClock, `{"ItemName":"Dixit"}`),
	)

	// assert
	assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
	events, _, queryErr := es.Query(context.Background(), allEvents)
	require.NoError(t, queryErr)
	assert.Len(t, events, 1)
}

func Test_Append_Without_Events_Fails(t *testing.T) {
	// setup
	es := givenEventStore(t)

	// act
	err := es.Append(context.Background(), eventstore.BuildEventFilter().MatchingAnyEvent(), 0)

	// assert
	assert.ErrorIs(t, err, eventstore.ErrNoEventsToAppend)
}

func Test_Query_RoundTripsEventProperties(t *testing.T) {
	// setup
	es := givenEventStore(t)
	occurredAt := time.Date(2024, 1, 3, 12, 30, 15, 123456000, time.UTC)

	// arrange
	givenItemAdded(t, es, "Catan", occurredAt)

	// act
	events, _, err := es.Query(context.Background(), filterForItem("Catan"))

	// assert
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "ItemAddedToCatalog", events[0].EventType)
	assert.True(t, occurredAt.Equal(events[0].OccurredAt))
	assert.JSONEq(t, `{"ItemName":"Catan"}`, string(events[0].PayloadJSON))
	assert.JSONEq(t, `{"MessageID":"m"}`, string(events[0].MetadataJSON))
}

func Test_Query_Filters(t *testing.T) {
	// setup
	es := givenEventStore(t)
	fakeClock := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	// arrange
	err := es.Append(
		context.Background(),
		eventstore.BuildEventFilter().MatchingAnyEvent(),
		0,
		storable(t, "ItemAddedToCatalog", fakeClock, `{"ItemName":"Catan"}`),                                   // 1
		storable(t, "ItemAddedToCatalog", fakeClock, `{"ItemName":"Azul"}`),                                    // 2
		storable(t, "ItemRenamed", fakeClock, `{"ItemName":"Azul","NewItemName":"Azul Mini","RentalID":""}`),   // 3
		storable(t, "RentalOpened", fakeClock, `{"RentalID":"r1","ClientID":"c1","ItemName":"Catan"}`),         // 4
		storable(t, "RentalClosed", fakeClock, `{"RentalID":"r1","ClientID":"c1","ItemName":"Catan"}`),         // 5
		storable(t, "ClientRegistered", fakeClock, `{"ClientID":"c1","FirstName":"Anna","LastName":"Nowak"}`), // 6
	)
	require.NoError(t, err)

	testCases := []struct {
		description       string
		filter            eventstore.Filter
		expectedSequences []eventstore.MaxSequenceNumberUint
	}{
		{
			description:       "any event",
			filter:            eventstore.BuildEventFilter().MatchingAnyEvent(),
			expectedSequences: []eventstore.MaxSequenceNumberUint{1, 2, 3, 4, 5, 6},
		},
		{
			description: "event types only",
			filter: eventstore.BuildEventFilter().
				Matching().
				AnyEventTypeOf("RentalOpened", "RentalClosed").
				Finalize(),
			expectedSequences: []eventstore.MaxSequenceNumberUint{4, 5},
		},
		{
			description: "any predicate across old and new names",
			filter: eventstore.BuildEventFilter().
				Matching().
				AnyPredicateOf(eventstore.P("ItemName", "Azul Mini"), eventstore.P("NewItemName", "Azul Mini")).
				Finalize(),
			expectedSequences: []eventstore.MaxSequenceNumberUint{3},
		},
		{
			description: "all predicates",
			filter: eventstore.BuildEventFilter().
				Matching().
				AllPredicatesOf(eventstore.P("ClientID", "c1"), eventstore.P("RentalID", "r1")).
				Finalize(),
			expectedSequences: []eventstore.MaxSequenceNumberUint{4, 5},
		},
		{
			description: "event type and predicate",
			filter: eventstore.BuildEventFilter().
				Matching().
				AnyEventTypeOf("RentalClosed").
				AndAnyPredicateOf(eventstore.P("ItemName", "Catan")).
				Finalize(),
			expectedSequences: []eventstore.MaxSequenceNumberUint{5},
		},
		{
			description: "multiple filter items",
			filter: eventstore.BuildEventFilter().
				Matching().
				AnyEventTypeOf("ClientRegistered").
				OrMatching().
				AnyPredicateOf(eventstore.P("ItemName", "Azul")).
				Finalize(),
			expectedSequences: []eventstore.MaxSequenceNumberUint{2, 3, 6},
		},
		{
			description: "sequence number lower bound",
			filter: eventstore.BuildEventFilter().
				MatchingAnyEvent().
				WithSequenceNumberHigherThan(4),
			expectedSequences: []eventstore.MaxSequenceNumberUint{5, 6},
		},
		{
			description: "predicate with quotes in value",
			filter: eventstore.BuildEventFilter().
				Matching().
				AnyPredicateOf(eventstore.P("ItemName", `Cat"an`)).
				Finalize(),
			expectedSequences: []eventstore.MaxSequenceNumberUint{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			// act
			events, maxSequenceNumber, queryErr := es.Query(context.Background(), tc.filter)

			// assert
			require.NoError(t, queryErr)
			sequences := make([]eventstore.MaxSequenceNumberUint, 0, len(events))
			for _, event := range events {
				sequences = append(sequences, event.SequenceNumber)
			}
			assert.Equal(t, tc.expectedSequences, sequences)
			if len(sequences) > 0 {
				assert.Equal(t, sequences[len(sequences)-1], maxSequenceNumber)
			} else {
				assert.Equal(t, eventstore.MaxSequenceNumberUint(0), maxSequenceNumber)
			}
		})
	}
}

func Test_Append_ConcurrentWriters_ExactlyOneWins(t *testing.T) {
	// setup
	es := givenEventStore(t)
	fakeClock := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	// arrange
	givenItemAdded(t, es, "Catan", fakeClock)
	filter := filterForItem("Catan")
	maxSequenceNumberBeforeAppend := queryMaxSequenceNumber(t, es, filter)

	const writers = 5
	events := make([]eventstore.StorableEvent, writers)
	for i := range writers {
		events[i] = storable(t, "RentalOpened", fakeClock, fmt.Sprintf(`{"RentalID":"r%d","ItemName":"Catan"}`, i))
	}

	// act
	results := make(chan error, writers)
	wg := sync.WaitGroup{}
	for _, event := range events {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- es.Append(context.Background(), filter, maxSequenceNumberBeforeAppend, event)
		}()
	}
	wg.Wait()
	close(results)

	// assert
	succeeded, conflicted := 0, 0
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict):
			conflicted++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, writers-1, conflicted)
}
