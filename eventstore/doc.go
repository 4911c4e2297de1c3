// Package eventstore contains the engine-independent building blocks of the rental event log.
//
// Every change in the rental ledger is stored as one or more events in a single append-only log.
// Instead of fixed streams, each decision reads a "dynamic event stream" described by a Filter:
//   - Event types
//   - JSON payload predicates (key/value equality on top-level payload fields)
//   - An optional lower bound on the sequence number for incremental reads
//
// Engines (sqliteengine, postgresengine) translate a Filter into their query language and implement the
// optimistic concurrency check for Append: the append only succeeds if the maximum sequence number of the
// filtered stream is still the one observed by the preceding Query.
//
// Common usage pattern:
//
//	filter := eventstore.BuildEventFilter().
//		Matching().
//		AnyEventTypeOf(
//			core.RentalOpenedEventType,
//			core.RentalClosedEventType).
//		AndAnyPredicateOf(eventstore.P("ItemName", "Catan")).
//		Finalize()
//
//	events, maxSeq, err := store.Query(ctx, filter)
//	if err != nil {
//		// handle error
//	}
//
//	// decide ...
//
//	err = store.Append(ctx, filter, maxSeq, newEvent)
//	if errors.Is(err, eventstore.ErrConcurrencyConflict) {
//		// somebody changed the stream in between, retry
//	}
package eventstore
