// Package postgresengine stores the rental event log in PostgreSQL.
//
// The engine supports pgx, database/sql (lib/pq) and sqlx handles. Appends are a single
// INSERT ... SELECT guarded by the max sequence number of the "dynamic event stream" the caller queried,
// so a concurrent append to the same stream makes the guard fail and Append returns
// eventstore.ErrConcurrencyConflict. Payload predicates are JSONB containment checks.
//
// Usage:
//
//	pool, _ := pgxpool.New(ctx, dsn)
//	store, _ := postgresengine.NewEventStoreFromPGXPool(
//		pool,
//		postgresengine.WithTableName("rental_events"),
//		postgresengine.WithLogger(slog.Default()),
//	)
//	_ = store.CreateEventsTable(ctx)
//
//	events, maxSeq, _ := store.Query(ctx, filter)
//	err := store.Append(ctx, filter, maxSeq, newEvent)
package postgresengine
