package config

import (
	"context"
	"fmt"

	"github.com/tabletop-rentals/rental-ledger-go/eventstore/postgresengine"
	"github.com/tabletop-rentals/rental-ledger-go/eventstore/sqliteengine"
	"github.com/tabletop-rentals/rental-ledger-go/rental/shell"
)

// EventStore is the event store the application works with, plus the schema bootstrap.
type EventStore interface {
	shell.EventStore
	CreateEventsTable(ctx context.Context) error
}

// OpenEventStore opens the configured event store engine, wires the observability into it,
// and makes sure the events table exists.
// The returned close function releases the underlying database connections.
func OpenEventStore(ctx context.Context, cfg Config, obs *Observability) (EventStore, func() error, error) {
	var (
		store     EventStore
		closeFunc func() error
		err       error
	)

	switch cfg.EventStoreDriver {
	case DriverSQLite:
		store, closeFunc, err = openSQLiteEventStore(cfg, obs)
	case DriverPostgres:
		store, closeFunc, err = openPostgresEventStore(ctx, cfg, obs)
	default:
		err = fmt.Errorf("%w: %sEVENTSTORE_DRIVER=%q", ErrUnsupportedValue, envPrefix, cfg.EventStoreDriver)
	}

	if err != nil {
		return nil, nil, err
	}

	if tableErr := store.CreateEventsTable(ctx); tableErr != nil {
		_ = closeFunc()
		return nil, nil, tableErr
	}

	return store, closeFunc, nil
}

func openSQLiteEventStore(cfg Config, obs *Observability) (EventStore, func() error, error) {
	db, err := sqliteengine.OpenDB(cfg.SQLitePath)
	if err != nil {
		return nil, nil, err
	}

	options := []sqliteengine.Option{sqliteengine.WithTableName(cfg.EventsTable)}
	if obs != nil {
		if obs.Logger != nil {
			options = append(options, sqliteengine.WithLogger(obs.Logger))
		}
		if obs.ContextualLogger != nil {
			options = append(options, sqliteengine.WithContextualLogger(obs.ContextualLogger))
		}
		if obs.Metrics != nil {
			options = append(options, sqliteengine.WithMetrics(obs.Metrics))
		}
		if obs.Tracing != nil {
			options = append(options, sqliteengine.WithTracing(obs.Tracing))
		}
	}

	store, err := sqliteengine.NewEventStore(db, options...)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	return store, db.Close, nil
}

func openPostgresEventStore(ctx context.Context, cfg Config, obs *Observability) (EventStore, func() error, error) {
	options := []postgresengine.Option{postgresengine.WithTableName(cfg.EventsTable)}
	if obs != nil {
		if obs.Logger != nil {
			options = append(options, postgresengine.WithLogger(obs.Logger))
		}
		if obs.ContextualLogger != nil {
			options = append(options, postgresengine.WithContextualLogger(obs.ContextualLogger))
		}
		if obs.Metrics != nil {
			options = append(options, postgresengine.WithMetrics(obs.Metrics))
		}
		if obs.Tracing != nil {
			options = append(options, postgresengine.WithTracing(obs.Tracing))
		}
	}

	switch cfg.PostgresClient {
	case PostgresClientSQL:
		db, err := OpenPostgresSQLDB(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}

		store, err := postgresengine.NewEventStoreFromSQLDB(db, options...)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		return store, db.Close, nil

	case PostgresClientSQLX:
		db, err := OpenPostgresSQLX(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}

		store, err := postgresengine.NewEventStoreFromSQLX(db, options...)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		return store, db.Close, nil

	default:
		pool, err := OpenPostgresPGXPool(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}

		store, err := postgresengine.NewEventStoreFromPGXPool(pool, options...)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}

		return store, func() error { pool.Close(); return nil }, nil
	}
}
