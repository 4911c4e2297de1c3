package config

import (
	"context"
	"fmt"

	"github.com/tabletop-rentals/rental-ledger-go/collection"
	fsbackend "github.com/tabletop-rentals/rental-ledger-go/collection/fs"
	memorybackend "github.com/tabletop-rentals/rental-ledger-go/collection/memory"
	s3backend "github.com/tabletop-rentals/rental-ledger-go/collection/s3"
	sqlitebackend "github.com/tabletop-rentals/rental-ledger-go/collection/sqlite"
	"github.com/tabletop-rentals/rental-ledger-go/eventstore/sqliteengine"
)

// OpenCollectionStore opens the configured collection backend and wraps it into a collection.Store.
// The returned close function releases the backend, it is a no-op for backends without resources.
func OpenCollectionStore(ctx context.Context, cfg Config, obs *Observability) (*collection.Store, func() error, error) {
	noop := func() error { return nil }

	var (
		backend   collection.Backend
		closeFunc = noop
	)

	switch cfg.CollectionDriver {
	case CollectionDriverFS:
		fsBackend, err := fsbackend.New(cfg.CollectionDir)
		if err != nil {
			return nil, nil, err
		}
		backend = fsBackend

	case CollectionDriverS3:
		s3Backend, err := s3backend.New(ctx, s3backend.Config{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			Prefix:    cfg.S3Prefix,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
		})
		if err != nil {
			return nil, nil, err
		}
		backend = s3Backend

	case CollectionDriverSQLite:
		db, err := sqliteengine.OpenDB(cfg.CollectionSQLitePath)
		if err != nil {
			return nil, nil, err
		}

		sqliteBackend, err := sqlitebackend.New(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		backend = sqliteBackend
		closeFunc = db.Close

	case CollectionDriverMemory:
		backend = memorybackend.New()

	default:
		return nil, nil, fmt.Errorf("%w: %sCOLLECTION_DRIVER=%q", ErrUnsupportedValue, envPrefix, cfg.CollectionDriver)
	}

	options := []collection.Option{collection.WithWriteRetry(cfg.CollectionWriteAttempts, cfg.CollectionWriteBaseDelay)}
	if obs != nil {
		if obs.Logger != nil {
			options = append(options, collection.WithLogger(obs.Logger))
		}
		if obs.Metrics != nil {
			options = append(options, collection.WithMetrics(obs.Metrics))
		}
	}

	store, err := collection.NewStore(backend, options...)
	if err != nil {
		_ = closeFunc()
		return nil, nil, err
	}

	return store, closeFunc, nil
}
