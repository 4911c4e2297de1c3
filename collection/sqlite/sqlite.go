// Package sqlite keeps all collections as rows of one SQLite table, which lets the embedded setup
// run with a single database file next to the event log.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3" // dialect registration

	"github.com/tabletop-rentals/rental-ledger-go/collection"
)

const (
	driverName       = "sqlite"
	dialectSQLite    = "sqlite3"
	defaultTableName = "collections"
	colName          = "name"
	colPayload       = "payload"
	colUpdatedAt     = "updated_at"
)

// Backend reads and upserts rows of the collections table.
type Backend struct {
	db        *sql.DB
	tableName string
}

// New creates the collections table if needed.
func New(ctx context.Context, db *sql.DB) (*Backend, error) {
	if db == nil {
		return nil, errors.New("sqlite backend: database connection must not be nil")
	}

	b := &Backend{db: db, tableName: defaultTableName}

	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS "%s" (
		%s TEXT PRIMARY KEY,
		%s TEXT NOT NULL,
		%s TEXT NOT NULL
	)`, b.tableName, colName, colPayload, colUpdatedAt)

	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return nil, fmt.Errorf("sqlite backend: create table: %w", err)
	}

	return b, nil
}

func (b *Backend) Driver() string {
	return driverName
}

func (b *Backend) Read(ctx context.Context, name string) ([]byte, error) {
	sqlQuery, args, err := goqu.Dialect(dialectSQLite).
		From(b.tableName).
		Select(colPayload).
		Where(goqu.C(colName).Eq(name)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("sqlite backend: build select: %w", err)
	}

	var payload string
	err = b.db.QueryRowContext(ctx, sqlQuery, args...).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, collection.ErrCollectionMissing
	}

	if err != nil {
		return nil, fmt.Errorf("sqlite backend: read %s: %w", name, err)
	}

	return []byte(payload), nil
}

// Write upserts the row for name inside a transaction.
func (b *Backend) Write(ctx context.Context, name string, data []byte) (err error) {
	sqlQuery, args, err := goqu.Dialect(dialectSQLite).
		Insert(b.tableName).
		Rows(goqu.Record{
			colName:      name,
			colPayload:   string(data),
			colUpdatedAt: time.Now().UTC().Format(time.RFC3339Nano),
		}).
		OnConflict(goqu.DoUpdate(colName, goqu.Record{
			colPayload:   goqu.I("excluded." + colPayload),
			colUpdatedAt: goqu.I("excluded." + colUpdatedAt),
		})).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("sqlite backend: build upsert: %w", err)
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite backend: begin: %w", err)
	}

	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			err = errors.Join(err, rollbackErr)
		}
	}()

	if _, err = tx.ExecContext(ctx, sqlQuery, args...); err != nil {
		return fmt.Errorf("sqlite backend: upsert %s: %w", name, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("sqlite backend: commit: %w", err)
	}

	return nil
}
