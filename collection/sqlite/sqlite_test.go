package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabletop-rentals/rental-ledger-go/collection"
	"github.com/tabletop-rentals/rental-ledger-go/collection/sqlite"
	"github.com/tabletop-rentals/rental-ledger-go/eventstore/sqliteengine"
)

func Test_Read_When_NothingWasWritten_ReportsMissingCollection(t *testing.T) {
	// arrange
	backend := givenBackend(t)

	// act
	_, err := backend.Read(context.Background(), "rentals")

	// assert
	assert.ErrorIs(t, err, collection.ErrCollectionMissing)
}

func Test_Write_Twice_KeepsOnlyTheLatestDocument(t *testing.T) {
	// arrange
	backend := givenBackend(t)
	ctx := context.Background()

	// act
	require.NoError(t, backend.Write(ctx, "rentals", []byte(`{"sequenceNumber":1,"records":[]}`)))
	require.NoError(t, backend.Write(ctx, "rentals", []byte(`{"sequenceNumber":9,"records":[]}`)))
	data, err := backend.Read(ctx, "rentals")

	// assert
	require.NoError(t, err)
	assert.JSONEq(t, `{"sequenceNumber":9,"records":[]}`, string(data))
}

func Test_Collections_AreIndependentRows(t *testing.T) {
	// arrange
	backend := givenBackend(t)
	ctx := context.Background()

	// act
	require.NoError(t, backend.Write(ctx, "catalog", []byte(`"catalog"`)))
	require.NoError(t, backend.Write(ctx, "history", []byte(`"history"`)))

	// assert
	catalog, err := backend.Read(ctx, "catalog")
	require.NoError(t, err)
	history, err := backend.Read(ctx, "history")
	require.NoError(t, err)
	assert.Equal(t, `"catalog"`, string(catalog))
	assert.Equal(t, `"history"`, string(history))
}

func givenBackend(t *testing.T) *sqlite.Backend {
	t.Helper()

	db, err := sqliteengine.OpenDB(filepath.Join(t.TempDir(), "collections.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	backend, err := sqlite.New(context.Background(), db)
	require.NoError(t, err)

	return backend
}
