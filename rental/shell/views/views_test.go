package views_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabletop-rentals/rental-ledger-go/collection"
	"github.com/tabletop-rentals/rental-ledger-go/eventstore"
	"github.com/tabletop-rentals/rental-ledger-go/rental/core"
	"github.com/tabletop-rentals/rental-ledger-go/rental/shell"
	"github.com/tabletop-rentals/rental-ledger-go/rental/shell/views"
	"github.com/tabletop-rentals/rental-ledger-go/testutil/helper"
	"github.com/tabletop-rentals/rental-ledger-go/testutil/observability/testdoubles"
)

func Test_Refresh_AppliesOnlyNewEventsAndStoresTheSequenceNumber(t *testing.T) {
	// setup
	ctx := context.Background()
	es := helper.GivenSQLiteEventStore(t)
	store, backend := helper.GivenMemoryCollectionStore(t)
	refresher, err := views.NewRefresher(es, store)
	require.NoError(t, err)

	// arrange
	now := time.Now()
	helper.GivenEventsWereAppended(t, ctx, es,
		core.BuildItemAddedToCatalog("Catan", now),
		core.BuildClientRegistered(helper.GivenUniqueID(t), "Anna", "Nowak", "123", now),
		core.BuildItemAddedToCatalog("Carcassonne", now),
	)

	first, err := views.Refresh(ctx, refresher, itemNamesView())
	require.NoError(t, err)
	writesAfterFirstRefresh := backend.Writes()

	helper.GivenEventsWereAppended(t, ctx, es, core.BuildItemAddedToCatalog("Azul", now))

	// act
	second, err := views.Refresh(ctx, refresher, itemNamesView())
	require.NoError(t, err)
	third, err := views.Refresh(ctx, refresher, itemNamesView())
	require.NoError(t, err)

	// assert
	assert.Equal(t, []string{"Catan", "Carcassonne"}, first.Records)
	assert.Equal(t, uint(3), first.SequenceNumber)
	assert.Equal(t, []string{"Catan", "Carcassonne", "Azul"}, second.Records)
	assert.Equal(t, uint(4), second.SequenceNumber)
	assert.Equal(t, second, third)
	assert.Equal(t, writesAfterFirstRefresh+1, backend.Writes(), "a refresh without new events must not write")
}

func Test_Refresh_RebuildsCorruptViewFromTheLog(t *testing.T) {
	// setup
	ctx := context.Background()
	es := helper.GivenSQLiteEventStore(t)
	logSpy := testdoubles.NewLogHandlerSpy(false)
	metrics := testdoubles.NewMetricsCollectorSpy()
	store, backend := helper.GivenMemoryCollectionStore(t)
	refresher, err := views.NewRefresher(es, store, views.WithLogging(logSpy.Logger()), views.WithMetrics(metrics))
	require.NoError(t, err)

	// arrange
	helper.GivenEventsWereAppended(t, ctx, es, core.BuildItemAddedToCatalog("Catan", time.Now()))
	require.NoError(t, backend.Write(ctx, string(collection.Catalog), []byte("{not json")))

	// act
	document, err := views.Refresh(ctx, refresher, itemNamesView())

	// assert
	require.NoError(t, err)
	assert.Equal(t, []string{"Catan"}, document.Records)
	assert.True(t, logSpy.HasLog(slog.LevelWarn, shell.LogMsgViewRebuilt))
	assert.True(t, metrics.HasCounter(shell.ViewRebuildsMetric, map[string]string{shell.LogAttrView: "catalog"}))

	stored, err := collection.Load[string](ctx, store, collection.Catalog)
	require.NoError(t, err)
	assert.Equal(t, document, stored)
}

func Test_Refresh_SaveFailureIsOnlyAWarning(t *testing.T) {
	// setup
	ctx := context.Background()
	es := helper.GivenSQLiteEventStore(t)
	logSpy := testdoubles.NewLogHandlerSpy(false)
	store, backend := helper.GivenMemoryCollectionStore(t, collection.WithWriteRetry(1, time.Millisecond))
	refresher, err := views.NewRefresher(es, store, views.WithLogging(logSpy.Logger()))
	require.NoError(t, err)

	// arrange
	helper.GivenEventsWereAppended(t, ctx, es, core.BuildItemAddedToCatalog("Catan", time.Now()))
	backend.FailNextWrites(1)

	// act
	document, err := views.Refresh(ctx, refresher, itemNamesView())

	// assert
	require.NoError(t, err)
	assert.Equal(t, []string{"Catan"}, document.Records)
	assert.True(t, logSpy.HasLog(slog.LevelWarn, shell.LogMsgViewSaveFailed))
}

func Test_NewRefresher_RejectsMissingDependencies(t *testing.T) {
	// act
	_, err := views.NewRefresher(nil, nil)

	// assert
	assert.ErrorIs(t, err, views.ErrNilDependency)
}

func itemNamesView() views.View[string] {
	return views.View[string]{
		ID: collection.Catalog,
		Filter: eventstore.BuildEventFilter().
			Matching().
			AnyEventTypeOf(core.ItemAddedToCatalogEventType).
			Finalize(),
		Apply: func(records []string, event core.DomainEvent) []string {
			if e, ok := event.(core.ItemAddedToCatalog); ok {
				return append(records, e.ItemName)
			}

			return records
		},
	}
}
