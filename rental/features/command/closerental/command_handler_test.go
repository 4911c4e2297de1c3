package closerental_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabletop-rentals/rental-ledger-go/rental/core"
	"github.com/tabletop-rentals/rental-ledger-go/rental/features/command/closerental"
	"github.com/tabletop-rentals/rental-ledger-go/rental/features/command/openrental"
	"github.com/tabletop-rentals/rental-ledger-go/rental/features/command/renameitem"
	"github.com/tabletop-rentals/rental-ledger-go/rental/shell"
	"github.com/tabletop-rentals/rental-ledger-go/testutil/helper"
)

func Test_CommandHandler_Handle_ClosesRentalOfRenamedItem(t *testing.T) {
	// setup
	ctx := context.Background()
	es := helper.GivenSQLiteEventStore(t)
	now := time.Now()
	clientID := helper.GivenUniqueID(t)
	rentalID := helper.GivenUniqueID(t)

	// arrange
	helper.GivenEventsWereAppended(t, ctx, es,
		core.BuildItemAddedToCatalog("Catan", now.Add(-3*time.Hour)),
		core.BuildClientRegistered(clientID, "Anna", "Nowak", "123456789", now.Add(-3*time.Hour)),
	)

	_, err := openrental.NewCommandHandler(es).Handle(
		ctx,
		openrental.BuildCommand(rentalID, clientID, "Catan", "2024-03-01", "2024-03-04", 10, now.Add(-2*time.Hour)),
	)
	require.NoError(t, err)

	_, err = renameitem.NewCommandHandler(es).Handle(ctx, renameitem.BuildCommand("Catan", "Catan XL", now.Add(-time.Hour)))
	require.NoError(t, err)

	// act
	result, err := closerental.NewCommandHandler(es).Handle(
		ctx,
		closerental.BuildCommandWithReturnDate(rentalID, "2024-03-06", now),
	)

	// assert
	require.NoError(t, err)
	assert.Equal(t, 1, result.AppendedEvents)

	storableEvents, _, err := es.Query(ctx, renameitem.BuildEventFilter("Catan XL", "Catan XL"))
	require.NoError(t, err)

	history, err := shell.DomainEventsFrom(storableEvents)
	require.NoError(t, err)

	closed, ok := history[len(history)-1].(core.RentalClosed)
	require.True(t, ok, "Expected RentalClosed event")
	assert.Equal(t, "Catan XL", closed.ItemName)
	assert.Equal(t, 2, closed.LateDays)
	assert.Equal(t, 50, closed.Total)
	assert.True(t, core.ProjectItem(history, "Catan XL").Available)
}

func Test_CommandHandler_Handle_SecondCloseIsRejected(t *testing.T) {
	// setup
	ctx := context.Background()
	es := helper.GivenSQLiteEventStore(t)
	handler := closerental.NewCommandHandler(es)
	rentalID := helper.GivenUniqueID(t)

	// arrange
	terms := core.RentalTerms{StartDate: "2024-03-01", EndDate: "2024-03-02", RentalDays: 1, DailyRate: 5}
	helper.GivenEventsWereAppended(t, ctx, es,
		core.BuildRentalOpened(rentalID, helper.GivenUniqueID(t).String(), "Anna Nowak (1)", "Catan", terms, time.Now()),
	)

	_, err := handler.Handle(ctx, closerental.BuildCommandWithLateDays(rentalID, 0, time.Now()))
	require.NoError(t, err)

	// act
	_, err = handler.Handle(ctx, closerental.BuildCommandWithLateDays(rentalID, 0, time.Now()))

	// assert
	assert.ErrorIs(t, err, core.ErrNotFound)
}
