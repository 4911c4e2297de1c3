package rentalhistory_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/tabletop-rentals/rental-ledger-go/rental/core"
	"github.com/tabletop-rentals/rental-ledger-go/rental/features/query/rentalhistory"
)

func Test_Apply_BuildsEntriesInAppendOrder(t *testing.T) {
	// arrange
	openedAt := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	closedAt := time.Date(2024, 3, 6, 17, 5, 9, 0, time.UTC)

	terms := core.RentalTerms{StartDate: "2024-03-01", EndDate: "2024-03-04", RentalDays: 3, DailyRate: 10}
	opened := core.BuildRentalOpened(uuid.New(), uuid.NewString(), "Anna Nowak (1)", "Catan", terms, openedAt)

	events := core.DomainEvents{
		core.BuildHistoryEntryImported("2023-12-24 18:00:00", core.HistoryEntryClose, "Azul", "Jan Kowalski (2)", 20, 5, openedAt),
		opened,
		core.BuildRentalClosed(opened, "Catan XL", "2024-03-06", 2, closedAt),
	}

	// act
	entries := applyAll(events)

	// assert
	assert.Equal(t, []rentalhistory.Entry{
		{Timestamp: "2023-12-24 18:00:00", EntryType: "Close", ItemName: "Azul", ClientDisplayName: "Jan Kowalski (2)", BaseCost: 20, LateFee: 5, Total: 25},
		{Timestamp: "2024-03-01 09:30:00", EntryType: "Open", ItemName: "Catan", ClientDisplayName: "Anna Nowak (1)", BaseCost: 30, LateFee: 0, Total: 30},
		{Timestamp: "2024-03-06 17:05:09", EntryType: "Close", ItemName: "Catan XL", ClientDisplayName: "Anna Nowak (1)", BaseCost: 30, LateFee: 20, Total: 50},
	}, entries)
}

func Test_Apply_ClearingDropsEarlierEntries(t *testing.T) {
	// arrange
	now := time.Now()
	terms := core.RentalTerms{StartDate: "2024-03-01", EndDate: "2024-03-04", RentalDays: 3, DailyRate: 10}
	opened := core.BuildRentalOpened(uuid.New(), uuid.NewString(), "Anna Nowak (1)", "Catan", terms, now)

	events := core.DomainEvents{
		opened,
		core.BuildHistoryCleared(now),
		core.BuildRentalClosed(opened, "Catan", "", 0, now),
	}

	// act
	entries := applyAll(events)

	// assert
	assert.Len(t, entries, 1)
	assert.Equal(t, core.HistoryEntryClose, entries[0].EntryType)
}

func Test_Apply_ImportedRentalAddsNoEntry(t *testing.T) {
	// arrange
	terms := core.RentalTerms{StartDate: "2023-12-20", EndDate: "2023-12-27", RentalDays: 7}
	opened := core.BuildRentalOpened(uuid.New(), "", "Jan Kowalski (2)", "Azul", terms, time.Now())
	opened.Imported = true

	// act
	entries := applyAll(core.DomainEvents{opened})

	// assert
	assert.Empty(t, entries)
}

func applyAll(events core.DomainEvents) []rentalhistory.Entry {
	entries := make([]rentalhistory.Entry, 0)
	for _, event := range events {
		entries = rentalhistory.Apply(entries, event)
	}

	return entries
}
