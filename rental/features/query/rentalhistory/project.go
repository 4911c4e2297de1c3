package rentalhistory

import (
	"slices"

	"github.com/tabletop-rentals/rental-ledger-go/collection"
	"github.com/tabletop-rentals/rental-ledger-go/eventstore"
	"github.com/tabletop-rentals/rental-ledger-go/rental/core"
	"github.com/tabletop-rentals/rental-ledger-go/rental/shell/views"
)

// View returns the materialized history view.
func View() views.View[Entry] {
	return views.View[Entry]{
		ID:     collection.History,
		Filter: BuildEventFilter(),
		Apply:  Apply,
	}
}

// Apply folds one event into the stored history.
func Apply(entries []Entry, event core.DomainEvent) []Entry {
	switch e := event.(type) {
	case core.RentalOpened:
		if e.Imported {
			return entries
		}

		return append(entries, Entry{
			Timestamp:         core.FormatTimestamp(e.OccurredAt),
			EntryType:         core.HistoryEntryOpen,
			ItemName:          e.ItemName,
			ClientDisplayName: e.ClientDisplayName,
			BaseCost:          e.Cost,
			LateFee:           0,
			Total:             e.Cost,
		})

	case core.RentalClosed:
		return append(entries, Entry{
			Timestamp:         core.FormatTimestamp(e.OccurredAt),
			EntryType:         core.HistoryEntryClose,
			ItemName:          e.ItemName,
			ClientDisplayName: e.ClientDisplayName,
			BaseCost:          e.BaseCost,
			LateFee:           e.LateFee,
			Total:             e.Total,
		})

	case core.HistoryEntryImported:
		return append(entries, Entry{
			Timestamp:         e.Timestamp,
			EntryType:         e.EntryType,
			ItemName:          e.ItemName,
			ClientDisplayName: e.ClientDisplayName,
			BaseCost:          e.BaseCost,
			LateFee:           e.LateFee,
			Total:             e.Total,
		})

	case core.HistoryCleared:
		return []Entry{}
	}

	return entries
}

// Project returns the refreshed history.
func Project(document collection.Document[Entry]) RentalHistory {
	entries := slices.Clone(document.Records)
	if entries == nil {
		entries = []Entry{}
	}

	return RentalHistory{
		Entries:        entries,
		Count:          len(entries),
		SequenceNumber: document.SequenceNumber,
	}
}

// BuildEventFilter creates the filter for querying all events which add or clear history entries.
func BuildEventFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.RentalOpenedEventType,
			core.RentalClosedEventType,
			core.HistoryEntryImportedEventType,
			core.HistoryClearedEventType,
		).
		Finalize()
}
