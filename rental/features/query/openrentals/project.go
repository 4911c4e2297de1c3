package openrentals

import (
	"slices"

	"github.com/tabletop-rentals/rental-ledger-go/collection"
	"github.com/tabletop-rentals/rental-ledger-go/eventstore"
	"github.com/tabletop-rentals/rental-ledger-go/rental/core"
	"github.com/tabletop-rentals/rental-ledger-go/rental/shell/views"
)

// View returns the materialized open rentals view.
func View() views.View[Rental] {
	return views.View[Rental]{
		ID:     collection.Rentals,
		Filter: BuildEventFilter(),
		Apply:  Apply,
	}
}

// Apply folds one event into the stored open rentals.
func Apply(rentals []Rental, event core.DomainEvent) []Rental {
	switch e := event.(type) {
	case core.RentalOpened:
		return append(rentals, Rental{
			RentalID:          e.RentalID,
			ClientID:          e.ClientID,
			ClientDisplayName: e.ClientDisplayName,
			ItemName:          e.ItemName,
			StartDate:         e.StartDate,
			EndDate:           e.EndDate,
			RentalDays:        e.RentalDays,
			DailyRate:         e.DailyRate,
			Cost:              e.Cost,
		})

	case core.ItemRenamed:
		if e.RentalID == "" {
			return rentals
		}

		for i := range rentals {
			if rentals[i].RentalID == e.RentalID {
				rentals[i].ItemName = e.NewItemName
			}
		}

	case core.RentalClosed:
		return slices.DeleteFunc(rentals, func(r Rental) bool { return r.RentalID == e.RentalID })
	}

	return rentals
}

// Project returns the refreshed open rentals.
func Project(document collection.Document[Rental]) OpenRentals {
	rentals := slices.Clone(document.Records)
	if rentals == nil {
		rentals = []Rental{}
	}

	return OpenRentals{
		Rentals:        rentals,
		Count:          len(rentals),
		SequenceNumber: document.SequenceNumber,
	}
}

// BuildEventFilter creates the filter for querying all events which open, move or close rentals.
func BuildEventFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.RentalOpenedEventType,
			core.ItemRenamedEventType,
			core.RentalClosedEventType,
		).
		Finalize()
}
