package catalogitems

import (
	"slices"
	"strings"

	"github.com/tabletop-rentals/rental-ledger-go/collection"
	"github.com/tabletop-rentals/rental-ledger-go/eventstore"
	"github.com/tabletop-rentals/rental-ledger-go/rental/core"
	"github.com/tabletop-rentals/rental-ledger-go/rental/shell/views"
)

// View returns the materialized catalog view.
func View() views.View[Item] {
	return views.View[Item]{
		ID:     collection.Catalog,
		Filter: BuildEventFilter(),
		Apply:  Apply,
	}
}

// Apply folds one event into the stored catalog.
func Apply(items []Item, event core.DomainEvent) []Item {
	switch e := event.(type) {
	case core.ItemAddedToCatalog:
		return append(items, Item{Name: e.ItemName, Available: true})

	case core.ItemRenamed:
		if i := indexOf(items, e.ItemName); i >= 0 {
			items[i] = Item{Name: e.NewItemName, Available: e.Available, RentalID: e.RentalID}
		}

	case core.ItemRemovedFromCatalog:
		return slices.DeleteFunc(items, func(item Item) bool { return item.Name == e.ItemName })

	case core.RentalOpened:
		if i := indexOf(items, e.ItemName); i >= 0 {
			items[i].Available = false
			items[i].RentalID = e.RentalID
		}

	case core.RentalClosed:
		if i := indexOf(items, e.ItemName); i >= 0 {
			items[i].Available = true
			items[i].RentalID = ""
		}
	}

	return items
}

// Project implements the query logic on top of the refreshed catalog.
//
// Query Logic:
//
//	GIVEN: The catalog view
//	WHEN: CatalogItems query is executed
//	THEN: all items in insertion order, with status Available or Rented
//	FILTER: only names containing NameFilter, compared case-insensitively
func Project(document collection.Document[Item], query Query) CatalogItems {
	needle := strings.ToLower(query.NameFilter)
	listings := make([]ItemListing, 0, len(document.Records))

	for _, item := range document.Records {
		if needle != "" && !strings.Contains(strings.ToLower(item.Name), needle) {
			continue
		}

		listings = append(listings, ItemListing{Name: item.Name, Status: statusOf(item)})
	}

	return CatalogItems{
		Items:          listings,
		Count:          len(listings),
		SequenceNumber: document.SequenceNumber,
	}
}

// BuildEventFilter creates the filter for querying all events which change the catalog.
func BuildEventFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.ItemAddedToCatalogEventType,
			core.ItemRenamedEventType,
			core.ItemRemovedFromCatalogEventType,
			core.RentalOpenedEventType,
			core.RentalClosedEventType,
		).
		Finalize()
}

func statusOf(item Item) string {
	if item.Available {
		return StatusAvailable
	}

	return StatusRented
}

func indexOf(items []Item, name string) int {
	return slices.IndexFunc(items, func(item Item) bool { return item.Name == name })
}
