package removeitem

import (
	"fmt"

	"github.com/tabletop-rentals/rental-ledger-go/eventstore"
	"github.com/tabletop-rentals/rental-ledger-go/rental/core"
)

// Decide implements the business logic to determine whether an item should be removed from the catalog.
//
// Business Rules:
//
//	GIVEN: An item in the catalog
//	WHEN: RemoveItem command is received
//	THEN: ItemRemovedFromCatalog event is generated
//	ERROR: ErrMissingField if the name is blank
//	ERROR: ErrNotFound if no item has this name
//	ERROR: ErrItemInUse if the item is rented out
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	if core.IsBlank(command.ItemName) {
		return core.ErrorDecision(fmt.Errorf("%w: item name", core.ErrMissingField))
	}

	item := core.ProjectItem(history, command.ItemName)

	if !item.Exists {
		return core.ErrorDecision(fmt.Errorf("%w: item %q", core.ErrNotFound, command.ItemName))
	}

	if !item.Available {
		return core.ErrorDecision(fmt.Errorf("%w: item %q is rented out", core.ErrItemInUse, command.ItemName))
	}

	return core.SuccessDecision(
		core.BuildItemRemovedFromCatalog(
			command.ItemName,
			command.OccurredAt,
		),
	)
}

// BuildEventFilter creates the filter for querying all events of the item stream with the given name.
func BuildEventFilter(itemName core.ItemNameString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.ItemAddedToCatalogEventType,
			core.ItemRenamedEventType,
			core.ItemRemovedFromCatalogEventType,
			core.RentalOpenedEventType,
			core.RentalClosedEventType,
		).
		AndAnyPredicateOf(
			eventstore.P("ItemName", itemName),
			eventstore.P("NewItemName", itemName),
		).
		Finalize()
}
