package additem

import (
	"fmt"

	"github.com/tabletop-rentals/rental-ledger-go/eventstore"
	"github.com/tabletop-rentals/rental-ledger-go/rental/core"
)

// Decide implements the business logic to determine whether an item should be added to the catalog.
// This is a pure function with no side effects - it takes the current domain events and a command
// and returns the events that should be appended based on the business rules.
//
// Business Rules:
//
//	GIVEN: An item name
//	WHEN: AddItem command is received
//	THEN: ItemAddedToCatalog event is generated
//	ERROR: ErrMissingField if the name is blank
//	ERROR: ErrDuplicateName if an item with this name is in the catalog
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	if core.IsBlank(command.ItemName) {
		return core.ErrorDecision(fmt.Errorf("%w: item name", core.ErrMissingField))
	}

	if core.ProjectItem(history, command.ItemName).Exists {
		return core.ErrorDecision(fmt.Errorf("%w: item %q", core.ErrDuplicateName, command.ItemName))
	}

	return core.SuccessDecision(
		core.BuildItemAddedToCatalog(
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
