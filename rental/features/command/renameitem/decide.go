package renameitem

import (
	"fmt"

	"github.com/tabletop-rentals/rental-ledger-go/eventstore"
	"github.com/tabletop-rentals/rental-ledger-go/rental/core"
)

// Decide implements the business logic to determine whether a catalog item should be renamed.
//
// Business Rules:
//
//	GIVEN: An item in the catalog
//	WHEN: RenameItem command is received
//	THEN: ItemRenamed event is generated, carrying availability and open rental of the item
//	ERROR: ErrMissingField if either name is blank
//	ERROR: ErrNotFound if no item has the current name
//	ERROR: ErrDuplicateName if another item already has the new name
//	IDEMPOTENCY: If the new name equals the current name, no event generated (no-op)
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	if core.IsBlank(command.ItemName) {
		return core.ErrorDecision(fmt.Errorf("%w: item name", core.ErrMissingField))
	}

	if core.IsBlank(command.NewItemName) {
		return core.ErrorDecision(fmt.Errorf("%w: new item name", core.ErrMissingField))
	}

	item := core.ProjectItem(history, command.ItemName)
	if !item.Exists {
		return core.ErrorDecision(fmt.Errorf("%w: item %q", core.ErrNotFound, command.ItemName))
	}

	if command.NewItemName == command.ItemName {
		return core.IdempotentDecision()
	}

	if core.ProjectItem(history, command.NewItemName).Exists {
		return core.ErrorDecision(fmt.Errorf("%w: item %q", core.ErrDuplicateName, command.NewItemName))
	}

	return core.SuccessDecision(
		core.BuildItemRenamed(
			command.ItemName,
			command.NewItemName,
			item.Available,
			item.RentalID,
			command.OccurredAt,
		),
	)
}

// BuildEventFilter creates the filter for querying the item streams of the current and the new name.
func BuildEventFilter(itemName core.ItemNameString, newItemName core.ItemNameString) eventstore.Filter {
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
			eventstore.P("ItemName", newItemName),
			eventstore.P("NewItemName", newItemName),
		).
		Finalize()
}
