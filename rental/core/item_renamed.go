package core

import (
	"time"
)

// ItemRenamedEventType is the event type identifier.
const ItemRenamedEventType = "ItemRenamed"

// ItemRenamed represents when a catalog item got a new name.
//
// The event carries the availability and the open rental (if any) of the item,
// so that the item stream of the new name is self-contained and an open rental follows the rename.
type ItemRenamed struct {
	EventType   EventTypeString
	ItemName    ItemNameString
	NewItemName ItemNameString
	Available   bool
	RentalID    RentalIDString
	OccurredAt  OccurredAtTS
}

// BuildItemRenamed creates a new ItemRenamed event.
func BuildItemRenamed(
	itemName string,
	newItemName string,
	available bool,
	rentalID string,
	occurredAt time.Time,
) ItemRenamed {

	event := ItemRenamed{
		EventType:   ItemRenamedEventType,
		ItemName:    itemName,
		NewItemName: newItemName,
		Available:   available,
		RentalID:    rentalID,
		OccurredAt:  ToOccurredAt(occurredAt),
	}

	return event
}

// IsEventType returns the event type identifier.
func (e ItemRenamed) IsEventType() string {
	return ItemRenamedEventType
}

// HasOccurredAt returns when this event occurred.
func (e ItemRenamed) HasOccurredAt() time.Time {
	return e.OccurredAt
}
