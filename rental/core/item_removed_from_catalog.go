package core

import (
	"time"
)

// ItemRemovedFromCatalogEventType is the event type identifier.
const ItemRemovedFromCatalogEventType = "ItemRemovedFromCatalog"

// ItemRemovedFromCatalog represents when a board game was removed from the catalog.
type ItemRemovedFromCatalog struct {
	EventType  EventTypeString
	ItemName   ItemNameString
	OccurredAt OccurredAtTS
}

// BuildItemRemovedFromCatalog creates a new ItemRemovedFromCatalog event.
func BuildItemRemovedFromCatalog(itemName string, occurredAt time.Time) ItemRemovedFromCatalog {
	event := ItemRemovedFromCatalog{
		EventType:  ItemRemovedFromCatalogEventType,
		ItemName:   itemName,
		OccurredAt: ToOccurredAt(occurredAt),
	}

	return event
}

// IsEventType returns the event type identifier.
func (e ItemRemovedFromCatalog) IsEventType() string {
	return ItemRemovedFromCatalogEventType
}

// HasOccurredAt returns when this event occurred.
func (e ItemRemovedFromCatalog) HasOccurredAt() time.Time {
	return e.OccurredAt
}
