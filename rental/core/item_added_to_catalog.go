package core

import (
	"time"
)

// ItemAddedToCatalogEventType is the event type identifier.
const ItemAddedToCatalogEventType = "ItemAddedToCatalog"

// ItemAddedToCatalog represents when a board game was added to the catalog. New items are available.
type ItemAddedToCatalog struct {
	EventType  EventTypeString
	ItemName   ItemNameString
	OccurredAt OccurredAtTS
}

// BuildItemAddedToCatalog creates a new ItemAddedToCatalog event.
func BuildItemAddedToCatalog(itemName string, occurredAt time.Time) ItemAddedToCatalog {
	event := ItemAddedToCatalog{
		EventType:  ItemAddedToCatalogEventType,
		ItemName:   itemName,
		OccurredAt: ToOccurredAt(occurredAt),
	}

	return event
}

// IsEventType returns the event type identifier.
func (e ItemAddedToCatalog) IsEventType() string {
	return ItemAddedToCatalogEventType
}

// HasOccurredAt returns when this event occurred.
func (e ItemAddedToCatalog) HasOccurredAt() time.Time {
	return e.OccurredAt
}
