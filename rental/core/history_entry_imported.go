package core

import (
	"time"
)

// HistoryEntryImportedEventType is the event type identifier.
const HistoryEntryImportedEventType = "HistoryEntryImported"

// History entry types.
const (
	HistoryEntryOpen  = "Open"
	HistoryEntryClose = "Close"
)

// HistoryEntryImported represents one history entry taken over from the legacy data files.
// Timestamp is the original entry time in the form "2006-01-02 15:04:05".
type HistoryEntryImported struct {
	EventType         EventTypeString
	Timestamp         string
	EntryType         string
	ItemName          ItemNameString
	ClientDisplayName string
	BaseCost          int
	LateFee           int
	Total             int
	OccurredAt        OccurredAtTS
}

// BuildHistoryEntryImported creates a new HistoryEntryImported event.
func BuildHistoryEntryImported(
	timestamp string,
	entryType string,
	itemName string,
	clientDisplayName string,
	baseCost int,
	lateFee int,
	occurredAt time.Time,
) HistoryEntryImported {

	event := HistoryEntryImported{
		EventType:         HistoryEntryImportedEventType,
		Timestamp:         timestamp,
		EntryType:         entryType,
		ItemName:          itemName,
		ClientDisplayName: clientDisplayName,
		BaseCost:          baseCost,
		LateFee:           lateFee,
		Total:             baseCost + lateFee,
		OccurredAt:        ToOccurredAt(occurredAt),
	}

	return event
}

// IsEventType returns the event type identifier.
func (e HistoryEntryImported) IsEventType() string {
	return HistoryEntryImportedEventType
}

// HasOccurredAt returns when this event occurred.
func (e HistoryEntryImported) HasOccurredAt() time.Time {
	return e.OccurredAt
}
