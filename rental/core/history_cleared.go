package core

import (
	"time"
)

// HistoryClearedEventType is the event type identifier.
const HistoryClearedEventType = "HistoryCleared"

// HistoryCleared represents when the rental history was wiped. Entries before it are no longer listed.
type HistoryCleared struct {
	EventType  EventTypeString
	OccurredAt OccurredAtTS
}

// BuildHistoryCleared creates a new HistoryCleared event.
func BuildHistoryCleared(occurredAt time.Time) HistoryCleared {
	event := HistoryCleared{
		EventType:  HistoryClearedEventType,
		OccurredAt: ToOccurredAt(occurredAt),
	}

	return event
}

// IsEventType returns the event type identifier.
func (e HistoryCleared) IsEventType() string {
	return HistoryClearedEventType
}

// HasOccurredAt returns when this event occurred.
func (e HistoryCleared) HasOccurredAt() time.Time {
	return e.OccurredAt
}
