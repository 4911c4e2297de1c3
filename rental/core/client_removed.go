package core

import (
	"time"
)

// ClientRemovedEventType is the event type identifier.
const ClientRemovedEventType = "ClientRemoved"

// ClientRemoved represents when a client was removed from the client registry.
type ClientRemoved struct {
	EventType  EventTypeString
	ClientID   ClientIDString
	OccurredAt OccurredAtTS
}

// BuildClientRemoved creates a new ClientRemoved event.
func BuildClientRemoved(clientID string, occurredAt time.Time) ClientRemoved {
	event := ClientRemoved{
		EventType:  ClientRemovedEventType,
		ClientID:   clientID,
		OccurredAt: ToOccurredAt(occurredAt),
	}

	return event
}

// IsEventType returns the event type identifier.
func (e ClientRemoved) IsEventType() string {
	return ClientRemovedEventType
}

// HasOccurredAt returns when this event occurred.
func (e ClientRemoved) HasOccurredAt() time.Time {
	return e.OccurredAt
}
