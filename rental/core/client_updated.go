package core

import (
	"time"
)

// ClientUpdatedEventType is the event type identifier.
const ClientUpdatedEventType = "ClientUpdated"

// ClientUpdated represents when the name or phone number of a client changed.
// It always carries all three fields, the new values replace the old ones.
type ClientUpdated struct {
	EventType  EventTypeString
	ClientID   ClientIDString
	FirstName  string
	LastName   string
	Phone      string
	OccurredAt OccurredAtTS
}

// BuildClientUpdated creates a new ClientUpdated event.
func BuildClientUpdated(
	clientID string,
	firstName string,
	lastName string,
	phone string,
	occurredAt time.Time,
) ClientUpdated {

	event := ClientUpdated{
		EventType:  ClientUpdatedEventType,
		ClientID:   clientID,
		FirstName:  firstName,
		LastName:   lastName,
		Phone:      phone,
		OccurredAt: ToOccurredAt(occurredAt),
	}

	return event
}

// IsEventType returns the event type identifier.
func (e ClientUpdated) IsEventType() string {
	return ClientUpdatedEventType
}

// HasOccurredAt returns when this event occurred.
func (e ClientUpdated) HasOccurredAt() time.Time {
	return e.OccurredAt
}
