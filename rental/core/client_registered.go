package core

import (
	"time"

	"github.com/google/uuid"
)

// ClientRegisteredEventType is the event type identifier.
const ClientRegisteredEventType = "ClientRegistered"

// ClientRegistered represents when a new client was registered.
type ClientRegistered struct {
	EventType  EventTypeString
	ClientID   ClientIDString
	FirstName  string
	LastName   string
	Phone      string
	OccurredAt OccurredAtTS
}

// BuildClientRegistered creates a new ClientRegistered event.
func BuildClientRegistered(
	clientID uuid.UUID,
	firstName string,
	lastName string,
	phone string,
	occurredAt time.Time,
) ClientRegistered {

	event := ClientRegistered{
		EventType:  ClientRegisteredEventType,
		ClientID:   clientID.String(),
		FirstName:  firstName,
		LastName:   lastName,
		Phone:      phone,
		OccurredAt: ToOccurredAt(occurredAt),
	}

	return event
}

// IsEventType returns the event type identifier.
func (e ClientRegistered) IsEventType() string {
	return ClientRegisteredEventType
}

// HasOccurredAt returns when this event occurred.
func (e ClientRegistered) HasOccurredAt() time.Time {
	return e.OccurredAt
}
