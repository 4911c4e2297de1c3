package core

import (
	"time"

	"github.com/google/uuid"
)

// RentalOpenedEventType is the event type identifier.
const RentalOpenedEventType = "RentalOpened"

// RentalOpened represents when a client rented an item.
//
// ClientDisplayName is captured at opening time, later client updates do not change it.
// Cost is RentalDays times DailyRate, except for imported rentals which keep their legacy cost.
// Imported rentals already have their history entry, so they add none.
type RentalOpened struct {
	EventType         EventTypeString
	RentalID          RentalIDString
	ClientID          ClientIDString
	ClientDisplayName string
	ItemName          ItemNameString
	StartDate         DateString
	EndDate           DateString
	RentalDays        int
	DailyRate         int
	Cost              int
	Imported          bool
	OccurredAt        OccurredAtTS
}

// RentalTerms are the agreed dates and money of a rental.
type RentalTerms struct {
	StartDate  DateString
	EndDate    DateString
	RentalDays int
	DailyRate  int
}

// BuildRentalOpened creates a new RentalOpened event.
func BuildRentalOpened(
	rentalID uuid.UUID,
	clientID string,
	clientDisplayName string,
	itemName string,
	terms RentalTerms,
	occurredAt time.Time,
) RentalOpened {

	event := RentalOpened{
		EventType:         RentalOpenedEventType,
		RentalID:          rentalID.String(),
		ClientID:          clientID,
		ClientDisplayName: clientDisplayName,
		ItemName:          itemName,
		StartDate:         terms.StartDate,
		EndDate:           terms.EndDate,
		RentalDays:        terms.RentalDays,
		DailyRate:         terms.DailyRate,
		Cost:              RentalCost(terms.RentalDays, terms.DailyRate),
		OccurredAt:        ToOccurredAt(occurredAt),
	}

	return event
}

// IsEventType returns the event type identifier.
func (e RentalOpened) IsEventType() string {
	return RentalOpenedEventType
}

// HasOccurredAt returns when this event occurred.
func (e RentalOpened) HasOccurredAt() time.Time {
	return e.OccurredAt
}
