package core

import (
	"time"
)

// RentalClosedEventType is the event type identifier.
const RentalClosedEventType = "RentalClosed"

// RentalClosed represents when a rented item came back. The item is available again.
//
// ItemName is the name of the item at closing time, which differs from the opening event after a rename.
// ReturnedOn is empty when the late days were given explicitly.
type RentalClosed struct {
	EventType         EventTypeString
	RentalID          RentalIDString
	ClientID          ClientIDString
	ClientDisplayName string
	ItemName          ItemNameString
	EndDate           DateString
	ReturnedOn        DateString
	DailyRate         int
	LateDays          int
	BaseCost          int
	LateFee           int
	Total             int
	OccurredAt        OccurredAtTS
}

// BuildRentalClosed creates a new RentalClosed event for the given open rental.
func BuildRentalClosed(
	opened RentalOpened,
	currentItemName string,
	returnedOn string,
	lateDays int,
	occurredAt time.Time,
) RentalClosed {

	lateFee := LateFee(lateDays, opened.DailyRate)

	event := RentalClosed{
		EventType:         RentalClosedEventType,
		RentalID:          opened.RentalID,
		ClientID:          opened.ClientID,
		ClientDisplayName: opened.ClientDisplayName,
		ItemName:          currentItemName,
		EndDate:           opened.EndDate,
		ReturnedOn:        returnedOn,
		DailyRate:         opened.DailyRate,
		LateDays:          lateDays,
		BaseCost:          opened.Cost,
		LateFee:           lateFee,
		Total:             opened.Cost + lateFee,
		OccurredAt:        ToOccurredAt(occurredAt),
	}

	return event
}

// IsEventType returns the event type identifier.
func (e RentalClosed) IsEventType() string {
	return RentalClosedEventType
}

// HasOccurredAt returns when this event occurred.
func (e RentalClosed) HasOccurredAt() time.Time {
	return e.OccurredAt
}
