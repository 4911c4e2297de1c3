package core

import (
	"time"
)

// Instead of implementing full value objects, I'm using some alias types and helper methods here ...

// EventTypeString is the identifier of a domain event type.
type EventTypeString = string

// ItemNameString is the unique name of a catalog item.
type ItemNameString = string

// ClientIDString is the stable identifier (UUID v7) of a client.
type ClientIDString = string

// RentalIDString is the stable identifier (UUID v7) of a rental.
type RentalIDString = string

// DateString is a civil date in the form YYYY-MM-DD.
type DateString = string

// OccurredAtTS represents when an event occurred.
type OccurredAtTS = time.Time

// ToOccurredAt converts a time to OccurredAtTS with UTC normalization and microsecond precision.
func ToOccurredAt(t time.Time) OccurredAtTS {
	return t.UTC().Truncate(time.Microsecond)
}
