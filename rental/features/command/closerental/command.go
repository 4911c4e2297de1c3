package closerental

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tabletop-rentals/rental-ledger-go/rental/core"
)

const (
	commandType = "CloseRental"
)

// Command represents the intent to close an open rental because the item came back.
// Exactly one of LateDays or ReturnDate is used, see HasReturnDate.
type Command struct {
	RentalID   uuid.UUID
	LateDays   int
	ReturnDate core.DateString
	OccurredAt core.OccurredAtTS

	hasReturnDate bool
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// HasReturnDate reports whether the late days must be derived from ReturnDate.
func (c Command) HasReturnDate() bool {
	return c.hasReturnDate
}

// BuildCommandWithLateDays creates a new Command with an explicit number of late days.
func BuildCommandWithLateDays(rentalID uuid.UUID, lateDays int, occurredAt time.Time) Command {
	return Command{
		RentalID:   rentalID,
		LateDays:   lateDays,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}

// BuildCommandWithReturnDate creates a new Command which derives the late days from the return date.
func BuildCommandWithReturnDate(rentalID uuid.UUID, returnDate string, occurredAt time.Time) Command {
	return Command{
		RentalID:      rentalID,
		ReturnDate:    strings.TrimSpace(returnDate),
		OccurredAt:    core.ToOccurredAt(occurredAt),
		hasReturnDate: true,
	}
}
