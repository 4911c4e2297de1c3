package openrental

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tabletop-rentals/rental-ledger-go/rental/core"
)

const (
	commandType = "OpenRental"
)

// Command represents the intent to rent an item to a client.
type Command struct {
	RentalID   uuid.UUID
	ClientID   uuid.UUID
	ItemName   core.ItemNameString
	StartDate  core.DateString
	EndDate    core.DateString
	DailyRate  int
	OccurredAt core.OccurredAtTS

	rentalDaysOverride    int
	hasRentalDaysOverride bool
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	rentalID uuid.UUID,
	clientID uuid.UUID,
	itemName string,
	startDate string,
	endDate string,
	dailyRate int,
	occurredAt time.Time,
) Command {

	return Command{
		RentalID:   rentalID,
		ClientID:   clientID,
		ItemName:   strings.TrimSpace(itemName),
		StartDate:  strings.TrimSpace(startDate),
		EndDate:    strings.TrimSpace(endDate),
		DailyRate:  dailyRate,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}

// WithRentalDaysOverride returns a copy of the command which uses the given number of rental days
// instead of deriving them from the dates.
func (c Command) WithRentalDaysOverride(days int) Command {
	c.rentalDaysOverride = days
	c.hasRentalDaysOverride = true

	return c
}

// RentalDaysOverride returns the explicit number of rental days, if one was given.
func (c Command) RentalDaysOverride() (int, bool) {
	return c.rentalDaysOverride, c.hasRentalDaysOverride
}
