package clearhistory

import (
	"time"

	"github.com/tabletop-rentals/rental-ledger-go/rental/core"
)

const (
	commandType = "ClearHistory"
)

// Command represents the intent to clear the rental history.
type Command struct {
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(occurredAt time.Time) Command {
	return Command{
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
