package removeclientsnamed

import (
	"strings"
	"time"

	"github.com/tabletop-rentals/rental-ledger-go/rental/core"
)

const (
	commandType = "RemoveClientsNamed"
)

// Command represents the intent to remove every client with the given display key.
type Command struct {
	MatchKey   string
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(matchKey string, occurredAt time.Time) Command {
	return Command{
		MatchKey:   strings.TrimSpace(matchKey),
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
