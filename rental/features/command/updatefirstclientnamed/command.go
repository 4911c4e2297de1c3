package updatefirstclientnamed

import (
	"strings"
	"time"

	"github.com/tabletop-rentals/rental-ledger-go/rental/core"
)

const (
	commandType = "UpdateFirstClientNamed"
)

// Command represents the intent to update the first client with the given display key.
type Command struct {
	MatchKey   string
	FirstName  string
	LastName   string
	Phone      string
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	matchKey string,
	firstName string,
	lastName string,
	phone string,
	occurredAt time.Time,
) Command {

	return Command{
		MatchKey:   strings.TrimSpace(matchKey),
		FirstName:  strings.TrimSpace(firstName),
		LastName:   strings.TrimSpace(lastName),
		Phone:      strings.TrimSpace(phone),
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
