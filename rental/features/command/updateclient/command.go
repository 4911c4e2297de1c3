package updateclient

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tabletop-rentals/rental-ledger-go/rental/core"
)

const (
	commandType = "UpdateClient"
)

// Command represents the intent to replace the name and phone of a registered client.
type Command struct {
	ClientID   uuid.UUID
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
	clientID uuid.UUID,
	firstName string,
	lastName string,
	phone string,
	occurredAt time.Time,
) Command {

	return Command{
		ClientID:   clientID,
		FirstName:  strings.TrimSpace(firstName),
		LastName:   strings.TrimSpace(lastName),
		Phone:      strings.TrimSpace(phone),
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
