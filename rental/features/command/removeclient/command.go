package removeclient

import (
	"time"

	"github.com/google/uuid"

	"github.com/tabletop-rentals/rental-ledger-go/rental/core"
)

const (
	commandType = "RemoveClient"
)

// Command represents the intent to remove a client from the registry.
type Command struct {
	ClientID   uuid.UUID
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(clientID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		ClientID:   clientID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
