package additem

import (
	"strings"
	"time"

	"github.com/tabletop-rentals/rental-ledger-go/rental/core"
)

const (
	commandType = "AddItem"
)

// Command represents the intent to add a new item to the catalog.
type Command struct {
	ItemName   core.ItemNameString
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(itemName string, occurredAt time.Time) Command {
	return Command{
		ItemName:   strings.TrimSpace(itemName),
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
