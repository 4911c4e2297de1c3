package renameitem

import (
	"strings"
	"time"

	"github.com/tabletop-rentals/rental-ledger-go/rental/core"
)

const (
	commandType = "RenameItem"
)

// Command represents the intent to give a catalog item a new name.
type Command struct {
	ItemName    core.ItemNameString
	NewItemName core.ItemNameString
	OccurredAt  core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(itemName string, newItemName string, occurredAt time.Time) Command {
	return Command{
		ItemName:    strings.TrimSpace(itemName),
		NewItemName: strings.TrimSpace(newItemName),
		OccurredAt:  core.ToOccurredAt(occurredAt),
	}
}
