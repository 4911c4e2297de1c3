package ledger

import (
	"context"

	"github.com/tabletop-rentals/rental-ledger-go/rental/confirm"
	"github.com/tabletop-rentals/rental-ledger-go/rental/core"
	"github.com/tabletop-rentals/rental-ledger-go/rental/features/command/additem"
	"github.com/tabletop-rentals/rental-ledger-go/rental/features/command/removeitem"
	"github.com/tabletop-rentals/rental-ledger-go/rental/features/command/renameitem"
	"github.com/tabletop-rentals/rental-ledger-go/rental/features/query/catalogitems"
	"github.com/tabletop-rentals/rental-ledger-go/rental/shell"
)

// AddItem adds an available item to the catalog.
func (l *Ledger) AddItem(ctx context.Context, itemName string) (shell.HandlerResult, error) {
	result, err := l.addItem.Handle(ctx, additem.BuildCommand(itemName, l.now()))

	return result, storageError(err)
}

// RenameItem renames an item, an open rental of the item follows the rename.
func (l *Ledger) RenameItem(ctx context.Context, itemName string, newItemName string) (shell.HandlerResult, error) {
	result, err := l.renameItem.Handle(ctx, renameitem.BuildCommand(itemName, newItemName, l.now()))

	return result, storageError(err)
}

// RequestItemRemoval checks that the item can be removed and returns the token which confirms the removal.
func (l *Ledger) RequestItemRemoval(ctx context.Context, itemName string) (confirm.Pending, error) {
	command := removeitem.BuildCommand(itemName, l.now())

	err := l.precheck(ctx, removeitem.BuildEventFilter(command.ItemName), func(history core.DomainEvents) core.DecisionResult {
		return removeitem.Decide(history, command)
	})
	if err != nil {
		return confirm.Pending{}, err
	}

	return l.confirmations.Request(KindItemRemoval, command.ItemName, func(ctx context.Context) (shell.HandlerResult, error) {
		result, handleErr := l.removeItem.Handle(ctx, removeitem.BuildCommand(command.ItemName, l.now()))

		return result, storageError(handleErr)
	})
}

// ListItems lists the catalog in insertion order. A non-empty nameFilter keeps the names which contain it,
// ignoring case.
func (l *Ledger) ListItems(ctx context.Context, nameFilter string) (catalogitems.CatalogItems, error) {
	return l.catalogItems.Handle(ctx, catalogitems.BuildQuery(nameFilter))
}
