package ledger

import (
	"context"

	"github.com/tabletop-rentals/rental-ledger-go/rental/confirm"
	"github.com/tabletop-rentals/rental-ledger-go/rental/features/command/clearhistory"
	"github.com/tabletop-rentals/rental-ledger-go/rental/features/query/rentalhistory"
	"github.com/tabletop-rentals/rental-ledger-go/rental/shell"
)

// History lists the history entries since the last clearing, in append order.
func (l *Ledger) History(ctx context.Context) (rentalhistory.RentalHistory, error) {
	return l.rentalHistory.Handle(ctx, rentalhistory.BuildQuery())
}

// RequestHistoryClear returns the token which confirms clearing the history.
// Catalog, clients and open rentals stay untouched. Confirming an empty history is a no-op.
func (l *Ledger) RequestHistoryClear(_ context.Context) (confirm.Pending, error) {
	return l.confirmations.Request(KindHistoryClear, "", func(ctx context.Context) (shell.HandlerResult, error) {
		result, err := l.clearHistory.Handle(ctx, clearhistory.BuildCommand(l.now()))

		return result, storageError(err)
	})
}
