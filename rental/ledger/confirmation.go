package ledger

import (
	"context"

	"github.com/tabletop-rentals/rental-ledger-go/rental/confirm"
	"github.com/tabletop-rentals/rental-ledger-go/rental/shell"
)

// Kinds of operations which need a confirmation.
const (
	KindItemRemoval         = "ItemRemoval"
	KindClientRemoval       = "ClientRemoval"
	KindClientsNamedRemoval = "ClientsNamedRemoval"
	KindHistoryClear        = "HistoryClear"
)

// Confirm runs the operation requested under token. A token works once.
func (l *Ledger) Confirm(ctx context.Context, token confirm.Token) (shell.HandlerResult, error) {
	return l.confirmations.Confirm(ctx, token)
}

// CancelConfirmation drops a requested operation. It reports whether the token was pending.
func (l *Ledger) CancelConfirmation(token confirm.Token) bool {
	return l.confirmations.Cancel(token)
}

// PendingConfirmation returns the requested operation behind token.
func (l *Ledger) PendingConfirmation(token confirm.Token) (confirm.Pending, bool) {
	return l.confirmations.Lookup(token)
}
