// Package ledger exposes every operation of the rental ledger behind one type.
//
// A Ledger owns the command handlers, the query handlers, the confirmation registry for destructive
// operations, a clock and an ID generator. Callers like the rentalctl command only talk to a Ledger
// and only need this package to match errors.
//
// Destructive operations (removing items or clients, clearing the history) take two calls:
//
//	pending, err := l.RequestItemRemoval(ctx, "Catan") // validates, changes nothing
//	result, err := l.Confirm(ctx, pending.Token)       // removes the item
package ledger
