// Package rentalhistory implements the Rental History query use case.
//
// The history lists one "Open" entry per opened rental and one "Close" entry per closed rental,
// plus the entries taken over from the legacy data files, in append order. Clearing the history
// drops all entries before it.
package rentalhistory
