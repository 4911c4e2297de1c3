// Package clearhistory implements the Clear History use case.
//
// Clearing only hides the history entries appended before it. Catalog, clients and open
// rentals are untouched and the event log itself is never rewritten.
package clearhistory
