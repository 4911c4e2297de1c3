// Package closerental implements the Close Rental use case.
//
// Late days are either given explicitly or derived from the return date. The late fee uses the
// daily rate of the rental and falls back to the default rate for imported rentals without one.
// The query follows the rental ID, which also picks up renames of the rented item.
package closerental
