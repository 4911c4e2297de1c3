// Package openrental implements the Open Rental use case.
//
// A single RentalOpened event makes the item unavailable, opens the rental and adds the
// "Open" entry to the rental history. The query combines three streams: the item stream,
// the events of the client and earlier openings with the same rental ID.
//
// Rental days are derived from the dates (at least one day) unless an explicit override is given,
// which is clamped to at least one day as well.
package openrental
