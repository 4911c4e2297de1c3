// Package openrentals implements the Open Rentals query use case.
//
// Open rentals are listed in opening order. A rental follows renames of its item.
package openrentals
