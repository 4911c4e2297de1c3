// Package registerclient implements the Register Client use case.
//
// Client IDs are generated by the caller, so a repeated registration with the same ID is a no-op.
package registerclient
