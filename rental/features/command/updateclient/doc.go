// Package updateclient implements the Update Client use case.
//
// Open rentals and history entries keep the display name the client had when they were created.
package updateclient
