package registeredclients

import (
	"github.com/tabletop-rentals/rental-ledger-go/rental/core"
)

// RegisteredClients represents the query result containing all current clients in registration order.
type RegisteredClients struct {
	Clients        []core.Client
	Count          int
	SequenceNumber uint
}

// GetSequenceNumber returns the highest event sequence number reflected in the result.
func (r RegisteredClients) GetSequenceNumber() uint {
	return r.SequenceNumber
}
