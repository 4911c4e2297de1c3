package registeredclients

import (
	"slices"

	"github.com/tabletop-rentals/rental-ledger-go/collection"
	"github.com/tabletop-rentals/rental-ledger-go/eventstore"
	"github.com/tabletop-rentals/rental-ledger-go/rental/core"
	"github.com/tabletop-rentals/rental-ledger-go/rental/shell/views"
)

// View returns the materialized client registry view.
func View() views.View[core.Client] {
	return views.View[core.Client]{
		ID:     collection.Clients,
		Filter: BuildEventFilter(),
		Apply:  core.ApplyClientEvent,
	}
}

// Project returns the refreshed client registry.
func Project(document collection.Document[core.Client]) RegisteredClients {
	clients := slices.Clone(document.Records)
	if clients == nil {
		clients = []core.Client{}
	}

	return RegisteredClients{
		Clients:        clients,
		Count:          len(clients),
		SequenceNumber: document.SequenceNumber,
	}
}

// BuildEventFilter creates the filter for querying all client events.
func BuildEventFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.ClientRegisteredEventType,
			core.ClientUpdatedEventType,
			core.ClientRemovedEventType,
		).
		Finalize()
}
