package removeclientsnamed

import (
	"fmt"

	"github.com/tabletop-rentals/rental-ledger-go/eventstore"
	"github.com/tabletop-rentals/rental-ledger-go/rental/core"
)

// Decide implements the business logic to determine which clients should be removed.
//
// Business Rules:
//
//	GIVEN: The client registry
//	WHEN: RemoveClientsNamed command is received
//	THEN: one ClientRemoved event is generated per client whose display key equals MatchKey
//	ERROR: ErrMissingField if MatchKey is blank
//	IDEMPOTENCY: If no client matches, no event generated (no-op)
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	if core.IsBlank(command.MatchKey) {
		return core.ErrorDecision(fmt.Errorf("%w: match key", core.ErrMissingField))
	}

	removed := make(core.DomainEvents, 0)

	for _, client := range core.ProjectClients(history) {
		if client.DisplayKey() == command.MatchKey {
			removed = append(removed, core.BuildClientRemoved(client.ClientID, command.OccurredAt))
		}
	}

	if len(removed) == 0 {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(removed[0], removed[1:]...)
}

// BuildEventFilter creates the filter for querying the events of all clients.
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
