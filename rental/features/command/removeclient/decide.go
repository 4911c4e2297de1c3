package removeclient

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/tabletop-rentals/rental-ledger-go/eventstore"
	"github.com/tabletop-rentals/rental-ledger-go/rental/core"
)

// Decide implements the business logic to determine whether a client should be removed.
// Open rentals of the client stay open and keep the client's display name.
//
// Business Rules:
//
//	GIVEN: A registered client
//	WHEN: RemoveClient command is received
//	THEN: ClientRemoved event is generated
//	ERROR: ErrNotFound if the client is not registered
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	if !core.ProjectClient(history, command.ClientID.String()).Exists {
		return core.ErrorDecision(fmt.Errorf("%w: client %s", core.ErrNotFound, command.ClientID))
	}

	return core.SuccessDecision(
		core.BuildClientRemoved(
			command.ClientID.String(),
			command.OccurredAt,
		),
	)
}

// BuildEventFilter creates the filter for querying all events of the client.
func BuildEventFilter(clientID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.ClientRegisteredEventType,
			core.ClientUpdatedEventType,
			core.ClientRemovedEventType,
		).
		AndAnyPredicateOf(eventstore.P("ClientID", clientID.String())).
		Finalize()
}
