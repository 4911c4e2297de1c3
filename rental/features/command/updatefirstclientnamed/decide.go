package updatefirstclientnamed

import (
	"fmt"

	"github.com/tabletop-rentals/rental-ledger-go/eventstore"
	"github.com/tabletop-rentals/rental-ledger-go/rental/core"
)

// Decide implements the business logic to determine whether and which client should be updated.
//
// Business Rules:
//
//	GIVEN: The client registry
//	WHEN: UpdateFirstClientNamed command is received
//	THEN: ClientUpdated event is generated for the first client whose display key equals MatchKey
//	ERROR: ErrMissingField if the match key or any new value is blank
//	IDEMPOTENCY: If no client matches, or the client already has these values, no event generated (no-op)
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	if err := validate(command); err != nil {
		return core.ErrorDecision(err)
	}

	for _, client := range core.ProjectClients(history) {
		if client.DisplayKey() != command.MatchKey {
			continue
		}

		if client.FirstName == command.FirstName && client.LastName == command.LastName && client.Phone == command.Phone {
			return core.IdempotentDecision()
		}

		return core.SuccessDecision(
			core.BuildClientUpdated(
				client.ClientID,
				command.FirstName,
				command.LastName,
				command.Phone,
				command.OccurredAt,
			),
		)
	}

	return core.IdempotentDecision()
}

func validate(command Command) error {
	switch {
	case core.IsBlank(command.MatchKey):
		return fmt.Errorf("%w: client name", core.ErrMissingField)
	case core.IsBlank(command.FirstName):
		return fmt.Errorf("%w: first name", core.ErrMissingField)
	case core.IsBlank(command.LastName):
		return fmt.Errorf("%w: last name", core.ErrMissingField)
	case core.IsBlank(command.Phone):
		return fmt.Errorf("%w: phone", core.ErrMissingField)
	}

	return nil
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
