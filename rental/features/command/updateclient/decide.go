package updateclient

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/tabletop-rentals/rental-ledger-go/eventstore"
	"github.com/tabletop-rentals/rental-ledger-go/rental/core"
)

// Decide implements the business logic to determine whether a client should be updated.
//
// Business Rules:
//
//	GIVEN: A registered client
//	WHEN: UpdateClient command is received
//	THEN: ClientUpdated event is generated
//	ERROR: ErrMissingField if any value is blank
//	ERROR: ErrNotFound if the client is not registered
//	IDEMPOTENCY: If the client already has these values, no event generated (no-op)
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	if err := validate(command); err != nil {
		return core.ErrorDecision(err)
	}

	client := core.ProjectClient(history, command.ClientID.String())

	if !client.Exists {
		return core.ErrorDecision(fmt.Errorf("%w: client %s", core.ErrNotFound, command.ClientID))
	}

	if client.Equals(command.FirstName, command.LastName, command.Phone) {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(
		core.BuildClientUpdated(
			command.ClientID.String(),
			command.FirstName,
			command.LastName,
			command.Phone,
			command.OccurredAt,
		),
	)
}

func validate(command Command) error {
	switch {
	case command.ClientID == uuid.Nil:
		return fmt.Errorf("%w: client id", core.ErrMissingField)
	case core.IsBlank(command.FirstName):
		return fmt.Errorf("%w: first name", core.ErrMissingField)
	case core.IsBlank(command.LastName):
		return fmt.Errorf("%w: last name", core.ErrMissingField)
	case core.IsBlank(command.Phone):
		return fmt.Errorf("%w: phone", core.ErrMissingField)
	}

	return nil
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
