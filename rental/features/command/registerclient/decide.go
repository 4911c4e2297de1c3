package registerclient

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/tabletop-rentals/rental-ledger-go/eventstore"
	"github.com/tabletop-rentals/rental-ledger-go/rental/core"
)

// state represents the current state projected from the event history.
type state struct {
	clientWasRegistered bool
}

// Decide implements the business logic to determine whether a client should be registered.
//
// Business Rules:
//
//	GIVEN: A client with ClientID, first name, last name and phone
//	WHEN: RegisterClient command is received
//	THEN: ClientRegistered event is generated
//	ERROR: ErrMissingField if any value is blank
//	IDEMPOTENCY: If a client with this ID was ever registered, no event generated (no-op)
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	if err := validate(command); err != nil {
		return core.ErrorDecision(err)
	}

	s := project(history, command.ClientID.String())

	if s.clientWasRegistered {
		return core.IdempotentDecision() // idempotency - the ID was used before, so no new event
	}

	return core.SuccessDecision(
		core.BuildClientRegistered(
			command.ClientID,
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

// project builds the current state by replaying all events from the history.
func project(history core.DomainEvents, clientID string) state {
	s := state{}

	for _, event := range history {
		if e, ok := event.(core.ClientRegistered); ok && e.ClientID == clientID {
			s.clientWasRegistered = true
		}
	}

	return s
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
