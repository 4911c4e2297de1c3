package openrental

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/tabletop-rentals/rental-ledger-go/eventstore"
	"github.com/tabletop-rentals/rental-ledger-go/rental/core"
)

// state represents the current state projected from the event history.
type state struct {
	rentalWasOpened bool
	client          core.ClientState
	item            core.ItemState
}

// Decide implements the business logic to determine whether a rental should be opened.
//
// Business Rules:
//
//	GIVEN: A registered client and an available catalog item
//	WHEN: OpenRental command is received
//	THEN: RentalOpened event is generated with rental days, daily rate and cost
//	ERROR: ErrMissingField if item name, client ID, start or end date is missing
//	ERROR: ErrInvalidDate if a date is not YYYY-MM-DD
//	ERROR: ErrInvalidDailyRate if the daily rate is below 1
//	ERROR: ErrNotFound if the client is not registered
//	ERROR: ErrItemUnavailable if the item is not in the catalog or rented out
//	IDEMPOTENCY: If a rental with this ID was already opened, no event generated (no-op)
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	rentalDays, err := validate(command)
	if err != nil {
		return core.ErrorDecision(err)
	}

	s := project(history, command)

	if s.rentalWasOpened {
		return core.IdempotentDecision() // idempotency - the rental exists, so no new event
	}

	if !s.client.Exists {
		return core.ErrorDecision(fmt.Errorf("%w: client %s", core.ErrNotFound, command.ClientID))
	}

	if !s.item.Exists || !s.item.Available {
		return core.ErrorDecision(fmt.Errorf("%w: item %q", core.ErrItemUnavailable, command.ItemName))
	}

	return core.SuccessDecision(
		core.BuildRentalOpened(
			command.RentalID,
			command.ClientID.String(),
			s.client.DisplayName(),
			command.ItemName,
			core.RentalTerms{
				StartDate:  command.StartDate,
				EndDate:    command.EndDate,
				RentalDays: rentalDays,
				DailyRate:  command.DailyRate,
			},
			command.OccurredAt,
		),
	)
}

// validate checks the input and returns the number of rental days.
func validate(command Command) (int, error) {
	switch {
	case core.IsBlank(command.ItemName):
		return 0, fmt.Errorf("%w: item name", core.ErrMissingField)
	case command.ClientID == uuid.Nil:
		return 0, fmt.Errorf("%w: client id", core.ErrMissingField)
	case core.IsBlank(command.StartDate):
		return 0, fmt.Errorf("%w: start date", core.ErrMissingField)
	case core.IsBlank(command.EndDate):
		return 0, fmt.Errorf("%w: end date", core.ErrMissingField)
	}

	start, err := core.ParseDate(command.StartDate)
	if err != nil {
		return 0, err
	}

	end, err := core.ParseDate(command.EndDate)
	if err != nil {
		return 0, err
	}

	if command.DailyRate < 1 {
		return 0, fmt.Errorf("%w: %d", core.ErrInvalidDailyRate, command.DailyRate)
	}

	if days, ok := command.RentalDaysOverride(); ok {
		return core.ClampRentalDays(days), nil
	}

	return core.RentalDays(start, end), nil
}

// project builds the current state by replaying all events from the history.
func project(history core.DomainEvents, command Command) state {
	s := state{
		client: core.ProjectClient(history, command.ClientID.String()),
		item:   core.ProjectItem(history, command.ItemName),
	}

	for _, event := range history {
		if e, ok := event.(core.RentalOpened); ok && e.RentalID == command.RentalID.String() {
			s.rentalWasOpened = true
		}
	}

	return s
}

// BuildEventFilter creates the filter for querying the item stream, the events of the client
// and earlier openings of the rental.
func BuildEventFilter(itemName core.ItemNameString, clientID uuid.UUID, rentalID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.ItemAddedToCatalogEventType,
			core.ItemRenamedEventType,
			core.ItemRemovedFromCatalogEventType,
			core.RentalOpenedEventType,
			core.RentalClosedEventType,
		).
		AndAnyPredicateOf(
			eventstore.P("ItemName", itemName),
			eventstore.P("NewItemName", itemName),
		).
		OrMatching().
		AnyEventTypeOf(
			core.ClientRegisteredEventType,
			core.ClientUpdatedEventType,
			core.ClientRemovedEventType,
		).
		AndAnyPredicateOf(eventstore.P("ClientID", clientID.String())).
		OrMatching().
		AnyEventTypeOf(core.RentalOpenedEventType).
		AndAnyPredicateOf(eventstore.P("RentalID", rentalID.String())).
		Finalize()
}
