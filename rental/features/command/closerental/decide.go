package closerental

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/tabletop-rentals/rental-ledger-go/eventstore"
	"github.com/tabletop-rentals/rental-ledger-go/rental/core"
)

// state represents the current state projected from the event history.
type state struct {
	rentalIsOpen    bool
	opened          core.RentalOpened
	currentItemName core.ItemNameString
}

// Decide implements the business logic to determine whether a rental should be closed.
//
// Business Rules:
//
//	GIVEN: An open rental
//	WHEN: CloseRental command is received
//	THEN: RentalClosed event is generated with late days, late fee and total
//	ERROR: ErrMissingField if the rental ID or the return date is missing
//	ERROR: ErrInvalidLateDays if the given late days are negative
//	ERROR: ErrInvalidDate if the return date is not YYYY-MM-DD
//	ERROR: ErrNotFound if the rental was never opened or is already closed
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	if err := validate(command); err != nil {
		return core.ErrorDecision(err)
	}

	s := project(history, command.RentalID.String())

	if !s.rentalIsOpen {
		return core.ErrorDecision(fmt.Errorf("%w: open rental %s", core.ErrNotFound, command.RentalID))
	}

	lateDays := command.LateDays
	returnedOn := ""

	if command.HasReturnDate() {
		var err error
		if lateDays, err = lateDaysFromReturnDate(s.opened, command.ReturnDate); err != nil {
			return core.ErrorDecision(err)
		}

		returnedOn = command.ReturnDate
	}

	return core.SuccessDecision(
		core.BuildRentalClosed(
			s.opened,
			s.currentItemName,
			returnedOn,
			lateDays,
			command.OccurredAt,
		),
	)
}

func validate(command Command) error {
	if command.RentalID == uuid.Nil {
		return fmt.Errorf("%w: rental id", core.ErrMissingField)
	}

	if !command.HasReturnDate() {
		if command.LateDays < 0 {
			return fmt.Errorf("%w: %d", core.ErrInvalidLateDays, command.LateDays)
		}

		return nil
	}

	if core.IsBlank(command.ReturnDate) {
		return fmt.Errorf("%w: return date", core.ErrMissingField)
	}

	_, err := core.ParseDate(command.ReturnDate)

	return err
}

func lateDaysFromReturnDate(opened core.RentalOpened, returnDate core.DateString) (int, error) {
	end, err := core.ParseDate(opened.EndDate)
	if err != nil {
		return 0, err
	}

	returned, err := core.ParseDate(returnDate)
	if err != nil {
		return 0, err
	}

	return core.LateDaysUntil(end, returned), nil
}

// project builds the current state by replaying all events from the history.
func project(history core.DomainEvents, rentalID string) state {
	s := state{}

	for _, event := range history {
		switch e := event.(type) {
		case core.RentalOpened:
			if e.RentalID == rentalID {
				s = state{rentalIsOpen: true, opened: e, currentItemName: e.ItemName}
			}

		case core.ItemRenamed:
			if e.RentalID == rentalID && s.rentalIsOpen {
				s.currentItemName = e.NewItemName
			}

		case core.RentalClosed:
			if e.RentalID == rentalID {
				s.rentalIsOpen = false
			}
		}
	}

	return s
}

// BuildEventFilter creates the filter for querying all events which carry the rental ID:
// the opening, renames of the rented item and the closing.
func BuildEventFilter(rentalID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(eventstore.P("RentalID", rentalID.String())).
		Finalize()
}
