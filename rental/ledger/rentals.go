package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/tabletop-rentals/rental-ledger-go/rental/features/command/closerental"
	"github.com/tabletop-rentals/rental-ledger-go/rental/features/command/openrental"
	"github.com/tabletop-rentals/rental-ledger-go/rental/features/query/catalogitems"
	"github.com/tabletop-rentals/rental-ledger-go/rental/features/query/openrentals"
	"github.com/tabletop-rentals/rental-ledger-go/rental/shell"
)

// OpenRentalRequest holds the input of OpenRental. RentalDaysOverride replaces the days derived from the dates.
type OpenRentalRequest struct {
	ClientID           uuid.UUID
	ItemName           string
	StartDate          string
	EndDate            string
	DailyRate          int
	RentalDaysOverride *int
}

// OpenRental rents an available item to a registered client and returns the new rental ID.
func (l *Ledger) OpenRental(ctx context.Context, request OpenRentalRequest) (uuid.UUID, shell.HandlerResult, error) {
	rentalID, err := l.newID()
	if err != nil {
		return uuid.Nil, shell.HandlerResult{}, errors.Join(ErrGeneratingIDFailed, err)
	}

	command := openrental.BuildCommand(
		rentalID,
		request.ClientID,
		request.ItemName,
		request.StartDate,
		request.EndDate,
		request.DailyRate,
		l.now(),
	)

	if request.RentalDaysOverride != nil {
		command = command.WithRentalDaysOverride(*request.RentalDaysOverride)
	}

	result, err := l.openRental.Handle(ctx, command)
	if err != nil {
		return uuid.Nil, result, storageError(err)
	}

	return rentalID, result, nil
}

// CloseRentalWithLateDays closes an open rental with an explicit number of late days.
func (l *Ledger) CloseRentalWithLateDays(ctx context.Context, rentalID uuid.UUID, lateDays int) (shell.HandlerResult, error) {
	result, err := l.closeRental.Handle(ctx, closerental.BuildCommandWithLateDays(rentalID, lateDays, l.now()))

	return result, storageError(err)
}

// CloseRentalWithReturnDate closes an open rental, the late days are the days from its end date to returnDate.
func (l *Ledger) CloseRentalWithReturnDate(
	ctx context.Context,
	rentalID uuid.UUID,
	returnDate string,
) (shell.HandlerResult, error) {

	result, err := l.closeRental.Handle(ctx, closerental.BuildCommandWithReturnDate(rentalID, returnDate, l.now()))

	return result, storageError(err)
}

// OpenRentals lists the open rentals in opening order.
func (l *Ledger) OpenRentals(ctx context.Context) (openrentals.OpenRentals, error) {
	return l.openRentals.Handle(ctx, openrentals.BuildQuery())
}

// ReturnableRentals lists the open rentals whose item is flagged as rented in the catalog.
func (l *Ledger) ReturnableRentals(ctx context.Context) ([]openrentals.Rental, error) {
	catalog, err := l.catalogItems.Handle(ctx, catalogitems.BuildQuery(""))
	if err != nil {
		return nil, err
	}

	rented := make(map[string]bool, len(catalog.Items))
	for _, item := range catalog.Items {
		if item.Status == catalogitems.StatusRented {
			rented[item.Name] = true
		}
	}

	rentals, err := l.openRentals.Handle(ctx, openrentals.BuildQuery())
	if err != nil {
		return nil, err
	}

	returnable := make([]openrentals.Rental, 0, len(rentals.Rentals))
	for _, rental := range rentals.Rentals {
		if rented[rental.ItemName] {
			returnable = append(returnable, rental)
		}
	}

	return returnable, nil
}
