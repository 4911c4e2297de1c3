package rentalhistory

import (
	"context"

	"github.com/tabletop-rentals/rental-ledger-go/rental/shell/views"
)

// QueryHandler refreshes the history view.
type QueryHandler struct {
	refresher *views.Refresher
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(refresher *views.Refresher) QueryHandler {
	return QueryHandler{refresher: refresher}
}

// Handle executes the query: Refresh -> Project.
func (h QueryHandler) Handle(ctx context.Context, _ Query) (RentalHistory, error) {
	document, err := views.Refresh(ctx, h.refresher, View())
	if err != nil {
		return RentalHistory{}, err
	}

	return Project(document), nil
}
