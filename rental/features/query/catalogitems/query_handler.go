package catalogitems

import (
	"context"

	"github.com/tabletop-rentals/rental-ledger-go/rental/shell/views"
)

// QueryHandler refreshes the catalog view and projects the listing.
// Observability is added by wrapping it with observable.NewQueryWrapper.
type QueryHandler struct {
	refresher *views.Refresher
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(refresher *views.Refresher) QueryHandler {
	return QueryHandler{refresher: refresher}
}

// Handle executes the query: Refresh -> Project.
func (h QueryHandler) Handle(ctx context.Context, query Query) (CatalogItems, error) {
	// Refresh phase
	document, err := views.Refresh(ctx, h.refresher, View())
	if err != nil {
		return CatalogItems{}, err
	}

	// Projection phase
	return Project(document, query), nil
}
