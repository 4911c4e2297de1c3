package clearhistory

import (
	"github.com/tabletop-rentals/rental-ledger-go/eventstore"
	"github.com/tabletop-rentals/rental-ledger-go/rental/core"
)

// Decide implements the business logic to determine whether the history should be cleared.
//
// Business Rules:
//
//	GIVEN: The rental history
//	WHEN: ClearHistory command is received
//	THEN: HistoryCleared event is generated
//	IDEMPOTENCY: If the history has no entries since the last clearing, no event generated (no-op)
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	entries := 0

	for _, event := range history {
		switch e := event.(type) {
		case core.RentalOpened:
			if !e.Imported {
				entries++
			}
		case core.RentalClosed, core.HistoryEntryImported:
			entries++
		case core.HistoryCleared:
			entries = 0
		}
	}

	if entries == 0 {
		return core.IdempotentDecision() // the history is already empty
	}

	return core.SuccessDecision(core.BuildHistoryCleared(command.OccurredAt))
}

// BuildEventFilter creates the filter for querying all events which add or clear history entries.
func BuildEventFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.RentalOpenedEventType,
			core.RentalClosedEventType,
			core.HistoryEntryImportedEventType,
			core.HistoryClearedEventType,
		).
		Finalize()
}
