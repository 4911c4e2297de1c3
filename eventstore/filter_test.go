package eventstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tabletop-rentals/rental-ledger-go/eventstore"
)

//nolint:funlen
func Test_FilterBuilder_ValidCombinations(t *testing.T) {
	tests := []struct {
		name     string
		build    func() eventstore.Filter
		validate func(t *testing.T, filter eventstore.Filter)
	}{
		{
			name: "matching_any_event_creates_empty_filter",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().MatchingAnyEvent()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.Empty(t, f.Items())
				assert.True(t, f.MatchesAnyEvent())
				assert.Equal(t, uint(0), f.SequenceNumberHigherThan())
			},
		},
		{
			name: "single_event_type",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AnyEventTypeOf("ItemAddedToCatalog").
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.Len(t, f.Items(), 1)
				assert.False(t, f.MatchesAnyEvent())
				assert.Equal(t, []string{"ItemAddedToCatalog"}, f.Items()[0].EventTypes())
				assert.Empty(t, f.Items()[0].Predicates())
			},
		},
		{
			name: "event_types_with_any_predicate",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AnyEventTypeOf("RentalOpened", "RentalClosed").
					AndAnyPredicateOf(eventstore.P("ItemName", "Catan"), eventstore.P("NewItemName", "Catan")).
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.Len(t, f.Items(), 1)
				assert.Equal(t, []string{"RentalClosed", "RentalOpened"}, f.Items()[0].EventTypes())
				assert.Len(t, f.Items()[0].Predicates(), 2)
				assert.False(t, f.Items()[0].AllPredicatesMustMatch())
			},
		},
		{
			name: "predicates_only_with_all_predicates_must_match",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AllPredicatesOf(eventstore.P("ItemName", "Catan"), eventstore.P("ClientID", "c-1")).
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.Len(t, f.Items(), 1)
				assert.Empty(t, f.Items()[0].EventTypes())
				assert.True(t, f.Items()[0].AllPredicatesMustMatch())
			},
		},
		{
			name: "predicates_then_event_types",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AnyPredicateOf(eventstore.P("RentalID", "r-1")).
					AndAnyEventTypeOf("RentalOpened").
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.Len(t, f.Items(), 1)
				assert.Equal(t, []string{"RentalOpened"}, f.Items()[0].EventTypes())
				assert.Equal(t, "RentalID", f.Items()[0].Predicates()[0].Key())
				assert.Equal(t, "r-1", f.Items()[0].Predicates()[0].Val())
			},
		},
		{
			name: "multiple_filter_items_are_combined_with_or",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AnyEventTypeOf("ItemAddedToCatalog").
					AndAnyPredicateOf(eventstore.P("ItemName", "Catan")).
					OrMatching().
					AnyEventTypeOf("ClientRegistered").
					AndAnyPredicateOf(eventstore.P("ClientID", "c-1")).
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.Len(t, f.Items(), 2)
				assert.Equal(t, []string{"ItemAddedToCatalog"}, f.Items()[0].EventTypes())
				assert.Equal(t, []string{"ClientRegistered"}, f.Items()[1].EventTypes())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, tt.build())
		})
	}
}

func Test_FilterBuilder_InputSanitization(t *testing.T) {
	tests := []struct {
		name     string
		build    func() eventstore.Filter
		validate func(t *testing.T, filter eventstore.Filter)
	}{
		{
			name: "empty_event_types_are_removed",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AnyEventTypeOf("", "RentalOpened", "", "ItemRenamed", "").
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.Equal(t, []string{"ItemRenamed", "RentalOpened"}, f.Items()[0].EventTypes())
			},
		},
		{
			name: "duplicate_event_types_are_removed_and_sorted",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AnyEventTypeOf("RentalOpened", "ClientRemoved", "RentalOpened", "ClientRemoved").
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.Equal(t, []string{"ClientRemoved", "RentalOpened"}, f.Items()[0].EventTypes())
			},
		},
		{
			name: "empty_and_partial_predicates_are_removed",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AnyPredicateOf(
						eventstore.P("", "Catan"),
						eventstore.P("ItemName", ""),
						eventstore.P("ItemName", "Catan"),
						eventstore.P("", "")).
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.Len(t, f.Items()[0].Predicates(), 1)
				assert.Equal(t, "ItemName", f.Items()[0].Predicates()[0].Key())
			},
		},
		{
			name: "duplicate_predicates_are_removed_and_sorted_by_key_then_value",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AnyPredicateOf(
						eventstore.P("NewItemName", "Catan"),
						eventstore.P("ItemName", "Dixit"),
						eventstore.P("ItemName", "Catan"),
						eventstore.P("ItemName", "Dixit")).
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				predicates := f.Items()[0].Predicates()
				assert.Len(t, predicates, 3)
				assert.Equal(t, eventstore.P("ItemName", "Catan"), predicates[0])
				assert.Equal(t, eventstore.P("ItemName", "Dixit"), predicates[1])
				assert.Equal(t, eventstore.P("NewItemName", "Catan"), predicates[2])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, tt.build())
		})
	}
}

func Test_Filter_WithSequenceNumberHigherThan_ReturnsIndependentCopy(t *testing.T) {
	// arrange
	base := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf("RentalOpened").
		Finalize()

	// act
	incremental := base.WithSequenceNumberHigherThan(42)

	// assert
	assert.Equal(t, uint(0), base.SequenceNumberHigherThan())
	assert.Equal(t, uint(42), incremental.SequenceNumberHigherThan())
	assert.Equal(t, base.Items(), incremental.Items())
}
