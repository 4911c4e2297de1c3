package openrental_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/tabletop-rentals/rental-ledger-go/rental/core"
	"github.com/tabletop-rentals/rental-ledger-go/rental/features/command/openrental"
)

func Test_Decide_Success_WhenAllPreconditionsMet(t *testing.T) {
	// arrange
	rentalID := uuid.New()
	clientID := uuid.New()
	now := time.Now()

	events := core.DomainEvents{
		givenItemAdded(t, "Catan", now.Add(-2*time.Hour)),
		givenClientRegistered(t, clientID, now.Add(-time.Hour)),
	}

	command := openrental.BuildCommand(rentalID, clientID, " Catan ", "2024-03-01", "2024-03-04", 10, now)

	// act
	result := openrental.Decide(events, command)

	// assert
	assert.NoError(t, result.HasError())
	assert.Len(t, result.Events, 1)

	event, ok := result.Events[0].(core.RentalOpened)
	assert.True(t, ok, "Expected RentalOpened event")
	assert.Equal(t, rentalID.String(), event.RentalID)
	assert.Equal(t, clientID.String(), event.ClientID)
	assert.Equal(t, "Anna Nowak (123456789)", event.ClientDisplayName)
	assert.Equal(t, "Catan", event.ItemName)
	assert.Equal(t, 3, event.RentalDays)
	assert.Equal(t, 10, event.DailyRate)
	assert.Equal(t, 30, event.Cost)
}

func Test_Decide_Success_RentalDays(t *testing.T) {
	testCases := []struct {
		name         string
		startDate    string
		endDate      string
		override     *int
		expectedDays int
	}{
		{name: "same day counts as one day", startDate: "2024-03-01", endDate: "2024-03-01", expectedDays: 1},
		{name: "end before start counts as one day", startDate: "2024-03-05", endDate: "2024-03-01", expectedDays: 1},
		{name: "across month end", startDate: "2024-02-27", endDate: "2024-03-02", expectedDays: 4},
		{name: "override wins", startDate: "2024-03-01", endDate: "2024-03-04", override: intPtr(7), expectedDays: 7},
		{name: "override is clamped", startDate: "2024-03-01", endDate: "2024-03-04", override: intPtr(0), expectedDays: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			clientID := uuid.New()
			now := time.Now()
			events := core.DomainEvents{
				givenItemAdded(t, "Catan", now.Add(-2*time.Hour)),
				givenClientRegistered(t, clientID, now.Add(-time.Hour)),
			}

			command := openrental.BuildCommand(uuid.New(), clientID, "Catan", tc.startDate, tc.endDate, 5, now)
			if tc.override != nil {
				command = command.WithRentalDaysOverride(*tc.override)
			}

			// act
			result := openrental.Decide(events, command)

			// assert
			assert.Len(t, result.Events, 1)

			event := result.Events[0].(core.RentalOpened)
			assert.Equal(t, tc.expectedDays, event.RentalDays)
			assert.Equal(t, tc.expectedDays*5, event.Cost)
		})
	}
}

func Test_Decide_Success_RenamedItemIsAvailableUnderNewName(t *testing.T) {
	// arrange
	clientID := uuid.New()
	now := time.Now()

	events := core.DomainEvents{
		givenItemAdded(t, "Catan", now.Add(-3*time.Hour)),
		core.BuildItemRenamed("Catan", "Catan XL", true, "", now.Add(-2*time.Hour)),
		givenClientRegistered(t, clientID, now.Add(-time.Hour)),
	}

	// act
	result := openrental.Decide(
		events,
		openrental.BuildCommand(uuid.New(), clientID, "Catan XL", "2024-03-01", "2024-03-02", 5, now),
	)

	// assert
	assert.True(t, result.HasEventsToAppend())
}

func Test_Decide_Idempotent_WhenRentalIDWasOpenedBefore(t *testing.T) {
	// arrange
	rentalID := uuid.New()
	clientID := uuid.New()
	now := time.Now()

	command := openrental.BuildCommand(rentalID, clientID, "Catan", "2024-03-01", "2024-03-04", 10, now)
	events := core.DomainEvents{
		givenItemAdded(t, "Catan", now.Add(-3*time.Hour)),
		givenClientRegistered(t, clientID, now.Add(-2*time.Hour)),
	}
	events = append(events, openrental.Decide(events, command).Events...)

	// act
	result := openrental.Decide(events, command)

	// assert
	assert.True(t, result.IsIdempotent())
}

func Test_Decide_Error(t *testing.T) {
	clientID := uuid.New()
	now := time.Now()

	registered := core.DomainEvents{
		givenItemAdded(t, "Catan", now.Add(-2*time.Hour)),
		givenClientRegistered(t, clientID, now.Add(-time.Hour)),
	}

	testCases := []struct {
		name        string
		events      core.DomainEvents
		command     openrental.Command
		expectedErr error
	}{
		{
			name:        "blank item name",
			events:      registered,
			command:     openrental.BuildCommand(uuid.New(), clientID, " ", "2024-03-01", "2024-03-02", 5, now),
			expectedErr: core.ErrMissingField,
		},
		{
			name:        "missing client",
			events:      registered,
			command:     openrental.BuildCommand(uuid.New(), uuid.Nil, "Catan", "2024-03-01", "2024-03-02", 5, now),
			expectedErr: core.ErrMissingField,
		},
		{
			name:        "missing end date",
			events:      registered,
			command:     openrental.BuildCommand(uuid.New(), clientID, "Catan", "2024-03-01", "", 5, now),
			expectedErr: core.ErrMissingField,
		},
		{
			name:        "malformed date",
			events:      registered,
			command:     openrental.BuildCommand(uuid.New(), clientID, "Catan", "01.03.2024", "2024-03-02", 5, now),
			expectedErr: core.ErrInvalidDate,
		},
		{
			name:        "daily rate zero",
			events:      registered,
			command:     openrental.BuildCommand(uuid.New(), clientID, "Catan", "2024-03-01", "2024-03-02", 0, now),
			expectedErr: core.ErrInvalidDailyRate,
		},
		{
			name:        "client not registered",
			events:      core.DomainEvents{givenItemAdded(t, "Catan", now)},
			command:     openrental.BuildCommand(uuid.New(), clientID, "Catan", "2024-03-01", "2024-03-02", 5, now),
			expectedErr: core.ErrNotFound,
		},
		{
			name:        "item not in catalog",
			events:      core.DomainEvents{givenClientRegistered(t, clientID, now)},
			command:     openrental.BuildCommand(uuid.New(), clientID, "Catan", "2024-03-01", "2024-03-02", 5, now),
			expectedErr: core.ErrItemUnavailable,
		},
		{
			name: "item rented out",
			events: append(
				registered[:2:2],
				core.BuildRentalOpened(uuid.New(), uuid.NewString(), "Jan Kowalski (2)", "Catan", core.RentalTerms{}, now),
			),
			command:     openrental.BuildCommand(uuid.New(), clientID, "Catan", "2024-03-01", "2024-03-02", 5, now),
			expectedErr: core.ErrItemUnavailable,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			result := openrental.Decide(tc.events, tc.command)

			// assert
			assert.ErrorIs(t, result.HasError(), tc.expectedErr)
			assert.False(t, result.HasEventsToAppend())
		})
	}
}

func givenItemAdded(t *testing.T, itemName string, at time.Time) core.ItemAddedToCatalog {
	t.Helper()
	return core.BuildItemAddedToCatalog(itemName, at)
}

func givenClientRegistered(t *testing.T, clientID uuid.UUID, at time.Time) core.ClientRegistered {
	t.Helper()
	return core.BuildClientRegistered(clientID, "Anna", "Nowak", "123456789", at)
}

func intPtr(v int) *int {
	return &v
}
