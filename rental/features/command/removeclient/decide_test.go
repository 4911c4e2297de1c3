package removeclient_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/tabletop-rentals/rental-ledger-go/rental/core"
	"github.com/tabletop-rentals/rental-ledger-go/rental/features/command/removeclient"
)

func Test_Decide_Success_WhenClientIsRegistered(t *testing.T) {
	// arrange
	clientID := uuid.New()
	now := time.Now()
	events := core.DomainEvents{core.BuildClientRegistered(clientID, "Anna", "Nowak", "1", now.Add(-time.Hour))}

	// act
	result := removeclient.Decide(events, removeclient.BuildCommand(clientID, now))

	// assert
	assert.NoError(t, result.HasError())
	assert.Len(t, result.Events, 1)
	assert.Equal(t, core.BuildClientRemoved(clientID.String(), now), result.Events[0])
}

func Test_Decide_Error_NotFound(t *testing.T) {
	clientID := uuid.New()
	now := time.Now()

	testCases := []struct {
		name   string
		events core.DomainEvents
	}{
		{
			name:   "never registered",
			events: core.DomainEvents{core.BuildClientRegistered(uuid.New(), "Jan", "Kowalski", "2", now)},
		},
		{
			name: "already removed",
			events: core.DomainEvents{
				core.BuildClientRegistered(clientID, "Anna", "Nowak", "1", now.Add(-time.Hour)),
				core.BuildClientRemoved(clientID.String(), now.Add(-time.Minute)),
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			result := removeclient.Decide(tc.events, removeclient.BuildCommand(clientID, now))

			// assert
			assert.ErrorIs(t, result.HasError(), core.ErrNotFound)
		})
	}
}
