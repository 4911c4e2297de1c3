package removeclientsnamed_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/tabletop-rentals/rental-ledger-go/rental/core"
	"github.com/tabletop-rentals/rental-ledger-go/rental/features/command/removeclientsnamed"
)

func Test_Decide_Success_RemovesAllMatches(t *testing.T) {
	// arrange
	first := uuid.New()
	second := uuid.New()
	now := time.Now()

	events := core.DomainEvents{
		core.BuildClientRegistered(first, "Anna", "Nowak", "1", now.Add(-3*time.Hour)),
		core.BuildClientRegistered(uuid.New(), "Jan", "Kowalski", "2", now.Add(-2*time.Hour)),
		core.BuildClientRegistered(second, "Anna", "Nowak", "3", now.Add(-time.Hour)),
	}

	// act
	result := removeclientsnamed.Decide(events, removeclientsnamed.BuildCommand("Anna Nowak", now))

	// assert
	assert.NoError(t, result.HasError())
	assert.Equal(
		t,
		core.DomainEvents{
			core.BuildClientRemoved(first.String(), now),
			core.BuildClientRemoved(second.String(), now),
		},
		result.Events,
	)
}

func Test_Decide_Idempotent_WhenNobodyMatches(t *testing.T) {
	// arrange
	clientID := uuid.New()
	now := time.Now()

	events := core.DomainEvents{
		core.BuildClientRegistered(clientID, "Anna", "Nowak", "1", now.Add(-2*time.Hour)),
		core.BuildClientRemoved(clientID.String(), now.Add(-time.Hour)),
	}

	// act
	result := removeclientsnamed.Decide(events, removeclientsnamed.BuildCommand("Anna Nowak", now))

	// assert
	assert.True(t, result.IsIdempotent())
	assert.False(t, result.HasEventsToAppend())
}

func Test_Decide_Error_BlankMatchKey(t *testing.T) {
	// arrange
	now := time.Now()

	events := core.DomainEvents{
		core.BuildClientRegistered(uuid.New(), "Anna", "Nowak", "1", now.Add(-time.Hour)),
	}

	// act
	result := removeclientsnamed.Decide(events, removeclientsnamed.BuildCommand("  ", now))

	// assert
	assert.ErrorIs(t, result.HasError(), core.ErrMissingField)
	assert.False(t, result.HasEventsToAppend())
}
