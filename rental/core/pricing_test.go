package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabletop-rentals/rental-ledger-go/rental/core"
)

func Test_RentalDays_SameDayRentalIsBilledAsOneDay(t *testing.T) {
	// arrange
	start := givenDate(t, "2024-01-01")

	// act
	days := core.RentalDays(start, start)

	// assert
	assert.Equal(t, 1, days)
}

func Test_RentalDays_EndBeforeStartIsBilledAsOneDay(t *testing.T) {
	// act
	days := core.RentalDays(givenDate(t, "2024-01-05"), givenDate(t, "2024-01-01"))

	// assert
	assert.Equal(t, 1, days)
}

func Test_RentalDays_CountsCalendarDaysAcrossMonthEnd(t *testing.T) {
	// act
	days := core.RentalDays(givenDate(t, "2024-02-27"), givenDate(t, "2024-03-02"))

	// assert
	assert.Equal(t, 4, days) // leap year
}

func Test_RentalCost_IsDaysTimesRate(t *testing.T) {
	assert.Equal(t, 10, core.RentalCost(2, 5))
	assert.Equal(t, 7, core.RentalCost(core.ClampRentalDays(0), 7))
}

func Test_LateDaysUntil_ReturnOnOrBeforeEndDateIsNotLate(t *testing.T) {
	end := givenDate(t, "2024-01-03")

	assert.Equal(t, 0, core.LateDaysUntil(end, givenDate(t, "2024-01-03")))
	assert.Equal(t, 0, core.LateDaysUntil(end, givenDate(t, "2024-01-01")))
	assert.Equal(t, 2, core.LateDaysUntil(end, givenDate(t, "2024-01-05")))
}

func Test_LateFee_UsesFallbackRateWhenRentalCarriesNone(t *testing.T) {
	assert.Equal(t, 10, core.LateFee(2, 5))
	assert.Equal(t, 0, core.LateFee(0, 5))
	assert.Equal(t, 3*core.FallbackDailyRate, core.LateFee(3, 0))
}

func Test_ParseDate_RejectsMalformedDates(t *testing.T) {
	for _, value := range []string{"", "2024-13-01", "01.01.2024", "tomorrow"} {
		_, err := core.ParseDate(value)

		assert.ErrorIs(t, err, core.ErrInvalidDate, value)
	}
}

func Test_ParseDate_TrimsAndRoundTrips(t *testing.T) {
	// act
	date, err := core.ParseDate(" 2024-01-03 ")

	// assert
	require.NoError(t, err)
	assert.Equal(t, "2024-01-03", core.FormatDate(date))
}

func Test_BuildRentalClosed_TotalIsBaseCostPlusLateFee(t *testing.T) {
	// arrange
	opened := core.BuildRentalOpened(
		givenUUID(t),
		"client-1",
		core.ClientDisplayName("Anna", "Nowak", "123456789"),
		"Catan",
		core.RentalTerms{StartDate: "2024-01-01", EndDate: "2024-01-03", RentalDays: 2, DailyRate: 5},
		givenDate(t, "2024-01-01"),
	)

	// act
	closed := core.BuildRentalClosed(opened, "Catan", "2024-01-05", 2, givenDate(t, "2024-01-05"))

	// assert
	assert.Equal(t, 10, opened.Cost)
	assert.Equal(t, 10, closed.BaseCost)
	assert.Equal(t, 10, closed.LateFee)
	assert.Equal(t, 20, closed.Total)
	assert.Equal(t, closed.BaseCost+closed.LateFee, closed.Total)
	assert.Equal(t, "Anna Nowak (123456789)", closed.ClientDisplayName)
}
