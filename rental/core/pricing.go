package core

import (
	"errors"
	"strings"
	"time"
)

const (
	// DateLayout is the layout of civil dates like start and end dates of a rental.
	DateLayout = "2006-01-02"

	// TimestampLayout is the layout of history entry timestamps.
	TimestampLayout = "2006-01-02 15:04:05"

	// FallbackDailyRate applies to late fees of rentals that carry no daily rate (legacy records).
	FallbackDailyRate = 5

	hoursPerDay = 24
)

// ParseDate parses a YYYY-MM-DD civil date as UTC midnight.
func ParseDate(value string) (time.Time, error) {
	date, err := time.ParseInLocation(DateLayout, strings.TrimSpace(value), time.UTC)
	if err != nil {
		return time.Time{}, errors.Join(ErrInvalidDate, err)
	}

	return date, nil
}

// FormatDate formats a time as YYYY-MM-DD in UTC.
func FormatDate(t time.Time) DateString {
	return t.UTC().Format(DateLayout)
}

// FormatTimestamp formats a time as a history timestamp in UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// DaysBetween returns the number of whole calendar days from one civil date to another, negative if "to" is earlier.
func DaysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / hoursPerDay)
}

// RentalDays returns the billed days for a rental from start to end. A same-day rental is billed as one day.
func RentalDays(start, end time.Time) int {
	return ClampRentalDays(DaysBetween(start, end))
}

// ClampRentalDays makes sure at least one day is billed.
func ClampRentalDays(days int) int {
	return max(1, days)
}

// RentalCost returns days times daily rate.
func RentalCost(rentalDays, dailyRate int) int {
	return rentalDays * dailyRate
}

// LateDaysUntil returns the days an item came back after its end date, zero for returns on or before the end date.
func LateDaysUntil(end, returnedOn time.Time) int {
	return max(0, DaysBetween(end, returnedOn))
}

// EffectiveDailyRate returns the rate used for late fees.
func EffectiveDailyRate(dailyRate int) int {
	if dailyRate <= 0 {
		return FallbackDailyRate
	}

	return dailyRate
}

// LateFee returns late days times the effective daily rate.
func LateFee(lateDays, dailyRate int) int {
	return lateDays * EffectiveDailyRate(dailyRate)
}
