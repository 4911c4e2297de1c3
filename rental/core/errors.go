package core

import "errors"

// Business rule violations. A Decide function that returns one of them never produces events.
var (
	ErrDuplicateName    = errors.New("an item with this name already exists")
	ErrNotFound         = errors.New("not found")
	ErrMissingField     = errors.New("required field is missing")
	ErrItemUnavailable  = errors.New("item is not available")
	ErrItemInUse        = errors.New("item has an open rental")
	ErrInvalidDailyRate = errors.New("daily rate must be at least 1")
	ErrInvalidLateDays  = errors.New("late days must not be negative")
	ErrInvalidDate      = errors.New("date must have the form YYYY-MM-DD")
)
