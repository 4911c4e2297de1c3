package ledger

import (
	"errors"

	"github.com/tabletop-rentals/rental-ledger-go/collection"
	"github.com/tabletop-rentals/rental-ledger-go/eventstore"
	"github.com/tabletop-rentals/rental-ledger-go/rental/confirm"
	"github.com/tabletop-rentals/rental-ledger-go/rental/core"
	"github.com/tabletop-rentals/rental-ledger-go/rental/legacyimport"
	"github.com/tabletop-rentals/rental-ledger-go/rental/shell"
)

// Business rule violations, nothing was changed when an operation returns one of them.
var (
	ErrDuplicateName    = core.ErrDuplicateName
	ErrNotFound         = core.ErrNotFound
	ErrMissingField     = core.ErrMissingField
	ErrItemUnavailable  = core.ErrItemUnavailable
	ErrItemInUse        = core.ErrItemInUse
	ErrInvalidDailyRate = core.ErrInvalidDailyRate
	ErrInvalidLateDays  = core.ErrInvalidLateDays
	ErrInvalidDate      = core.ErrInvalidDate
)

// Storage failures.
var (
	ErrStorageCorrupt     = collection.ErrStorageCorrupt
	ErrStorageWriteFailed = collection.ErrStorageWriteFailed
)

// Confirmation and import failures.
var (
	ErrUnknownToken = confirm.ErrUnknownToken
	ErrTokenExpired = confirm.ErrTokenExpired
	ErrLogNotEmpty  = legacyimport.ErrLogNotEmpty
)

// ErrGeneratingIDFailed is returned when no client or rental ID could be generated.
var ErrGeneratingIDFailed = legacyimport.ErrGeneratingIDFailed

// ErrNilDependency is returned when a Ledger is created without event store or collection store.
var ErrNilDependency = errors.New("event store and collection store must not be nil")

// storageError marks append failures and lost concurrency races as write failures, other errors pass through.
func storageError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, shell.ErrRetriesExhausted) || errors.Is(err, eventstore.ErrAppendingEventFailed) {
		return errors.Join(ErrStorageWriteFailed, err)
	}

	return err
}
