package eventstore

import (
	"errors"
)

var (
	ErrEmptyEventsTableName         = errors.New("empty events table name supplied")
	ErrNilDatabaseConnection        = errors.New("database connection must not be nil")
	ErrConcurrencyConflict          = errors.New("concurrency error, no rows were affected")
	ErrQueryingEventsFailed         = errors.New("querying events failed")
	ErrScanningDBRowFailed          = errors.New("scanning db row failed")
	ErrBuildingStorableEventFailed  = errors.New("building storable event failed")
	ErrBuildingQueryFailed          = errors.New("building query failed")
	ErrAppendingEventFailed         = errors.New("appending the event failed")
	ErrGettingRowsAffectedFailed    = errors.New("getting rows affected failed")
	ErrBeginningTransactionFailed   = errors.New("beginning transaction failed")
	ErrCommittingTransactionFailed  = errors.New("committing transaction failed")
	ErrCreatingEventsTableFailed    = errors.New("creating events table failed")
	ErrNoEventsToAppend             = errors.New("at least one event must be supplied")
	ErrInvalidSequenceNumberInEvent = errors.New("sequence number in stored event is invalid")
)

// MaxSequenceNumberUint is a type alias for uint, representing the maximum sequence number for a "dynamic event stream".
type MaxSequenceNumberUint = uint
