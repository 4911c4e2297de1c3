package sqliteengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/tabletop-rentals/rental-ledger-go/eventstore"
	"github.com/tabletop-rentals/rental-ledger-go/eventstore/internal/instrument"
)

const (
	defaultEventTableName          = "events"
	driverName                     = "sqlite"
	engineName                     = "sqlite"
	dialectSQLite                  = "sqlite3"
	dsnOptions                     = "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"
	logMsgBuildSelectQueryFailed   = "failed to build select query"
	logMsgDBQueryFailed            = "database query execution failed"
	logMsgCloseRowsFailed          = "failed to close database rows"
	logMsgScanRowFailed            = "failed to scan database row"
	logMsgBuildStorableEventFailed = "failed to build storable event from database row"
	logMsgBuildInsertQueryFailed   = "failed to build insert query"
	logMsgBeginTxFailed            = "failed to begin append transaction"
	logMsgReadMaxSequenceFailed    = "failed to read max sequence number of the stream"
	logMsgDBExecFailed             = "database execution failed during event append"
	logMsgCommitFailed             = "failed to commit append transaction"
	logMsgRollbackFailed           = "failed to roll back append transaction"
	logAttrEventType               = "event_type"
	logAttrEventCount              = "event_count"
	colEventType                   = "event_type"
	colOccurredAt                  = "occurred_at"
	colPayload                     = "payload"
	colMetadata                    = "metadata"
	colSequenceNumber              = "sequence_number"
	jsonExtractPayload             = "json_extract(payload, ?)"
)

// EventStore is the embedded event store engine. It keeps the whole rental event log in one SQLite table.
//
// Appends run in an immediate transaction that re-reads the max sequence number of the filtered stream
// before inserting, which gives the same optimistic concurrency contract as the Postgres engine.
type EventStore struct {
	db             *sql.DB
	eventTableName string
	observer       instrument.Observer
}

// OpenDB opens (and creates if needed) the SQLite database file at path with the pragmas the engine relies on.
// A single connection is used so that appends from one process are serialized without busy retries.
func OpenDB(path string) (*sql.DB, error) {
	db, err := sql.Open(driverName, path+dsnOptions)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)

	return db, nil
}

// NewEventStore creates a new EventStore on top of an open SQLite database.
func NewEventStore(db *sql.DB, options ...Option) (EventStore, error) {
	if db == nil {
		return EventStore{}, eventstore.ErrNilDatabaseConnection
	}

	es := EventStore{
		db:             db,
		eventTableName: defaultEventTableName,
		observer:       instrument.Observer{Engine: engineName},
	}

	for _, option := range options {
		if err := option(&es); err != nil {
			return EventStore{}, err
		}
	}

	return es, nil
}

// CreateEventsTable creates the events table and its index if they do not exist yet.
func (es EventStore) CreateEventsTable(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS "%[1]s" (
		%[2]s INTEGER PRIMARY KEY AUTOINCREMENT,
		%[3]s TEXT NOT NULL,
		%[4]s TEXT NOT NULL,
		%[5]s TEXT NOT NULL,
		%[6]s TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS "%[1]s_%[3]s_idx" ON "%[1]s" (%[3]s);`,
		es.eventTableName, colSequenceNumber, colEventType, colOccurredAt, colPayload, colMetadata)

	if _, err := es.db.ExecContext(ctx, ddl); err != nil {
		return errors.Join(eventstore.ErrCreatingEventsTableFailed, err)
	}

	return nil
}

// Query retrieves the events matching the filter in sequence order
// together with the MaxSequenceNumberUint of this "dynamic event stream".
func (es EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	ctx, op := es.observer.Start(ctx, instrument.OperationQuery)

	sqlQuery, args, buildErr := es.buildSelectQuery(filter)
	if buildErr != nil {
		op.Failed(instrument.ErrorTypeBuildQuery, logMsgBuildSelectQueryFailed, buildErr)
		return nil, 0, buildErr
	}

	rows, queryErr := es.db.QueryContext(ctx, sqlQuery, args...)
	op.LogSQL(sqlQuery)
	if queryErr != nil {
		op.Failed(instrument.ErrorTypeDatabase, logMsgDBQueryFailed, queryErr)
		return nil, 0, errors.Join(eventstore.ErrQueryingEventsFailed, queryErr)
	}

	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			op.Warn(logMsgCloseRowsFailed, closeErr)
		}
	}()

	events := make(eventstore.StorableEvents, 0)
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)

	for rows.Next() {
		var (
			eventType  string
			occurredAt string
			payload    string
			metadata   string
			sequence   int64
		)

		if err := rows.Scan(&eventType, &occurredAt, &payload, &metadata, &sequence); err != nil {
			op.Failed(instrument.ErrorTypeScan, logMsgScanRowFailed, err)
			return nil, 0, errors.Join(eventstore.ErrScanningDBRowFailed, err)
		}

		event, err := es.rebuildEvent(eventType, occurredAt, payload, metadata, sequence)
		if err != nil {
			op.Failed(instrument.ErrorTypeBuildEvent, logMsgBuildStorableEventFailed, err, logAttrEventType, eventType)
			return nil, 0, errors.Join(eventstore.ErrBuildingStorableEventFailed, err)
		}

		events = append(events, event)
		maxSequenceNumber = event.SequenceNumber
	}

	if err := rows.Err(); err != nil {
		op.Failed(instrument.ErrorTypeScan, logMsgScanRowFailed, err)
		return nil, 0, errors.Join(eventstore.ErrScanningDBRowFailed, err)
	}

	op.Succeeded(len(events), maxSequenceNumber)

	return events, maxSequenceNumber, nil
}

// Append appends one or multiple events atomically, provided the max sequence number of the stream
// described by filter is still expectedMaxSequenceNumber. Otherwise, it returns eventstore.ErrConcurrencyConflict.
//
// The filter must be the one used for the Query the decision was based on.
func (es EventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	storableEvents ...eventstore.StorableEvent,
) error {

	if len(storableEvents) == 0 {
		return eventstore.ErrNoEventsToAppend
	}

	ctx, op := es.observer.Start(ctx, instrument.OperationAppend)

	maxSeqQuery, maxSeqArgs, buildErr := es.buildMaxSequenceQuery(filter)
	if buildErr != nil {
		op.Failed(instrument.ErrorTypeBuildQuery, logMsgBuildSelectQueryFailed, buildErr)
		return buildErr
	}

	insertQuery, insertArgs, buildErr := es.buildInsertQuery(storableEvents)
	if buildErr != nil {
		op.Failed(instrument.ErrorTypeBuildQuery, logMsgBuildInsertQueryFailed, buildErr, logAttrEventCount, len(storableEvents))
		return buildErr
	}

	tx, err := es.db.BeginTx(ctx, nil)
	if err != nil {
		op.Failed(instrument.ErrorTypeTransaction, logMsgBeginTxFailed, err)
		return errors.Join(eventstore.ErrAppendingEventFailed, eventstore.ErrBeginningTransactionFailed, err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}

		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			op.Warn(logMsgRollbackFailed, rollbackErr)
		}
	}()

	var currentMaxSequenceNumber int64
	if err = tx.QueryRowContext(ctx, maxSeqQuery, maxSeqArgs...).Scan(&currentMaxSequenceNumber); err != nil {
		op.Failed(instrument.ErrorTypeDatabase, logMsgReadMaxSequenceFailed, err)
		return errors.Join(eventstore.ErrAppendingEventFailed, err)
	}
	op.LogSQL(maxSeqQuery)

	if eventstore.MaxSequenceNumberUint(currentMaxSequenceNumber) != expectedMaxSequenceNumber { //nolint:gosec // sequence numbers are positive
		op.Conflicted(expectedMaxSequenceNumber)
		return eventstore.ErrConcurrencyConflict
	}

	result, err := tx.ExecContext(ctx, insertQuery, insertArgs...)
	op.LogSQL(insertQuery)
	if err != nil {
		op.Failed(instrument.ErrorTypeDatabase, logMsgDBExecFailed, err, logAttrEventCount, len(storableEvents))
		return errors.Join(eventstore.ErrAppendingEventFailed, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		op.Failed(instrument.ErrorTypeRowsAffected, logMsgDBExecFailed, err)
		return errors.Join(eventstore.ErrAppendingEventFailed, eventstore.ErrGettingRowsAffectedFailed, err)
	}

	if err = tx.Commit(); err != nil {
		op.Failed(instrument.ErrorTypeTransaction, logMsgCommitFailed, err)
		return errors.Join(eventstore.ErrAppendingEventFailed, eventstore.ErrCommittingTransactionFailed, err)
	}
	committed = true

	op.Succeeded(int(rowsAffected), expectedMaxSequenceNumber+eventstore.MaxSequenceNumberUint(rowsAffected)) //nolint:gosec // bounded by event count

	return nil
}

func (es EventStore) rebuildEvent(
	eventType string,
	occurredAt string,
	payload string,
	metadata string,
	sequence int64,
) (eventstore.StorableEvent, error) {

	occurredAtTime, err := time.Parse(time.RFC3339Nano, occurredAt)
	if err != nil {
		return eventstore.StorableEvent{}, err
	}

	if sequence <= 0 {
		return eventstore.StorableEvent{}, eventstore.ErrInvalidSequenceNumberInEvent
	}

	return eventstore.RebuildStorableEvent(
		eventType,
		occurredAtTime,
		[]byte(payload),
		[]byte(metadata),
		eventstore.MaxSequenceNumberUint(sequence),
	)
}

func (es EventStore) buildSelectQuery(filter eventstore.Filter) (string, []any, error) {
	selectStmt := goqu.Dialect(dialectSQLite).
		From(es.eventTableName).
		Prepared(true).
		Select(colEventType, colOccurredAt, colPayload, colMetadata, colSequenceNumber).
		Order(goqu.I(colSequenceNumber).Asc())

	conditions := es.whereConditions(filter)
	if filter.SequenceNumberHigherThan() > 0 {
		conditions = append(conditions, goqu.C(colSequenceNumber).Gt(filter.SequenceNumberHigherThan()))
	}

	if len(conditions) > 0 {
		selectStmt = selectStmt.Where(conditions...)
	}

	sqlQuery, args, err := selectStmt.ToSQL()
	if err != nil {
		return "", nil, errors.Join(eventstore.ErrBuildingQueryFailed, err)
	}

	return sqlQuery, args, nil
}

func (es EventStore) buildMaxSequenceQuery(filter eventstore.Filter) (string, []any, error) {
	selectStmt := goqu.Dialect(dialectSQLite).
		From(es.eventTableName).
		Prepared(true).
		Select(goqu.COALESCE(goqu.MAX(colSequenceNumber), 0))

	if conditions := es.whereConditions(filter); len(conditions) > 0 {
		selectStmt = selectStmt.Where(conditions...)
	}

	sqlQuery, args, err := selectStmt.ToSQL()
	if err != nil {
		return "", nil, errors.Join(eventstore.ErrBuildingQueryFailed, err)
	}

	return sqlQuery, args, nil
}

func (es EventStore) buildInsertQuery(events eventstore.StorableEvents) (string, []any, error) {
	rows := make([]any, 0, len(events))
	for _, event := range events {
		rows = append(rows, goqu.Record{
			colEventType:  event.EventType,
			colOccurredAt: event.OccurredAt.UTC().Format(time.RFC3339Nano),
			colPayload:    string(event.PayloadJSON),
			colMetadata:   string(event.MetadataJSON),
		})
	}

	insertStmt := goqu.Dialect(dialectSQLite).
		Insert(es.eventTableName).
		Prepared(true).
		Rows(rows...)

	sqlQuery, args, err := insertStmt.ToSQL()
	if err != nil {
		return "", nil, errors.Join(eventstore.ErrBuildingQueryFailed, err)
	}

	return sqlQuery, args, nil
}

// whereConditions translates the FilterItem(s) into one OR-ed condition, or none for a filter matching any event.
// Payload predicates compare top-level JSON fields with json_extract.
func (es EventStore) whereConditions(filter eventstore.Filter) []exp.Expression {
	if filter.MatchesAnyEvent() {
		return nil
	}

	itemsExpressions := make([]exp.Expression, 0, len(filter.Items()))

	for _, item := range filter.Items() {
		itemExpressions := make([]exp.Expression, 0, 2)

		if eventTypes := item.EventTypes(); len(eventTypes) > 0 {
			itemExpressions = append(itemExpressions, goqu.C(colEventType).In(eventTypes))
		}

		if predicates := item.Predicates(); len(predicates) > 0 {
			predicateExpressions := make([]exp.Expression, 0, len(predicates))
			for _, predicate := range predicates {
				predicateExpressions = append(
					predicateExpressions,
					goqu.L(jsonExtractPayload, `$."`+predicate.Key()+`"`).Eq(predicate.Val()),
				)
			}

			if item.AllPredicatesMustMatch() {
				itemExpressions = append(itemExpressions, goqu.And(predicateExpressions...))
			} else {
				itemExpressions = append(itemExpressions, goqu.Or(predicateExpressions...))
			}
		}

		itemsExpressions = append(itemsExpressions, goqu.And(itemExpressions...))
	}

	return []exp.Expression{goqu.Or(itemsExpressions...)}
}
