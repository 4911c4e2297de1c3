package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"

	"github.com/tabletop-rentals/rental-ledger-go/eventstore"
	"github.com/tabletop-rentals/rental-ledger-go/eventstore/internal/instrument"
	"github.com/tabletop-rentals/rental-ledger-go/eventstore/postgresengine/internal/adapters"
)

const (
	defaultEventTableName          = "events"
	engineName                     = "postgres"
	logMsgBuildSelectQueryFailed   = "failed to build select query"
	logMsgDBQueryFailed            = "database query execution failed"
	logMsgCloseRowsFailed          = "failed to close database rows"
	logMsgScanRowFailed            = "failed to scan database row"
	logMsgBuildStorableEventFailed = "failed to build storable event from database row"
	logMsgBuildInsertQueryFailed   = "failed to build insert query"
	logMsgDBExecFailed             = "database execution failed during event append"
	logMsgRowsAffectedFailed       = "failed to get rows affected count"
	logAttrEventType               = "event_type"
	logAttrEventCount              = "event_count"
	logAttrRowsAffected            = "rows_affected"
	colEventType                   = "event_type"
	colOccurredAt                  = "occurred_at"
	colPayload                     = "payload"
	colMetadata                    = "metadata"
	colSequenceNumber              = "sequence_number"
	cteContext                     = "context"
	cteVals                        = "vals"
	dialectPostgres                = "postgres"
	aliasMaxSeq                    = "max_seq"
	castText                       = "?::text"
	castTimestamp                  = "?::timestamp with time zone"
	castJsonb                      = "?::jsonb"
	payloadContains                = "payload @> ?::jsonb"
)

// EventStore is the Postgres event store engine.
// It works with a pgx pool, a database/sql handle or a sqlx handle behind the same adapter interface.
type EventStore struct {
	db             adapters.DBAdapter
	eventTableName string
	observer       instrument.Observer
}

type queryResultRow struct {
	eventType      string
	payload        []byte
	metadata       []byte
	occurredAt     time.Time
	sequenceNumber int64
}

// NewEventStoreFromPGXPool creates a new EventStore using a pgx Pool with optional configuration.
func NewEventStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (EventStore, error) {
	if db == nil {
		return EventStore{}, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewPGXAdapter(db), options...)
}

// NewEventStoreFromPGXPoolAndReplica creates a new EventStore which serves Query calls marked with
// eventstore.WithEventualConsistency from the replica pool.
func NewEventStoreFromPGXPoolAndReplica(primary *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (EventStore, error) {
	if primary == nil || replica == nil {
		return EventStore{}, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewPGXAdapterWithReplica(primary, replica), options...)
}

// NewEventStoreFromSQLDB creates a new EventStore using a sql.DB with optional configuration.
func NewEventStoreFromSQLDB(db *sql.DB, options ...Option) (EventStore, error) {
	if db == nil {
		return EventStore{}, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLAdapter(db), options...)
}

// NewEventStoreFromSQLX creates a new EventStore using a sqlx.DB with optional configuration.
func NewEventStoreFromSQLX(db *sqlx.DB, options ...Option) (EventStore, error) {
	if db == nil {
		return EventStore{}, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLXAdapter(db), options...)
}

func newEventStore(db adapters.DBAdapter, options ...Option) (EventStore, error) {
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

// CreateEventsTable creates the events table with its indexes if they do not exist yet.
func (es EventStore) CreateEventsTable(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %[1]s (
		%[2]s BIGSERIAL PRIMARY KEY,
		%[3]s TEXT NOT NULL,
		%[4]s TIMESTAMP WITH TIME ZONE NOT NULL,
		%[5]s JSONB NOT NULL,
		%[6]s JSONB NOT NULL
	);
	CREATE INDEX IF NOT EXISTS %[1]s_%[3]s_idx ON %[1]s (%[3]s);
	CREATE INDEX IF NOT EXISTS %[1]s_%[5]s_idx ON %[1]s USING gin (%[5]s jsonb_path_ops);`,
		es.eventTableName, colSequenceNumber, colEventType, colOccurredAt, colPayload, colMetadata)

	if _, err := es.db.Exec(ctx, ddl); err != nil {
		return errors.Join(eventstore.ErrCreatingEventsTableFailed, err)
	}

	return nil
}

// Query retrieves events from the Postgres event store based on the provided eventstore.Filter criteria
// and returns them as eventstore.StorableEvents
// as well as the MaxSequenceNumberUint for this "dynamic event stream" at the time of the query.
func (es EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	ctx, op := es.observer.Start(ctx, instrument.OperationQuery)

	sqlQuery, buildQueryErr := es.buildSelectQuery(filter)
	if buildQueryErr != nil {
		op.Failed(instrument.ErrorTypeBuildQuery, logMsgBuildSelectQueryFailed, buildQueryErr)
		return nil, 0, buildQueryErr
	}

	rows, queryErr := es.db.Query(ctx, sqlQuery)
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

	eventStream := make(eventstore.StorableEvents, 0)
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)
	result := queryResultRow{}

	for rows.Next() {
		if err := rows.Scan(&result.eventType, &result.occurredAt, &result.payload, &result.metadata, &result.sequenceNumber); err != nil {
			op.Failed(instrument.ErrorTypeScan, logMsgScanRowFailed, err)
			return nil, 0, errors.Join(eventstore.ErrScanningDBRowFailed, err)
		}

		if result.sequenceNumber <= 0 {
			op.Failed(instrument.ErrorTypeBuildEvent, logMsgBuildStorableEventFailed, eventstore.ErrInvalidSequenceNumberInEvent)
			return nil, 0, errors.Join(eventstore.ErrBuildingStorableEventFailed, eventstore.ErrInvalidSequenceNumberInEvent)
		}

		sequenceNumber := eventstore.MaxSequenceNumberUint(result.sequenceNumber)

		event, err := eventstore.RebuildStorableEvent(result.eventType, result.occurredAt, result.payload, result.metadata, sequenceNumber)
		if err != nil {
			op.Failed(instrument.ErrorTypeBuildEvent, logMsgBuildStorableEventFailed, err, logAttrEventType, result.eventType)
			return nil, 0, errors.Join(eventstore.ErrBuildingStorableEventFailed, err)
		}

		eventStream = append(eventStream, event)
		maxSequenceNumber = sequenceNumber
	}

	if err := rows.Err(); err != nil {
		op.Failed(instrument.ErrorTypeScan, logMsgScanRowFailed, err)
		return nil, 0, errors.Join(eventstore.ErrScanningDBRowFailed, err)
	}

	op.Succeeded(len(eventStream), maxSequenceNumber)

	return eventStream, maxSequenceNumber, nil
}

// Append attempts to append one or multiple eventstore.StorableEvent(s) onto the Postgres event store respecting concurrency constraints
// for this "dynamic event stream" based on the provided eventstore.Filter criteria and the expected MaxSequenceNumberUint.
//
// The provided eventstore.Filter criteria should be the same as the ones used for the Query before making the business decisions.
// All events are inserted by one statement, so either all of them are stored or none.
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

	sqlQuery, buildQueryErr := es.buildInsertQuery(storableEvents, filter, expectedMaxSequenceNumber)
	if buildQueryErr != nil {
		op.Failed(instrument.ErrorTypeBuildQuery, logMsgBuildInsertQueryFailed, buildQueryErr, logAttrEventCount, len(storableEvents))
		return buildQueryErr
	}

	tag, execErr := es.db.Exec(ctx, sqlQuery)
	op.LogSQL(sqlQuery)
	if execErr != nil {
		op.Failed(instrument.ErrorTypeDatabase, logMsgDBExecFailed, execErr, logAttrEventCount, len(storableEvents))
		return errors.Join(eventstore.ErrAppendingEventFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := tag.RowsAffected()
	if rowsAffectedErr != nil {
		op.Failed(instrument.ErrorTypeRowsAffected, logMsgRowsAffectedFailed, rowsAffectedErr)
		return errors.Join(eventstore.ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	if rowsAffected < int64(len(storableEvents)) {
		op.Conflicted(expectedMaxSequenceNumber)
		return eventstore.ErrConcurrencyConflict
	}

	op.Succeeded(len(storableEvents), expectedMaxSequenceNumber+eventstore.MaxSequenceNumberUint(rowsAffected)) //nolint:gosec // bounded by event count

	return nil
}

func (es EventStore) buildSelectQuery(filter eventstore.Filter) (string, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(es.eventTableName).
		Select(colEventType, colOccurredAt, colPayload, colMetadata, colSequenceNumber).
		Order(goqu.I(colSequenceNumber).Asc())

	conditions := whereConditions(filter)
	if filter.SequenceNumberHigherThan() > 0 {
		conditions = append(conditions, goqu.C(colSequenceNumber).Gt(filter.SequenceNumberHigherThan()))
	}

	if len(conditions) > 0 {
		selectStmt = selectStmt.Where(conditions...)
	}

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// buildInsertQuery builds one INSERT ... SELECT guarded by the max sequence number of the filtered stream.
// If another writer appended a matching event in the meantime, the guard fails and no row is inserted.
func (es EventStore) buildInsertQuery(
	events eventstore.StorableEvents,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (string, error) {

	builder := goqu.Dialect(dialectPostgres)

	cteStmt := builder.
		From(es.eventTableName).
		Select(goqu.MAX(colSequenceNumber).As(aliasMaxSeq))

	if conditions := whereConditions(filter); len(conditions) > 0 {
		cteStmt = cteStmt.Where(conditions...)
	}

	var valuesStmt *goqu.SelectDataset
	for _, event := range events {
		eventStmt := builder.Select(
			goqu.L(castText, event.EventType).As(colEventType),
			goqu.L(castTimestamp, event.OccurredAt).As(colOccurredAt),
			goqu.L(castJsonb, string(event.PayloadJSON)).As(colPayload),
			goqu.L(castJsonb, string(event.MetadataJSON)).As(colMetadata),
		)

		if valuesStmt == nil {
			valuesStmt = eventStmt
			continue
		}

		valuesStmt = valuesStmt.UnionAll(eventStmt)
	}

	insertStmt := builder.
		Insert(es.eventTableName).
		Cols(colEventType, colOccurredAt, colPayload, colMetadata).
		With(cteContext, cteStmt).
		With(cteVals, valuesStmt).
		FromQuery(
			builder.From(cteContext, cteVals).
				Select(
					goqu.T(cteVals).Col(colEventType),
					goqu.T(cteVals).Col(colOccurredAt),
					goqu.T(cteVals).Col(colPayload),
					goqu.T(cteVals).Col(colMetadata),
				).
				Where(goqu.COALESCE(goqu.C(aliasMaxSeq), 0).Eq(goqu.V(expectedMaxSequenceNumber))),
		)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// whereConditions translates the FilterItem(s) into one OR-ed condition, or none for a filter matching any event.
// Payload predicates use JSONB containment, so they can be served by the GIN index on the payload.
func whereConditions(filter eventstore.Filter) []exp.Expression {
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
				predicateExpressions = append(predicateExpressions, goqu.L(payloadContains, containmentDocument(predicate)))
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

func containmentDocument(predicate eventstore.FilterPredicate) string {
	document, _ := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalToString(
		map[string]string{predicate.Key(): predicate.Val()},
	)

	return document
}
