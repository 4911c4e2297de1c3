// Package instrument holds the logging, metrics and tracing plumbing shared by the event store engines.
package instrument

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/tabletop-rentals/rental-ledger-go/eventstore"
)

const (
	MetricQueryDuration        = "eventstore_query_duration_seconds"
	MetricAppendDuration       = "eventstore_append_duration_seconds"
	MetricEventsQueried        = "eventstore_events_queried_total"
	MetricEventsAppended       = "eventstore_events_appended_total"
	MetricConcurrencyConflicts = "eventstore_concurrency_conflicts_total"
	MetricDatabaseErrors       = "eventstore_database_errors_total"

	OperationQuery  = "query"
	OperationAppend = "append"

	StatusSuccess  = "success"
	StatusError    = "error"
	StatusConflict = "conflict"

	ErrorTypeBuildQuery   = "build_query"
	ErrorTypeDatabase     = "database"
	ErrorTypeScan         = "row_scan"
	ErrorTypeBuildEvent   = "build_storable_event"
	ErrorTypeRowsAffected = "rows_affected"
	ErrorTypeTransaction  = "transaction"

	logMsgOperation     = "eventstore operation: "
	logMsgSQLExecuted   = "executed sql for: "
	logMsgConflict      = "concurrency conflict detected"
	logMsgCompleted     = "completed"
	logAttrEngine       = "engine"
	logAttrError        = "error"
	logAttrErrorType    = "error_type"
	logAttrQuery        = "query"
	logAttrDurationMS   = "duration_ms"
	logAttrEventCount   = "event_count"
	logAttrMaxSequence  = "max_sequence"
	logAttrExpectedSeq  = "expected_sequence"
	spanAttrOperation   = "operation"
	spanAttrEngine      = "db.system"
	spanAttrEventCount  = "event_count"
	spanAttrMaxSequence = "max_sequence"
	spanAttrErrorType   = "error_type"
	labelStatus         = "status"
	labelEngine         = "engine"
)

// Observer bundles the optional observability collaborators of an engine. The zero value observes nothing.
type Observer struct {
	Engine           string
	Logger           eventstore.Logger
	ContextualLogger eventstore.ContextualLogger
	Metrics          eventstore.MetricsCollector
	Tracing          eventstore.TracingCollector
}

// Operation tracks one Query or Append from start to finish.
type Operation struct {
	observer *Observer
	ctx      context.Context
	name     string
	start    time.Time
	span     eventstore.SpanContext
}

// Start opens a span (if tracing is configured) and starts the clock for an operation.
func (o *Observer) Start(ctx context.Context, operation string) (context.Context, *Operation) {
	var span eventstore.SpanContext

	if o.Tracing != nil {
		ctx, span = o.Tracing.StartSpan(
			ctx,
			"eventstore."+operation,
			map[string]string{spanAttrOperation: operation, spanAttrEngine: o.Engine},
		)
	}

	return ctx, &Operation{observer: o, ctx: ctx, name: operation, start: time.Now(), span: span}
}

// LogSQL logs the executed statement at debug level.
func (op *Operation) LogSQL(sqlQuery string) {
	op.observer.logDebug(
		op.ctx,
		logMsgSQLExecuted+op.name,
		logAttrDurationMS, toMilliseconds(time.Since(op.start)),
		logAttrQuery, sqlQuery,
	)
}

// Succeeded finishes a successful operation.
func (op *Operation) Succeeded(eventCount int, maxSequenceNumber eventstore.MaxSequenceNumberUint) {
	duration := time.Since(op.start)

	op.observer.logInfo(
		op.ctx,
		logMsgOperation+op.name+" "+logMsgCompleted,
		logAttrEventCount, eventCount,
		logAttrMaxSequence, maxSequenceNumber,
		logAttrDurationMS, toMilliseconds(duration),
	)

	labels := op.labels(StatusSuccess)
	op.observer.recordDuration(op.ctx, op.durationMetric(), duration, labels)

	countMetric := MetricEventsQueried
	if op.name == OperationAppend {
		countMetric = MetricEventsAppended
	}
	op.observer.recordValue(op.ctx, countMetric, float64(eventCount), labels)

	op.finishSpan(StatusSuccess, map[string]string{
		spanAttrEventCount:  fmt.Sprintf("%d", eventCount),
		spanAttrMaxSequence: fmt.Sprintf("%d", maxSequenceNumber),
	})
}

// Conflicted finishes an Append that lost the optimistic concurrency check.
func (op *Operation) Conflicted(expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint) {
	op.observer.logInfo(op.ctx, logMsgOperation+logMsgConflict, logAttrExpectedSeq, expectedMaxSequenceNumber)

	labels := op.labels(StatusConflict)
	op.observer.recordDuration(op.ctx, op.durationMetric(), time.Since(op.start), labels)
	op.observer.incrementCounter(op.ctx, MetricConcurrencyConflicts, labels)

	op.finishSpan(StatusConflict, nil)
}

// Failed logs the error and finishes the operation with error status.
func (op *Operation) Failed(errorType string, message string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error(), logAttrErrorType, errorType}
	allArgs = append(allArgs, args...)
	op.observer.logError(op.ctx, message, allArgs...)

	labels := op.labels(StatusError)
	op.observer.recordDuration(op.ctx, op.durationMetric(), time.Since(op.start), labels)

	errorLabels := op.labels(StatusError)
	errorLabels[spanAttrErrorType] = errorType
	op.observer.incrementCounter(op.ctx, MetricDatabaseErrors, errorLabels)

	op.finishSpan(StatusError, map[string]string{spanAttrErrorType: errorType})
}

// Warn logs a non-fatal problem, e.g. a failed rows.Close().
func (op *Operation) Warn(message string, err error) {
	if op.observer.ContextualLogger != nil {
		op.observer.ContextualLogger.WarnContext(op.ctx, message, logAttrEngine, op.observer.Engine, logAttrError, err.Error())
		return
	}

	if op.observer.Logger != nil {
		op.observer.Logger.Warn(message, logAttrEngine, op.observer.Engine, logAttrError, err.Error())
	}
}

func (op *Operation) durationMetric() string {
	if op.name == OperationAppend {
		return MetricAppendDuration
	}

	return MetricQueryDuration
}

func (op *Operation) labels(status string) map[string]string {
	return map[string]string{
		spanAttrOperation: op.name,
		labelStatus:       status,
		labelEngine:       op.observer.Engine,
	}
}

func (op *Operation) finishSpan(status string, attrs map[string]string) {
	if op.observer.Tracing != nil && op.span != nil {
		op.observer.Tracing.FinishSpan(op.span, status, attrs)
	}
}

func (o *Observer) logDebug(ctx context.Context, msg string, args ...any) {
	args = append(args, logAttrEngine, o.Engine)

	if o.ContextualLogger != nil {
		o.ContextualLogger.DebugContext(ctx, msg, args...)
		return
	}

	if o.Logger != nil {
		o.Logger.Debug(msg, args...)
	}
}

func (o *Observer) logInfo(ctx context.Context, msg string, args ...any) {
	args = append(args, logAttrEngine, o.Engine)

	if o.ContextualLogger != nil {
		o.ContextualLogger.InfoContext(ctx, msg, args...)
		return
	}

	if o.Logger != nil {
		o.Logger.Info(msg, args...)
	}
}

func (o *Observer) logError(ctx context.Context, msg string, args ...any) {
	args = append(args, logAttrEngine, o.Engine)

	if o.ContextualLogger != nil {
		o.ContextualLogger.ErrorContext(ctx, msg, args...)
		return
	}

	if o.Logger != nil {
		o.Logger.Error(msg, args...)
	}
}

func (o *Observer) recordDuration(ctx context.Context, metric string, d time.Duration, labels map[string]string) {
	if o.Metrics == nil {
		return
	}

	if contextual, ok := o.Metrics.(eventstore.ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(ctx, metric, d, labels)
		return
	}

	o.Metrics.RecordDuration(metric, d, labels)
}

func (o *Observer) recordValue(ctx context.Context, metric string, value float64, labels map[string]string) {
	if o.Metrics == nil {
		return
	}

	if contextual, ok := o.Metrics.(eventstore.ContextualMetricsCollector); ok {
		contextual.RecordValueContext(ctx, metric, value, labels)
		return
	}

	o.Metrics.RecordValue(metric, value, labels)
}

func (o *Observer) incrementCounter(ctx context.Context, metric string, labels map[string]string) {
	if o.Metrics == nil {
		return
	}

	if contextual, ok := o.Metrics.(eventstore.ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(ctx, metric, labels)
		return
	}

	o.Metrics.IncrementCounter(metric, labels)
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
