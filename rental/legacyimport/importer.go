package legacyimport

import (
	"context"
	"errors"
	"io/fs"
	"time"

	"github.com/google/uuid"

	"github.com/tabletop-rentals/rental-ledger-go/eventstore"
	"github.com/tabletop-rentals/rental-ledger-go/rental/shell"
)

const (
	logMsgImportIssue     = "legacy import issue"
	logMsgImportCompleted = "legacy import completed"

	logAttrFile    = "file"
	logAttrIndex   = "index"
	logAttrRecord  = "record"
	logAttrProblem = "problem"
	logAttrEvents  = "appended_events"
	logAttrIssues  = "issues"
	logAttrItems   = "items"
	logAttrClients = "clients"
	logAttrRentals = "rentals"
	logAttrEntries = "history_entries"
)

var (
	ErrLogNotEmpty  = errors.New("legacy data can only be imported into an empty event log")
	ErrImportFailed = errors.New("legacy import failed")

	ErrGeneratingIDFailed = errors.New("generating an id failed")
)

// Importer appends legacy data to an event store.
type Importer struct {
	eventStore shell.EventStore
	logger     eventstore.Logger
	now        func() time.Time
	newID      func() (uuid.UUID, error)
}

// Option configures an Importer.
type Option func(*Importer)

// WithLogger sets the logger that receives the report.
func WithLogger(logger eventstore.Logger) Option {
	return func(i *Importer) {
		i.logger = logger
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(i *Importer) {
		if now != nil {
			i.now = now
		}
	}
}

// WithIDGenerator replaces the time ordered UUIDs used for clients and rentals.
func WithIDGenerator(newID func() (uuid.UUID, error)) Option {
	return func(i *Importer) {
		if newID != nil {
			i.newID = newID
		}
	}
}

// NewImporter creates an Importer for eventStore.
func NewImporter(eventStore shell.EventStore, opts ...Option) Importer {
	importer := Importer{
		eventStore: eventStore,
		now:        time.Now,
		newID:      uuid.NewV7,
	}

	for _, opt := range opts {
		opt(&importer)
	}

	return importer
}

// Import reads the legacy files from fsys and appends all resulting events in one batch.
// It fails with ErrLogNotEmpty when the event log already holds events, nothing is appended then.
func (i Importer) Import(ctx context.Context, fsys fs.FS) (Report, error) {
	filter := eventstore.BuildEventFilter().MatchingAnyEvent()

	ctx = eventstore.WithStrongConsistency(ctx)

	// Query phase
	_, maxSequenceNumber, err := i.eventStore.Query(ctx, filter)
	if err != nil {
		return Report{}, errors.Join(ErrImportFailed, err)
	}

	if maxSequenceNumber > 0 {
		return Report{}, ErrLogNotEmpty
	}

	// Planning phase
	data, readIssues := Read(fsys)
	var idErr error
	newID := func() uuid.UUID {
		id, err := i.newID()
		if err != nil && idErr == nil {
			idErr = err
		}

		return id
	}

	events, report := Plan(data, i.now(), newID)
	if idErr != nil {
		return Report{}, errors.Join(ErrImportFailed, ErrGeneratingIDFailed, idErr)
	}
	report.Issues = append(readIssues, report.Issues...)

	// Append phase
	if len(events) > 0 {
		storableEvents, mappingErr := shell.StorableEventsFrom(events, shell.NewCommandMetadata())
		if mappingErr != nil {
			return Report{}, errors.Join(ErrImportFailed, mappingErr)
		}

		if appendErr := i.eventStore.Append(ctx, filter, maxSequenceNumber, storableEvents...); appendErr != nil {
			if errors.Is(appendErr, eventstore.ErrConcurrencyConflict) {
				return Report{}, errors.Join(ErrLogNotEmpty, appendErr)
			}

			return Report{}, errors.Join(ErrImportFailed, appendErr)
		}
	}

	i.logReport(report)

	return report, nil
}

func (i Importer) logReport(report Report) {
	if i.logger == nil {
		return
	}

	for _, issue := range report.Issues {
		i.logger.Warn(logMsgImportIssue,
			logAttrFile, issue.File,
			logAttrIndex, issue.Index,
			logAttrRecord, issue.Record,
			logAttrProblem, issue.Problem,
		)
	}

	i.logger.Info(logMsgImportCompleted,
		logAttrEvents, report.AppendedEvents,
		logAttrItems, report.ItemsImported,
		logAttrClients, report.ClientsImported,
		logAttrRentals, report.RentalsImported,
		logAttrEntries, report.HistoryEntriesImported,
		logAttrIssues, len(report.Issues),
	)
}
