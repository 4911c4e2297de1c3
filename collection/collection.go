package collection

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/tabletop-rentals/rental-ledger-go/eventstore"
)

var (
	// ErrStorageCorrupt is reported by Load when a stored collection could not be parsed and was reset to empty.
	ErrStorageCorrupt = errors.New("stored collection is corrupt and was reset")

	// ErrStorageWriteFailed is returned by Save once all write attempts failed. The previous document is untouched.
	ErrStorageWriteFailed = errors.New("writing the collection failed")

	// ErrCollectionMissing is returned by Backend.Read when nothing was stored under the name yet.
	ErrCollectionMissing = errors.New("collection does not exist")

	ErrNilBackend      = errors.New("collection backend must not be nil")
	ErrInvalidAttempts = errors.New("write attempts must be at least 1")
)

const (
	defaultWriteAttempts  = 3
	defaultWriteBaseDelay = 20 * time.Millisecond

	logMsgCorruptReset  = "collection was corrupt and has been reset"
	logMsgWriteRetry    = "collection write failed, retrying"
	logMsgWriteFailed   = "collection write failed permanently"
	logAttrCollection   = "collection"
	logAttrDriver       = "driver"
	logAttrAttempt      = "attempt"
	logAttrError        = "error"
	metricCorruptResets = "collection_corrupt_resets_total"
	metricWriteFailures = "collection_write_failures_total"
	metricWriteDuration = "collection_write_duration_seconds"
	labelCollection     = "collection"
	labelDriver         = "driver"
	labelStatus         = "status"
	statusSuccess       = "success"
	statusError         = "error"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ID names one of the persisted collections.
type ID string

const (
	Catalog ID = "catalog"
	Clients ID = "clients"
	Rentals ID = "rentals"
	History ID = "history"
)

// IDs lists all collections in a stable order.
func IDs() []ID {
	return []ID{Catalog, Clients, Rentals, History}
}

// Backend stores opaque documents under a name. Write must replace the previous document atomically.
type Backend interface {
	Driver() string
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, data []byte) error
}

// Document is the stored form of a collection.
type Document[T any] struct {
	SequenceNumber eventstore.MaxSequenceNumberUint `json:"sequenceNumber"`
	Records        []T                              `json:"records"`
}

// Store loads and saves typed collections through a Backend.
type Store struct {
	backend        Backend
	writeAttempts  int
	writeBaseDelay time.Duration
	logger         eventstore.Logger
	metrics        eventstore.MetricsCollector
}

// Option configures a Store.
type Option func(*Store) error

// WithWriteRetry sets how often Save tries to write and the delay before the first retry, which doubles per retry.
func WithWriteRetry(attempts int, baseDelay time.Duration) Option {
	return func(s *Store) error {
		if attempts < 1 {
			return ErrInvalidAttempts
		}

		s.writeAttempts = attempts
		s.writeBaseDelay = baseDelay

		return nil
	}
}

func WithLogger(logger eventstore.Logger) Option {
	return func(s *Store) error {
		s.logger = logger
		return nil
	}
}

func WithMetrics(collector eventstore.MetricsCollector) Option {
	return func(s *Store) error {
		s.metrics = collector
		return nil
	}
}

// NewStore creates a Store on top of backend.
func NewStore(backend Backend, options ...Option) (*Store, error) {
	if backend == nil {
		return nil, ErrNilBackend
	}

	s := &Store{
		backend:        backend,
		writeAttempts:  defaultWriteAttempts,
		writeBaseDelay: defaultWriteBaseDelay,
	}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Driver names the backend, e.g. "fs" or "s3".
func (s *Store) Driver() string {
	return s.backend.Driver()
}

// Load reads the collection. A missing collection is an empty document.
//
// A corrupt collection is reset: the empty document is saved and returned together with an error wrapping
// ErrStorageCorrupt, which callers treat as a warning. Other errors come from the backend.
func Load[T any](ctx context.Context, s *Store, id ID) (Document[T], error) {
	empty := Document[T]{Records: []T{}}

	data, err := s.backend.Read(ctx, string(id))
	if errors.Is(err, ErrCollectionMissing) {
		return empty, nil
	}

	if err != nil {
		return empty, fmt.Errorf("read collection %s: %w", id, err)
	}

	var doc Document[T]
	if err = json.Unmarshal(data, &doc); err != nil {
		return empty, s.resetCorrupt(ctx, id, err)
	}

	if doc.Records == nil {
		doc.Records = []T{}
	}

	return doc, nil
}

// Save replaces the collection with records, remembering the event log position they reflect.
func Save[T any](ctx context.Context, s *Store, id ID, sequenceNumber eventstore.MaxSequenceNumberUint, records []T) error {
	if records == nil {
		records = []T{}
	}

	data, err := json.Marshal(Document[T]{SequenceNumber: sequenceNumber, Records: records})
	if err != nil {
		return errors.Join(ErrStorageWriteFailed, err)
	}

	return s.write(ctx, id, data)
}

func (s *Store) resetCorrupt(ctx context.Context, id ID, parseErr error) error {
	s.logWarn(logMsgCorruptReset, logAttrCollection, string(id), logAttrDriver, s.backend.Driver(), logAttrError, parseErr.Error())
	s.incrementCounter(metricCorruptResets, map[string]string{labelCollection: string(id), labelDriver: s.backend.Driver()})

	corruptErr := fmt.Errorf("%w: %s: %w", ErrStorageCorrupt, id, parseErr)

	if err := Save(ctx, s, id, 0, []struct{}{}); err != nil {
		return errors.Join(corruptErr, err)
	}

	return corruptErr
}

func (s *Store) write(ctx context.Context, id ID, data []byte) error {
	start := time.Now()
	var lastErr error

	for attempt := range s.writeAttempts {
		if attempt > 0 {
			s.logWarn(logMsgWriteRetry, logAttrCollection, string(id), logAttrAttempt, attempt, logAttrError, lastErr.Error())

			select {
			case <-ctx.Done():
				return errors.Join(ErrStorageWriteFailed, ctx.Err(), lastErr)
			case <-time.After(s.backoff(attempt)):
			}
		}

		if lastErr = s.backend.Write(ctx, string(id), data); lastErr == nil {
			s.recordDuration(metricWriteDuration, time.Since(start), s.writeLabels(id, statusSuccess))
			return nil
		}
	}

	s.logError(logMsgWriteFailed, logAttrCollection, string(id), logAttrDriver, s.backend.Driver(), logAttrError, lastErr.Error())
	s.recordDuration(metricWriteDuration, time.Since(start), s.writeLabels(id, statusError))
	s.incrementCounter(metricWriteFailures, s.writeLabels(id, statusError))

	return errors.Join(ErrStorageWriteFailed, lastErr)
}

func (s *Store) backoff(attempt int) time.Duration {
	return time.Duration(float64(s.writeBaseDelay) * math.Pow(2, float64(attempt-1)))
}

func (s *Store) writeLabels(id ID, status string) map[string]string {
	return map[string]string{labelCollection: string(id), labelDriver: s.backend.Driver(), labelStatus: status}
}

func (s *Store) logWarn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}

func (s *Store) logError(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Error(msg, args...)
	}
}

func (s *Store) incrementCounter(metric string, labels map[string]string) {
	if s.metrics != nil {
		s.metrics.IncrementCounter(metric, labels)
	}
}

func (s *Store) recordDuration(metric string, d time.Duration, labels map[string]string) {
	if s.metrics != nil {
		s.metrics.RecordDuration(metric, d, labels)
	}
}
