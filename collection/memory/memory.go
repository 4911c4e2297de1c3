// Package memory is an in-process collection backend for tests and throwaway runs.
package memory

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/tabletop-rentals/rental-ledger-go/collection"
)

const driverName = "memory"

// ErrInjectedWriteFailure is returned by Write while injected failures are pending.
var ErrInjectedWriteFailure = errors.New("injected write failure")

// Backend keeps documents in a map.
type Backend struct {
	mu             sync.RWMutex
	documents      map[string][]byte
	failNextWrites int
	writes         int
}

func New() *Backend {
	return &Backend{documents: make(map[string][]byte)}
}

func (b *Backend) Driver() string {
	return driverName
}

func (b *Backend) Read(_ context.Context, name string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, ok := b.documents[name]
	if !ok {
		return nil, collection.ErrCollectionMissing
	}

	return slices.Clone(data), nil
}

func (b *Backend) Write(_ context.Context, name string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.failNextWrites > 0 {
		b.failNextWrites--
		return ErrInjectedWriteFailure
	}

	b.documents[name] = slices.Clone(data)
	b.writes++

	return nil
}

// FailNextWrites makes the next n calls to Write fail with ErrInjectedWriteFailure.
func (b *Backend) FailNextWrites(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failNextWrites = n
}

// Writes counts the successful writes.
func (b *Backend) Writes() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.writes
}
