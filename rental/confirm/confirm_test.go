package confirm_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabletop-rentals/rental-ledger-go/rental/confirm"
)

func Test_Confirm_RunsActionOnce(t *testing.T) {
	// setup
	ctx := context.Background()
	registry := givenRegistry(t, nil)
	calls := 0

	// arrange
	pending, err := registry.Request("ItemRemoval", "Catan", func(context.Context) (int, error) {
		calls++
		return calls, nil
	})
	require.NoError(t, err)

	// act
	first, firstErr := registry.Confirm(ctx, pending.Token)
	_, secondErr := registry.Confirm(ctx, pending.Token)

	// assert
	require.NoError(t, firstErr)
	assert.Equal(t, 1, first)
	assert.ErrorIs(t, secondErr, confirm.ErrUnknownToken)
	assert.Equal(t, 1, calls)
}

func Test_Request_DoesNotRunAction(t *testing.T) {
	// arrange
	registry := givenRegistry(t, nil)
	called := false

	// act
	pending, err := registry.Request("HistoryClear", "", func(context.Context) (int, error) {
		called = true
		return 0, nil
	})

	// assert
	require.NoError(t, err)
	assert.False(t, called)
	assert.NotEmpty(t, pending.Token)
	assert.Equal(t, "HistoryClear", pending.Kind)
	assert.Equal(t, 1, registry.Len())
}

func Test_Request_RejectsNilAction(t *testing.T) {
	// arrange
	registry := givenRegistry(t, nil)

	// act
	_, err := registry.Request("ItemRemoval", "Catan", nil)

	// assert
	assert.ErrorIs(t, err, confirm.ErrNilAction)
}

func Test_Confirm_UnknownToken(t *testing.T) {
	// arrange
	registry := givenRegistry(t, nil)

	// act
	_, err := registry.Confirm(context.Background(), confirm.Token("no-such-token"))

	// assert
	assert.ErrorIs(t, err, confirm.ErrUnknownToken)
}

func Test_Confirm_ExpiredToken(t *testing.T) {
	// setup
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	registry := givenRegistry(t, clock, confirm.WithTTL(time.Minute))
	called := false

	// arrange
	pending, err := registry.Request("ClientRemoval", "Anna Nowak", func(context.Context) (int, error) {
		called = true
		return 0, nil
	})
	require.NoError(t, err)
	clock.advance(time.Minute)

	// act
	_, confirmErr := registry.Confirm(context.Background(), pending.Token)

	// assert
	assert.ErrorIs(t, confirmErr, confirm.ErrTokenExpired)
	assert.False(t, called)
	assert.Equal(t, 0, registry.Len())
}

func Test_Confirm_ConsumesTokenWhenActionFails(t *testing.T) {
	// setup
	ctx := context.Background()
	registry := givenRegistry(t, nil)
	actionErr := errors.New("boom")

	// arrange
	pending, err := registry.Request("ItemRemoval", "Catan", func(context.Context) (int, error) {
		return 0, actionErr
	})
	require.NoError(t, err)

	// act
	_, firstErr := registry.Confirm(ctx, pending.Token)
	_, secondErr := registry.Confirm(ctx, pending.Token)

	// assert
	assert.ErrorIs(t, firstErr, actionErr)
	assert.ErrorIs(t, secondErr, confirm.ErrUnknownToken)
}

func Test_Cancel_DropsPendingOperation(t *testing.T) {
	// arrange
	registry := givenRegistry(t, nil)
	pending, err := registry.Request("ItemRemoval", "Catan", func(context.Context) (int, error) { return 0, nil })
	require.NoError(t, err)

	// act
	cancelled := registry.Cancel(pending.Token)
	_, lookedUp := registry.Lookup(pending.Token)

	// assert
	assert.True(t, cancelled)
	assert.False(t, lookedUp)
	assert.False(t, registry.Cancel(pending.Token))
}

func Test_Lookup_ReturnsPendingOperation(t *testing.T) {
	// setup
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	registry := givenRegistry(t, clock, confirm.WithTTL(2*time.Minute))

	// arrange
	pending, err := registry.Request("ItemRemoval", "Catan", func(context.Context) (int, error) { return 0, nil })
	require.NoError(t, err)

	// act
	found, ok := registry.Lookup(pending.Token)

	// assert
	require.True(t, ok)
	assert.Equal(t, "Catan", found.Subject)
	assert.Equal(t, clock.now.Add(2*time.Minute), found.ExpiresAt)
}

func Test_NewRegistry_RejectsInvalidTTL(t *testing.T) {
	// act
	_, err := confirm.NewRegistry[int](confirm.WithTTL(0))

	// assert
	assert.ErrorIs(t, err, confirm.ErrInvalidTTL)
}

func Test_Confirm_ConcurrentConfirmationsRunActionOnce(t *testing.T) {
	// setup
	ctx := context.Background()
	registry := givenRegistry(t, nil)
	var calls atomic.Int32

	// arrange
	pending, err := registry.Request("HistoryClear", "", func(context.Context) (int, error) {
		calls.Add(1)
		return 0, nil
	})
	require.NoError(t, err)

	// act
	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = registry.Confirm(ctx, pending.Token)
		}()
	}
	wg.Wait()

	// assert
	assert.Equal(t, int32(1), calls.Load())
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

func givenRegistry(t *testing.T, clock *fakeClock, options ...confirm.Option) *confirm.Registry[int] {
	t.Helper()

	if clock != nil {
		options = append(options, confirm.WithClock(clock.Now))
	}

	registry, err := confirm.NewRegistry[int](options...)
	require.NoError(t, err)

	return registry
}
