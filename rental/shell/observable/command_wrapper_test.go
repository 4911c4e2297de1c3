package observable_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabletop-rentals/rental-ledger-go/eventstore"
	"github.com/tabletop-rentals/rental-ledger-go/rental/core"
	"github.com/tabletop-rentals/rental-ledger-go/rental/shell"
	"github.com/tabletop-rentals/rental-ledger-go/rental/shell/observable"
	"github.com/tabletop-rentals/rental-ledger-go/testutil/observability/testdoubles"
)

func Test_CommandWrapper_Handle_Success(t *testing.T) {
	// arrange
	expectedResult := shell.HandlerResult{AppendedEvents: 1, RetryAttempts: 1, LastErrorType: "none"}
	handler := newMockHandler(expectedResult, nil)
	metrics := testdoubles.NewMetricsCollectorSpy()
	tracing := testdoubles.NewTracingCollectorSpy()
	logger := testdoubles.NewContextualLoggerSpy()

	wrapper, err := observable.NewCommandWrapper[mockCommand](
		handler,
		observable.WithCommandMetrics[mockCommand](metrics),
		observable.WithCommandTracing[mockCommand](tracing),
		observable.WithCommandContextualLogging[mockCommand](logger),
	)
	require.NoError(t, err)

	// act
	result, err := wrapper.Handle(context.Background(), mockCommand{})

	// assert
	assert.NoError(t, err)
	assert.Equal(t, expectedResult, result)
	assert.Equal(t, 1, handler.callCount())
	assert.True(t, metrics.HasCounter(shell.CommandHandlerCallsMetric, shell.BuildCommandLabels("TestCommand", shell.StatusSuccess)))
	assert.True(t, metrics.HasDuration(shell.CommandHandlerDurationMetric, shell.BuildCommandLabels("TestCommand", shell.StatusSuccess)))
	assert.True(t, logger.HasLog("info", shell.LogMsgCommandCompleted))

	spans := tracing.Spans(shell.SpanNameCommandHandle)
	require.Len(t, spans, 1)
	assert.True(t, spans[0].Finished())
	assert.Equal(t, shell.StatusSuccess, spans[0].Status())
}

func Test_CommandWrapper_Handle_Idempotent(t *testing.T) {
	// arrange
	handler := newMockHandler(shell.HandlerResult{Idempotent: true, RetryAttempts: 1}, nil)
	metrics := testdoubles.NewMetricsCollectorSpy()

	wrapper, err := observable.NewCommandWrapper[mockCommand](handler, observable.WithCommandMetrics[mockCommand](metrics))
	require.NoError(t, err)

	// act
	result, err := wrapper.Handle(context.Background(), mockCommand{})

	// assert
	assert.NoError(t, err)
	assert.True(t, result.Idempotent)
	assert.True(t, metrics.HasCounter(shell.CommandHandlerIdempotentMetric, map[string]string{shell.LogAttrCommandType: "TestCommand"}))
}

func Test_CommandWrapper_Handle_BusinessRuleViolationIsRecordedAsRejected(t *testing.T) {
	// arrange
	handler := newMockHandler(shell.HandlerResult{RetryAttempts: 1}, core.ErrItemUnavailable)
	metrics := testdoubles.NewMetricsCollectorSpy()
	logger := testdoubles.NewContextualLoggerSpy()

	wrapper, err := observable.NewCommandWrapper[mockCommand](
		handler,
		observable.WithCommandMetrics[mockCommand](metrics),
		observable.WithCommandContextualLogging[mockCommand](logger),
	)
	require.NoError(t, err)

	// act
	_, err = wrapper.Handle(context.Background(), mockCommand{})

	// assert
	assert.ErrorIs(t, err, core.ErrItemUnavailable)
	assert.True(t, metrics.HasCounter(shell.CommandHandlerRejectedMetric, map[string]string{shell.LogAttrCommandType: "TestCommand"}))
	assert.True(t, logger.HasLog("info", shell.LogMsgCommandRejected))
	assert.False(t, logger.HasLog("error", shell.LogMsgCommandFailed))
}

func Test_CommandWrapper_Handle_ExhaustedConflictIsRecordedAsConcurrencyConflict(t *testing.T) {
	// arrange
	handlerErr := errors.Join(shell.ErrRetriesExhausted, eventstore.ErrConcurrencyConflict)
	handler := newMockHandler(shell.HandlerResult{RetryAttempts: 6, RetriesExhausted: true}, handlerErr)
	metrics := testdoubles.NewMetricsCollectorSpy()
	tracing := testdoubles.NewTracingCollectorSpy()
	logger := testdoubles.NewContextualLoggerSpy()

	wrapper, err := observable.NewCommandWrapper[mockCommand](
		handler,
		observable.WithCommandMetrics[mockCommand](metrics),
		observable.WithCommandTracing[mockCommand](tracing),
		observable.WithCommandContextualLogging[mockCommand](logger),
	)
	require.NoError(t, err)

	// act
	_, err = wrapper.Handle(context.Background(), mockCommand{})

	// assert
	assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
	assert.True(t, metrics.HasCounter(shell.CommandHandlerConcurrencyConflictMetric, map[string]string{shell.LogAttrCommandType: "TestCommand"}))
	assert.True(t, metrics.HasDuration(shell.CommandHandlerRetryDelayMetric, map[string]string{shell.LogAttrCommandType: "TestCommand"}))
	assert.True(t, logger.HasLog("error", shell.LogMsgCommandFailed))
	assert.Equal(t, shell.StatusConcurrencyConflict, tracing.Spans(shell.SpanNameCommandHandle)[0].Status())
}

func Test_CommandWrapper_Handle_CanceledContext(t *testing.T) {
	// arrange
	handler := newMockHandler(shell.HandlerResult{}, context.Canceled)
	metrics := testdoubles.NewMetricsCollectorSpy()

	wrapper, err := observable.NewCommandWrapper[mockCommand](handler, observable.WithCommandMetrics[mockCommand](metrics))
	require.NoError(t, err)

	// act
	_, err = wrapper.Handle(context.Background(), mockCommand{})

	// assert
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, metrics.HasCounter(shell.CommandHandlerCanceledMetric, map[string]string{shell.LogAttrCommandType: "TestCommand"}))
}

func Test_CommandWrapper_Handle_WithoutObservability(t *testing.T) {
	// arrange
	handler := newMockHandler(shell.HandlerResult{}, nil)

	wrapper, err := observable.NewCommandWrapper[mockCommand](handler)
	require.NoError(t, err)

	// act
	_, err = wrapper.Handle(context.Background(), mockCommand{})

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 1, handler.callCount())
}

type mockCommand struct{}

func (mockCommand) CommandType() string {
	return "TestCommand"
}

type mockHandler struct {
	result shell.HandlerResult
	err    error
	calls  int
	mu     sync.Mutex
}

func newMockHandler(result shell.HandlerResult, err error) *mockHandler {
	return &mockHandler{result: result, err: err}
}

func (h *mockHandler) Handle(_ context.Context, _ mockCommand) (shell.HandlerResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls++

	return h.result, h.err
}

func (h *mockHandler) callCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.calls
}
