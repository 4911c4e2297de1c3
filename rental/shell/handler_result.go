package shell

import (
	"time"

	"github.com/tabletop-rentals/rental-ledger-go/rental/core"
)

// HandlerResult represents the outcome of a command handler execution.
// It captures both business outcomes (idempotency, appended events) and execution metadata (retry information)
// without coupling the handler to specific observability implementations.
type HandlerResult struct {
	// Idempotent indicates whether the operation was idempotent (no state change needed).
	// This is a first-class business outcome, not an error condition.
	Idempotent bool

	// AppendedEvents is the number of events the command appended, e.g. the number of removed clients.
	AppendedEvents int

	// RetryAttempts is the total number of attempts made (1 for no retries, 2+ for retries).
	RetryAttempts int

	// TotalRetryDelay is the cumulative time spent in retry backoff delays.
	TotalRetryDelay time.Duration

	// LastErrorType describes the type of the final error encountered during retries.
	// Values: "none" (success), "concurrency_conflict", "context_canceled", "context_deadline_exceeded", "other"
	LastErrorType string

	// RetriesExhausted indicates whether max retry attempts were reached with a retryable error.
	RetriesExhausted bool
}

// NewSuccessResult creates a HandlerResult for operations that appended events.
func NewSuccessResult(retryMetrics RetryMetrics, appendedEvents int) HandlerResult {
	result := resultFrom(retryMetrics)
	result.AppendedEvents = appendedEvents

	return result
}

// NewIdempotentResult creates a HandlerResult for idempotent operations.
func NewIdempotentResult(retryMetrics RetryMetrics) HandlerResult {
	result := resultFrom(retryMetrics)
	result.Idempotent = true

	return result
}

// NewErrorResult creates a HandlerResult for failed operations.
// This is used when the handler returns an error but still wants to report retry metadata.
func NewErrorResult(retryMetrics RetryMetrics) HandlerResult {
	return resultFrom(retryMetrics)
}

// HandlerResultFrom translates the final decision of a retried command execution into a HandlerResult.
// Business rule violations are returned as error, nothing was appended for them.
func HandlerResultFrom(decision core.DecisionResult, retryMetrics RetryMetrics, err error) (HandlerResult, error) {
	if err != nil {
		return NewErrorResult(retryMetrics), err
	}

	if decisionErr := decision.HasError(); decisionErr != nil {
		return NewErrorResult(retryMetrics), decisionErr
	}

	if decision.HasEventsToAppend() {
		return NewSuccessResult(retryMetrics, len(decision.Events)), nil
	}

	return NewIdempotentResult(retryMetrics), nil
}

func resultFrom(retryMetrics RetryMetrics) HandlerResult {
	return HandlerResult{
		RetryAttempts:    retryMetrics.Attempts,
		TotalRetryDelay:  retryMetrics.TotalDelay,
		LastErrorType:    retryMetrics.LastErrorType,
		RetriesExhausted: retryMetrics.RetriesExhausted,
	}
}
