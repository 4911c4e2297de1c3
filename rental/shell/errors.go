package shell

import "errors"

// ErrRetriesExhausted is returned when a command lost the optimistic concurrency check on every attempt.
var ErrRetriesExhausted = errors.New("concurrency conflict retries exhausted")
