package confirm

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultTTL = 5 * time.Minute

var (
	ErrUnknownToken = errors.New("unknown confirmation token")
	ErrTokenExpired = errors.New("confirmation token expired")
	ErrInvalidTTL   = errors.New("confirmation ttl must be positive")
	ErrNilAction    = errors.New("confirmation action must not be nil")
)

// Token identifies a pending operation.
type Token string

// Action is the deferred operation, it runs when the token is confirmed.
type Action[R any] func(ctx context.Context) (R, error)

// Pending describes a requested but not yet confirmed operation.
type Pending struct {
	Token     Token
	Kind      string
	Subject   string
	ExpiresAt time.Time
}

type entry[R any] struct {
	pending Pending
	action  Action[R]
}

// Registry keeps the pending operations of one process. It is safe for concurrent use.
type Registry[R any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[Token]entry[R]
}

// Option configures a Registry.
type Option func(*registryOptions) error

type registryOptions struct {
	ttl time.Duration
	now func() time.Time
}

// WithTTL sets how long a token stays valid.
func WithTTL(ttl time.Duration) Option {
	return func(o *registryOptions) error {
		if ttl <= 0 {
			return ErrInvalidTTL
		}

		o.ttl = ttl

		return nil
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *registryOptions) error {
		if now != nil {
			o.now = now
		}

		return nil
	}
}

// NewRegistry creates an empty Registry, tokens expire after 5 minutes unless WithTTL says otherwise.
func NewRegistry[R any](options ...Option) (*Registry[R], error) {
	opts := registryOptions{ttl: defaultTTL, now: time.Now}

	for _, option := range options {
		if err := option(&opts); err != nil {
			return nil, err
		}
	}

	return &Registry[R]{
		ttl:     opts.ttl,
		now:     opts.now,
		entries: make(map[Token]entry[R]),
	}, nil
}

// Request registers action under a new random token.
// Kind and subject only describe the operation, e.g. "ItemRemoval" and "Catan".
func (r *Registry[R]) Request(kind string, subject string, action Action[R]) (Pending, error) {
	if action == nil {
		return Pending{}, ErrNilAction
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.pruneExpired(now)

	pending := Pending{
		Token:     Token(uuid.NewString()),
		Kind:      kind,
		Subject:   subject,
		ExpiresAt: now.Add(r.ttl),
	}

	r.entries[pending.Token] = entry[R]{pending: pending, action: action}

	return pending, nil
}

// Confirm runs the action registered under token.
//
// The token is consumed before the action runs, so a second Confirm with the same token
// returns ErrUnknownToken even when the action failed.
func (r *Registry[R]) Confirm(ctx context.Context, token Token) (R, error) {
	var zero R

	r.mu.Lock()
	e, ok := r.entries[token]
	if ok {
		delete(r.entries, token)
	}
	now := r.now()
	r.mu.Unlock()

	if !ok {
		return zero, ErrUnknownToken
	}

	if !now.Before(e.pending.ExpiresAt) {
		return zero, ErrTokenExpired
	}

	return e.action(ctx)
}

// Cancel drops a pending operation. It reports whether the token was pending.
func (r *Registry[R]) Cancel(token Token) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.entries[token]
	delete(r.entries, token)

	return ok
}

// Lookup returns the pending operation for token without consuming it.
func (r *Registry[R]) Lookup(token Token) (Pending, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[token]
	if !ok || !r.now().Before(e.pending.ExpiresAt) {
		return Pending{}, false
	}

	return e.pending, true
}

// Len returns the number of tokens that are still valid.
func (r *Registry[R]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pruneExpired(r.now())

	return len(r.entries)
}

func (r *Registry[R]) pruneExpired(now time.Time) {
	for token, e := range r.entries {
		if !now.Before(e.pending.ExpiresAt) {
			delete(r.entries, token)
		}
	}
}
