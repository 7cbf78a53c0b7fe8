// Package provider defines the uniform contract for external translation
// sources. Adapters are stateless beyond their endpoint and timeout
// configuration; availability flags live in the resolver's circuit breaker,
// never in the adapter itself.
package provider

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for adapter failures. Both are absorbed by the resolver's
// tier fallback and never reach the engine caller.
var (
	// ErrTimeout marks a call that exceeded the adapter's deadline.
	ErrTimeout = errors.New("provider timeout")
	// ErrUnavailable marks an adapter whose backing service is unreachable
	// or returned an unusable response.
	ErrUnavailable = errors.New("provider unavailable")
)

// Adapter translates a single text fragment between two languages.
type Adapter interface {
	// Name returns the stable adapter identifier used by the circuit
	// breaker and metrics.
	Name() string

	// Translate converts text from src to dst. The context carries the
	// per-attempt deadline set by the resolver. An empty result with a nil
	// error is treated as a miss by the caller.
	Translate(ctx context.Context, text, src, dst string) (string, error)
}

// Prober is implemented by adapters with a cheap liveness check. The
// resolver consults it before attempting a costly tier. A positive answer
// is a hint, not a guarantee.
type Prober interface {
	IsAvailable(ctx context.Context) bool
}

// Descriptor carries the resolver-facing configuration of one adapter.
type Descriptor struct {
	Name     string
	Priority int
	Timeout  time.Duration
}

// Error wraps an adapter failure with its origin.
type Error struct {
	Provider string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// WrapErr classifies err for the named provider. Context deadline errors
// become ErrTimeout so the breaker can treat slow and broken adapters alike.
func WrapErr(name string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Provider: name, Err: ErrTimeout}
	}
	return &Error{Provider: name, Err: err}
}
