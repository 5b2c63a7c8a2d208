// Package resilience wraps persistence calls with a deadline and a
// bounded exponential-backoff retry for environments with strict
// per-request execution limits.
package resilience

import (
	"context"
	"time"

	"menu-api/apperr"
)

// Operation is a cancellable unit of work. The context carries the
// deadline; implementations must propagate it into their store calls so
// a timed-out operation is actually aborted, not merely ignored.
type Operation func(ctx context.Context) error

// ErrTimeout is returned when an operation outlives its deadline. It
// surfaces to clients as a 500 unless a handler maps it otherwise.
var ErrTimeout = apperr.Internal("operation timed out")

const (
	dbTimeout    = 20 * time.Second
	dbMaxRetries = 2
	dbBaseDelay  = 500 * time.Millisecond
)

// WithTimeout runs op under a derived deadline. The select guards
// against operations that ignore their context.
func WithTimeout(ctx context.Context, timeout time.Duration, op Operation) error {
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- op(tctx) }()

	select {
	case err := <-done:
		return err
	case <-tctx.Done():
		return ErrTimeout
	}
}

// WithRetry re-invokes op with exponential backoff (baseDelay * 2^attempt)
// up to maxRetries additional attempts. Client-side (4xx) failures are
// returned immediately: retrying them cannot succeed.
func WithRetry(ctx context.Context, maxRetries int, baseDelay time.Duration, op Operation) error {
	var err error
	for attempt := 0; ; attempt++ {
		if err = op(ctx); err == nil {
			return nil
		}
		if apperr.IsClientError(err) || attempt >= maxRetries {
			return err
		}

		delay := baseDelay << attempt
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}
}

// DBOperation guards a persistence call: up to 2 retries with a 500ms
// base delay, all inside a 20-second deadline.
func DBOperation(ctx context.Context, op Operation) error {
	return WithTimeout(ctx, dbTimeout, func(tctx context.Context) error {
		return WithRetry(tctx, dbMaxRetries, dbBaseDelay, op)
	})
}
