package cache

import (
	"context"
	"errors"
	"net"
	"time"
)

// ErrUnavailable marks a remote artifact cache that could not be reached.
// Callers treat it as a miss and render the cross-section again.
var ErrUnavailable = errors.New("artifact cache unavailable")

// TransientError is a cache backend failure that may succeed on another
// attempt, such as a dropped Redis connection or a timed out read.
type TransientError struct {
	Op  string // backend operation, e.g. "get" or "ping"
	Err error
}

// Transient marks err from operation op as worth retrying.
func Transient(op string, err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Op: op, Err: err}
}

func (e *TransientError) Error() string { return "cache " + e.Op + ": " + e.Err.Error() }

func (e *TransientError) Unwrap() error { return e.Err }

// IsTransient reports whether err carries a TransientError.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// Backoff controls how remote cache calls are retried.
type Backoff struct {
	Attempts int           // total tries, including the first
	Delay    time.Duration // wait before the second try; doubles after each
}

// DefaultBackoff tries three times, starting at 200ms.
var DefaultBackoff = Backoff{Attempts: 3, Delay: 200 * time.Millisecond}

// Do runs fn until it succeeds, returns a non-transient error, or runs out
// of attempts. Waiting stops early when ctx is done.
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	attempts := max(b.Attempts, 1)
	delay := b.Delay
	var err error
	for i := range attempts {
		if err = fn(); err == nil || !IsTransient(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return err
}

// transient wraps network failures and deadlines of op as retryable
// ErrUnavailable errors. Other errors pass through unchanged.
func transient(op string, err error) error {
	if err == nil {
		return nil
	}
	var ne net.Error
	if errors.As(err, &ne) || errors.Is(err, context.DeadlineExceeded) {
		return Transient(op, errors.Join(ErrUnavailable, err))
	}
	return err
}
