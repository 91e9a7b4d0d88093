package task

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrorClass identifies which failures a retry loop is allowed to retry.
// Nothing in the example pack carries a retry/backoff library (checked
// against every vendored go.sum), so this wrapper is stdlib context+time
// only rather than an adopted dependency.
type ErrorClass int

const (
	ErrorClassConnection ErrorClass = iota
	ErrorClassTimeout
	ErrorClassTransient5xx
)

func (c ErrorClass) String() string {
	switch c {
	case ErrorClassConnection:
		return "connection"
	case ErrorClassTimeout:
		return "timeout"
	case ErrorClassTransient5xx:
		return "transient_5xx"
	default:
		return "unknown"
	}
}

// RetryableError marks err as belonging to class, the only classes WithRetry
// will retry (spec §4.7 "retry policy bounded to connection/timeout/transient
// 5xx errors"). Any other error returned from the retried function is
// treated as permanent and returned immediately.
type RetryableError struct {
	Class ErrorClass
	Err   error
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("%s: %v", e.Class, e.Err)
}

func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err so WithRetry recognizes it as retryable under class.
func Retryable(class ErrorClass, err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Class: class, Err: err}
}

// RetryConfig bounds WithRetry's attempt count and backoff growth.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultRetryConfig returns 3 attempts with a 500ms base delay, doubling
// per attempt (waits of 500ms and 1s between the three attempts).
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{MaxAttempts: 3, BaseDelay: 500 * time.Millisecond}
}

// WithRetry calls fn until it succeeds, returns a non-retryable error, or
// exhausts cfg.MaxAttempts. ctx cancellation aborts the wait between
// attempts immediately.
func WithRetry(ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) error) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}

		var retryable *RetryableError
		if !errors.As(err, &retryable) {
			return err
		}
		lastErr = err

		if attempt == cfg.MaxAttempts-1 {
			break
		}

		delay := cfg.BaseDelay * time.Duration(1<<uint(attempt))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return lastErr
}
