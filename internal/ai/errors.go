package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/CodexForgeBR/batchgen/internal/ratelimit"
)

// ErrStreamInactive is the cancellation cause set by MonitorStream when a
// stream stops producing output.
var ErrStreamInactive = errors.New("stream inactive")

// ErrStreamHardCap is the cancellation cause set by MonitorStream when a
// stream outlives its hard cap.
var ErrStreamHardCap = errors.New("stream exceeded hard cap")

// TransientError represents a temporary error that may succeed on retry.
type TransientError struct {
	err error
}

func (e *TransientError) Error() string { return e.err.Error() }
func (e *TransientError) Unwrap() error { return e.err }

// NewTransientError wraps an error as transient (retryable).
func NewTransientError(err error) error {
	return &TransientError{err: err}
}

// FatalError represents a permanent error that should not be retried.
type FatalError struct {
	err error
}

func (e *FatalError) Error() string { return e.err.Error() }
func (e *FatalError) Unwrap() error { return e.err }

// NewFatalError wraps an error as fatal (non-retryable).
func NewFatalError(err error) error {
	return &FatalError{err: err}
}

// RateLimitError is a transient error carrying the provider's wait hint.
type RateLimitError struct {
	Info          *ratelimit.Info
	UnderlyingErr error
}

func (e *RateLimitError) Error() string {
	if e.Info != nil && e.Info.Parseable {
		return fmt.Sprintf("rate limit detected (retry after %s)", e.Info.RetryAfter)
	}
	return "rate limit detected (retry hint unknown)"
}

func (e *RateLimitError) Unwrap() error {
	return e.UnderlyingErr
}

// IsTransient returns true if the error is transient and should be retried.
func IsTransient(err error) bool {
	var transient *TransientError
	return errors.As(err, &transient)
}

// IsFatal returns true if the error is fatal and should not be retried.
func IsFatal(err error) bool {
	var fatal *FatalError
	return errors.As(err, &fatal)
}

// RetryAfter returns the provider wait hint carried by err, if any.
func RetryAfter(err error) (time.Duration, bool) {
	var rl *RateLimitError
	if errors.As(err, &rl) && rl.Info != nil && rl.Info.Parseable {
		return rl.Info.RetryAfter, true
	}
	return 0, false
}

// Classify wraps err according to the HTTP status the backend returned.
// A zero status falls back to inspecting the message.
func Classify(statusCode int, err error) error {
	info := ratelimit.Detect(err.Error())

	switch {
	case statusCode == http.StatusTooManyRequests, statusCode == 0 && info != nil:
		if info == nil {
			info = &ratelimit.Info{Detected: true}
		}
		return &RateLimitError{Info: info, UnderlyingErr: NewTransientError(err)}
	case statusCode == 0:
		return NewTransientError(err)
	case statusCode == http.StatusRequestTimeout:
		return NewTransientError(err)
	case statusCode >= 500:
		return NewTransientError(err)
	case statusCode == http.StatusUnauthorized,
		statusCode == http.StatusForbidden,
		statusCode == http.StatusBadRequest,
		statusCode == http.StatusNotFound:
		return NewFatalError(err)
	default:
		return NewFatalError(err)
	}
}

// contextError maps a cancelled stream context to the error the caller
// should see. It returns nil when ctx is still live.
func contextError(ctx context.Context, err error) error {
	if ctx.Err() == nil {
		return nil
	}
	cause := context.Cause(ctx)
	switch {
	case errors.Is(cause, ErrStreamInactive), errors.Is(cause, ErrStreamHardCap):
		return NewTransientError(fmt.Errorf("%w: %v", cause, err))
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return NewTransientError(fmt.Errorf("stream timed out: %w", err))
	default:
		return cause
	}
}
