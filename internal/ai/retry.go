package ai

import "time"

// Default retry ladder settings.
const (
	DefaultMaxRetries = 3
	DefaultBaseDelay  = time.Second
)

// RetryPolicy configures the linear retry ladder for incomplete batches.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	OnRetry    func(attempt int, delay time.Duration)
}

// DefaultRetryPolicy returns three retries with a one second step.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: DefaultMaxRetries, BaseDelay: DefaultBaseDelay}
}

// CanRetry reports whether another attempt is allowed after attempts
// retries have already been spent.
func (p RetryPolicy) CanRetry(attempts int) bool {
	return attempts < p.MaxRetries
}

// Delay returns BaseDelay*(attempts+1), where attempts is the count before
// this retry. A rate-limit hint longer than that wins.
func (p RetryPolicy) Delay(attempts int, cause error) time.Duration {
	base := p.BaseDelay
	if base <= 0 {
		base = DefaultBaseDelay
	}
	d := base * time.Duration(attempts+1)
	if hint, ok := RetryAfter(cause); ok && hint > d {
		d = hint
	}
	return d
}

// Notify calls OnRetry when set.
func (p RetryPolicy) Notify(attempt int, delay time.Duration) {
	if p.OnRetry != nil {
		p.OnRetry(attempt, delay)
	}
}
