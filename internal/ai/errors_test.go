package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		message   string
		transient bool
		rateLimit bool
	}{
		{"429 is a transient rate limit", 429, "Too Many Requests. Please try again in 2s", true, true},
		{"503 is transient", 503, "service unavailable", true, false},
		{"500 is transient", 500, "internal error", true, false},
		{"408 is transient", 408, "request timeout", true, false},
		{"400 is fatal", 400, "bad request", false, false},
		{"401 is fatal", 401, "invalid api key", false, false},
		{"403 is fatal", 403, "forbidden", false, false},
		{"unknown status with rate limit text", 0, "rate limit exceeded", true, true},
		{"unknown status is transient", 0, "connection reset", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Classify(tt.status, errors.New(tt.message))
			assert.Equal(t, tt.transient, IsTransient(err))
			assert.Equal(t, !tt.transient, IsFatal(err))

			var rl *RateLimitError
			assert.Equal(t, tt.rateLimit, errors.As(err, &rl))
		})
	}
}

func TestClassify_RateLimitHint(t *testing.T) {
	err := Classify(429, errors.New("Rate limit exceeded. Please try again in 2s."))
	d, ok := RetryAfter(err)
	require.True(t, ok)
	assert.Equal(t, 2*time.Second, d)
	assert.Contains(t, err.Error(), "retry after 2s")
}

func TestErrorWrapping(t *testing.T) {
	base := errors.New("boom")

	transient := NewTransientError(base)
	assert.ErrorIs(t, transient, base)
	assert.Equal(t, "boom", transient.Error())

	fatal := NewFatalError(base)
	assert.ErrorIs(t, fatal, base)

	wrapped := fmt.Errorf("batch 2: %w", transient)
	assert.True(t, IsTransient(wrapped))
	assert.False(t, IsFatal(wrapped))
}

func TestContextError(t *testing.T) {
	t.Run("live context", func(t *testing.T) {
		assert.Nil(t, contextError(context.Background(), errors.New("x")))
	})

	t.Run("inactivity cause is transient", func(t *testing.T) {
		ctx, cancel := context.WithCancelCause(context.Background())
		cancel(ErrStreamInactive)
		err := contextError(ctx, context.Canceled)
		assert.True(t, IsTransient(err))
		assert.ErrorIs(t, err, ErrStreamInactive)
	})

	t.Run("deadline is transient", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
		defer cancel()
		<-ctx.Done()
		assert.True(t, IsTransient(contextError(ctx, context.DeadlineExceeded)))
	})

	t.Run("caller cancellation passes through", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := contextError(ctx, context.Canceled)
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, IsTransient(err))
		assert.False(t, IsFatal(err))
	})
}
