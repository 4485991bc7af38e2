package generation

import (
	"context"
	"errors"
	"fmt"

	"github.com/CodexForgeBR/batchgen/internal/ai"
	"github.com/CodexForgeBR/batchgen/internal/logging"
	"github.com/CodexForgeBR/batchgen/internal/progress"
)

// canRetryError reports whether a failed batch goes back on the retry
// ladder. Fatal provider errors never do and transient ones always do
// while budget remains. Anything else, such as a parse failure, is retried
// only while planned files remain outstanding or nothing has been produced
// yet.
func (s *session) canRetryError(err error) bool {
	if ai.IsFatal(err) || !s.host.Policy.CanRetry(s.st.RetryAttempts) {
		return false
	}
	if ai.IsTransient(err) {
		return true
	}
	return len(s.st.Remaining()) > 0 || len(s.st.AccumulatedFiles) == 0
}

// scheduleRetry records the attempt, publishes it and waits out the
// linear backoff. cause may carry a rate-limit hint that lengthens the
// delay.
func (s *session) scheduleRetry(ctx context.Context, cause error, reason string) error {
	pol := s.host.Policy
	delay := pol.Delay(s.st.RetryAttempts, cause)

	next := s.st.clone()
	next.RetryAttempts++
	next.IsActive = true
	next.Phase = PhaseRetryWait
	s.commit(next)

	var rl *ai.RateLimitError
	pol.Notify(next.RetryAttempts, delay)
	s.host.Progress.Publish(progress.Event{
		Kind:        progress.RetryScheduled,
		SessionID:   next.SessionID,
		Batch:       next.CurrentBatch,
		Attempt:     next.RetryAttempts,
		Delay:       delay,
		Message:     reason,
		RateLimited: errors.As(cause, &rl),
	})
	logging.Warn(fmt.Sprintf("Batch %d %s; retry %d/%d in %s",
		next.CurrentBatch, reason, next.RetryAttempts, pol.MaxRetries, delay))

	if err := s.host.sleep(ctx, delay); err != nil {
		return err
	}

	resumed := s.st
	resumed.Phase = PhaseActive
	s.st = resumed
	return nil
}
