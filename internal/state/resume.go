package state

import (
	"fmt"

	"github.com/CodexForgeBR/batchgen/internal/generation"
)

// ResumeFromState prepares an existing session state for resumption.
//
// It checks that the saved continuation can still run, then validates the
// plan file and its recorded hash unless force is true. On success the
// status is reset to IN_PROGRESS.
//
// Retry state is preserved across resume: the continuation keeps its
// retry count for the batch that was in flight.
func ResumeFromState(existing *SessionState, planFile string, force bool) error {
	c := existing.Continuation
	if !c.IsActive || c.SessionID == "" || c.CurrentBatch < 1 {
		return fmt.Errorf("session %s: %w", existing.SessionID, generation.ErrStaleState)
	}
	if c.SessionID != existing.SessionID {
		return fmt.Errorf("session id mismatch (%s vs %s): %w", existing.SessionID, c.SessionID, generation.ErrStaleState)
	}

	if !force {
		if err := ValidateState(existing, planFile); err != nil {
			return fmt.Errorf("state validation failed: %w", err)
		}
	}

	existing.Status = StatusInProgress
	return nil
}
