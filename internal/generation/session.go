package generation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/CodexForgeBR/batchgen/internal/ai"
	"github.com/CodexForgeBR/batchgen/internal/fileset"
	"github.com/CodexForgeBR/batchgen/internal/logging"
	"github.com/CodexForgeBR/batchgen/internal/parser"
	"github.com/CodexForgeBR/batchgen/internal/progress"
	"github.com/CodexForgeBR/batchgen/internal/prompt"
)

// session is one run of the batch loop.
type session struct {
	host    *Host
	epoch   uint64
	exec    *executor
	st      ContinuationState
	context fileset.FileSet

	usedTargeted     bool
	promptTokens     int
	completionTokens int
}

// run executes batches until the session completes, fails, is cancelled
// or is discarded.
func (s *session) run(ctx context.Context) (Outcome, error) {
	var (
		truncation *TruncationRecoveryState
		batchBase  = s.st.AccumulatedFiles
		partial    fileset.FileSet
	)

	for {
		if err := s.check(ctx); err != nil {
			return s.abort(err)
		}

		text := s.batchPrompt(truncation)
		logging.Phase(fmt.Sprintf("Batch %d", s.st.CurrentBatch))

		res, err := s.exec.Execute(ctx, s.st.SessionID, s.st.CurrentBatch, s.st.SystemInstruction, text)
		s.addUsage(res.Completion)
		if err := s.check(ctx); err != nil {
			return s.abort(err)
		}

		if err != nil {
			if s.canRetryError(err) {
				truncation = nil
				if err := s.scheduleRetry(ctx, err, fmt.Sprintf("failed: %v", err)); err != nil {
					return s.abort(err)
				}
				continue
			}
			logging.Warn(fmt.Sprintf("Batch %d failed with no retries left: %v", s.st.CurrentBatch, err))
			return s.exhausted(ctx, err)
		}

		parsed := res.Parsed
		if parsed.Truncated {
			partial = fileset.Merge(partial, parsed.Files)
			if s.host.Policy.CanRetry(s.st.RetryAttempts) {
				merged := fileset.Merge(batchBase, partial)
				next := s.st.clone()
				next.AccumulatedFiles = merged
				next.GenerationMeta.RemainingFiles = fileset.Outstanding(next.Remaining(), merged)
				s.st = next

				truncation = &TruncationRecoveryState{
					RawResponse:       res.Raw,
					Prompt:            text,
					SystemInstruction: s.st.SystemInstruction,
					PartialFiles:      parsed.Files,
					Attempt:           s.st.RetryAttempts + 1,
				}
				if err := s.scheduleRetry(ctx, nil, fmt.Sprintf("was truncated with %d partial file(s)", len(parsed.Files))); err != nil {
					return s.abort(err)
				}
				continue
			}
			logging.Warn(fmt.Sprintf("Batch %d still truncated after %d retries; keeping partial files",
				s.st.CurrentBatch, s.st.RetryAttempts))
		}
		truncation = nil

		det := DetectCompletion(Progress{
			Accumulated: batchBase,
			Remaining:   s.st.Remaining(),
			Total:       s.st.GenerationMeta.TotalFilesPlanned,
			Batch:       s.st.CurrentBatch,
		}, parser.Result{
			Status: parsed.Status,
			Files:  fileset.Merge(partial, parsed.Files),
			Meta:   parsed.Meta,
		}, s.host.Options.MaxBatches)

		next := s.fold(det, parsed)
		s.host.Progress.Publish(progress.Event{
			Kind:      progress.BatchParsed,
			SessionID: next.SessionID,
			Batch:     next.CurrentBatch,
			Files:     len(next.AccumulatedFiles),
		})
		logging.Info(fmt.Sprintf("Batch %d: +%d file(s), %d total, %d remaining",
			next.CurrentBatch, det.Added, len(det.Accumulated), len(det.Remaining)))

		if det.Complete {
			s.st = next
			if det.Forced {
				logging.Warn(fmt.Sprintf("Forcing completion after batch %d (%d file(s) added)", next.CurrentBatch, det.Added))
			}
			return s.finish(det.Forced)
		}

		next.IsActive = true
		next.Phase = PhaseActive
		next.CurrentBatch++
		s.commit(next)
		batchBase = next.AccumulatedFiles
		partial = nil

		if pause := s.host.Options.BatchPause; pause > 0 {
			if err := s.host.sleep(ctx, pause); err != nil {
				return s.abort(err)
			}
		}
	}
}

// fold builds the state that follows a parsed batch.
func (s *session) fold(det Detection, parsed parser.Result) ContinuationState {
	next := s.st.clone()
	next.AccumulatedFiles = det.Accumulated
	next.RetryAttempts = 0

	totalBatches := s.st.GenerationMeta.TotalBatches
	if parsed.Meta != nil && parsed.Meta.TotalBatches > 0 {
		totalBatches = parsed.Meta.TotalBatches
	}
	next.GenerationMeta = parser.GenerationMeta{
		TotalFilesPlanned: det.Total,
		FilesInThisBatch:  parsed.Files.Paths(),
		CompletedFiles:    det.Accumulated.Paths(),
		RemainingFiles:    det.Remaining,
		CurrentBatch:      s.st.CurrentBatch,
		TotalBatches:      totalBatches,
		IsComplete:        det.Complete,
	}
	if next.Explanation == "" {
		next.Explanation = parsed.Explanation
	}
	return next
}

// exhausted handles a batch that failed with no retries left.
func (s *session) exhausted(ctx context.Context, cause error) (Outcome, error) {
	if len(s.st.AccumulatedFiles) == 0 {
		return s.fail(cause)
	}

	missing := s.st.Remaining()
	if len(missing) > 0 {
		next := s.st.clone()
		next.Phase = PhaseTargetedFetch
		s.commit(next)

		tr := s.exec.fetchMissing(ctx, s.st, missing)
		s.usedTargeted = true
		s.addUsage(tr.Completion)
		if err := s.check(ctx); err != nil {
			return s.abort(err)
		}

		if tr.Success {
			merged := fileset.Merge(s.st.AccumulatedFiles, tr.Files)
			next := s.st.clone()
			next.AccumulatedFiles = merged
			next.GenerationMeta.RemainingFiles = fileset.Outstanding(missing, merged)
			next.GenerationMeta.CompletedFiles = merged.Paths()
			if next.Explanation == "" {
				next.Explanation = tr.Explanation
			}
			s.st = next
			logging.Success(fmt.Sprintf("Targeted fetch recovered %d file(s)", len(tr.Files)))
		}
	}
	return s.finish(false)
}

// finish validates the accumulated files and reports them.
func (s *session) finish(forced bool) (Outcome, error) {
	if !s.host.live(s.epoch) {
		return Outcome{SessionID: s.st.SessionID}, ErrDiscarded
	}

	v := fileset.Validate(s.st.AccumulatedFiles)
	for _, p := range v.InvalidPaths {
		logging.Warn(fmt.Sprintf("Excluding %s: %s", p, v.Reasons[p]))
	}

	out := s.outcome()
	out.ForcedCompletion = forced
	out.InvalidPaths = v.InvalidPaths
	out.MissingPaths = s.st.Remaining()
	out.Explanation = composeExplanation(s.st.Explanation, forced, s.st.CurrentBatch,
		out.InvalidPaths, out.MissingPaths, s.host.Options.PreviewLimit)

	if len(v.ValidFiles) == 0 {
		out.Status = StatusFailed
		out.Err = ErrEmptyGeneration
		logging.Error(fmt.Sprintf("Session %s produced no usable files", out.SessionID))
		s.report(out)
		return out, nil
	}

	out.Status = StatusComplete
	out.Files = v.ValidFiles
	if s.host.Apply != nil {
		if err := s.host.Apply.Apply(s.st.Label, out.Files); err != nil {
			out.Err = fmt.Errorf("apply generated files: %w", err)
			logging.Error(out.Err.Error())
		}
	}
	s.report(out)
	return out, nil
}

// fail ends a session that never produced a file.
func (s *session) fail(cause error) (Outcome, error) {
	if !s.host.live(s.epoch) {
		return Outcome{SessionID: s.st.SessionID}, ErrDiscarded
	}
	out := s.outcome()
	out.Status = StatusFailed
	out.Err = cause
	out.MissingPaths = s.st.Remaining()
	out.Explanation = composeExplanation(s.st.Explanation, false, s.st.CurrentBatch,
		nil, out.MissingPaths, s.host.Options.PreviewLimit)
	logging.Error(fmt.Sprintf("Session %s failed: %v", out.SessionID, cause))
	s.report(out)
	return out, nil
}

// report calls the log sink, clears the snapshot and announces the end.
func (s *session) report(out Outcome) {
	h := s.host
	if h.Log != nil {
		msg := Message{
			SessionID:         out.SessionID,
			Label:             s.st.Label,
			Status:            out.Status,
			Explanation:       out.Explanation,
			Files:             out.Files.Paths(),
			MissingPaths:      out.MissingPaths,
			InvalidPaths:      out.InvalidPaths,
			ForcedCompletion:  out.ForcedCompletion,
			UsedTargetedFetch: out.UsedTargetedFetch,
			Batches:           out.Batches,
			Timestamp:         time.Now(),
		}
		if out.Err != nil {
			msg.Error = out.Err.Error()
		}
		if err := h.Log.AppendMessage(msg); err != nil {
			logging.Warn(fmt.Sprintf("Failed to record session log: %v", err))
		}
	}
	if h.Snapshots != nil {
		if err := h.Snapshots.Clear(); err != nil {
			logging.Warn(fmt.Sprintf("Failed to clear session snapshot: %v", err))
		}
	}
	h.Progress.Publish(progress.Event{
		Kind:      progress.SessionDone,
		SessionID: out.SessionID,
		Batch:     out.Batches,
		Files:     len(out.Files),
		Message:   out.Status.String(),
	})
}

func (s *session) outcome() Outcome {
	return Outcome{
		SessionID:         s.st.SessionID,
		Batches:           s.st.CurrentBatch,
		UsedTargetedFetch: s.usedTargeted,
		PromptTokens:      s.promptTokens,
		CompletionTokens:  s.completionTokens,
	}
}

// abort ends a cancelled or discarded session without calling any sink.
// A cancelled session returns its last state so it can be resumed.
func (s *session) abort(err error) (Outcome, error) {
	if errors.Is(err, errTimerCleared) || errors.Is(err, ErrDiscarded) || !s.host.live(s.epoch) {
		return Outcome{SessionID: s.st.SessionID}, ErrDiscarded
	}
	st := s.st.clone()
	st.IsActive = true
	out := s.outcome()
	out.State = &st
	return out, err
}

// check returns ErrDiscarded for a superseded session, or the cause of a
// cancelled ctx.
func (s *session) check(ctx context.Context) error {
	if !s.host.live(s.epoch) {
		return ErrDiscarded
	}
	if ctx.Err() != nil {
		return context.Cause(ctx)
	}
	return nil
}

// commit publishes next as the session state and snapshots it.
func (s *session) commit(next ContinuationState) {
	s.st = next
	if s.host.Snapshots == nil || !s.host.live(s.epoch) {
		return
	}
	if err := s.host.Snapshots.Save(next); err != nil {
		logging.Warn(fmt.Sprintf("Failed to save session snapshot: %v", err))
	}
}

func (s *session) batchPrompt(tr *TruncationRecoveryState) string {
	var text string
	if s.st.CurrentBatch == 1 && len(s.st.AccumulatedFiles) == 0 {
		text = prompt.BuildInitialPrompt(s.st.OriginalPrompt, s.st.Remaining(),
			s.st.GenerationMeta.TotalFilesPlanned, s.context)
	} else {
		text = prompt.BuildContinuationPrompt(s.st.OriginalPrompt, s.st.AccumulatedFiles.Paths(),
			s.st.Remaining(), s.st.CurrentBatch, s.st.GenerationMeta.TotalFilesPlanned)
	}
	if tr != nil {
		text = prompt.BuildTruncationRetryPrompt(text, tr.Attempt)
	}
	return text
}

func (s *session) addUsage(c *ai.Completion) {
	if c == nil {
		return
	}
	s.promptTokens += c.PromptTokens
	s.completionTokens += c.CompletionTokens
}
