// Package generation drives multi-batch file generation sessions.
//
// A session sends a request to a Generator, parses each streamed reply into
// files, and keeps asking for the rest until one of the completion signals
// fires, a safety valve forces completion, or retries run out. The
// validated result is handed to an ApplySink and summarized to a LogSink
// exactly once per session.
package generation

import (
	"errors"

	"github.com/CodexForgeBR/batchgen/internal/fileset"
	"github.com/CodexForgeBR/batchgen/internal/parser"
	"github.com/CodexForgeBR/batchgen/internal/plan"
)

var (
	// ErrEmptyGeneration means every accumulated file failed validation.
	ErrEmptyGeneration = errors.New("generation produced no usable files")

	// ErrStaleState is returned by Resume for a snapshot that cannot continue.
	ErrStaleState = errors.New("continuation state is stale or incomplete")

	// ErrDiscarded is returned when a newer session or Shutdown replaced
	// the running one. Its results are dropped and no sink is called.
	ErrDiscarded = errors.New("session discarded")

	// ErrHostClosed is returned by Start and Resume after Shutdown.
	ErrHostClosed = errors.New("generation host is shut down")

	// ErrEmptyRequest is returned by Start when there is nothing to ask for.
	ErrEmptyRequest = errors.New("generation request has no prompt")

	// ErrParseFailure marks a batch whose response held no recognizable files.
	ErrParseFailure = errors.New("response could not be parsed")
)

// Status is the terminal state of a session.
type Status int

const (
	StatusComplete Status = iota + 1
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusComplete:
		return "complete"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Phase is the lifecycle position recorded in ContinuationState.
type Phase string

const (
	PhaseIdle          Phase = "idle"
	PhaseActive        Phase = "active"
	PhaseRetryWait     Phase = "retry_wait"
	PhaseTargetedFetch Phase = "targeted_fetch"
	PhaseComplete      Phase = "complete"
	PhaseFailed        Phase = "failed"
)

// Request starts a new session.
type Request struct {
	Prompt string

	// SystemInstruction is the caller's custom instruction. The standard
	// output-format instruction is always prepended.
	SystemInstruction string

	// Plan optionally lists the files expected. Nil means the service
	// decides what to produce.
	Plan *plan.Plan

	// Context holds existing project files sent with the first batch only.
	Context fileset.FileSet

	Label string
}

// ContinuationState is the persisted state of an incomplete session.
//
// Values are never edited in place after they are published to a
// Snapshotter: every transition builds a fresh value with a fresh
// AccumulatedFiles map.
type ContinuationState struct {
	SessionID         string                `json:"sessionId"`
	IsActive          bool                  `json:"isActive"`
	Phase             Phase                 `json:"phase"`
	OriginalPrompt    string                `json:"originalPrompt"`
	SystemInstruction string                `json:"systemInstruction"`
	Label             string                `json:"label,omitempty"`
	GenerationMeta    parser.GenerationMeta `json:"generationMeta"`
	AccumulatedFiles  fileset.FileSet       `json:"accumulatedFiles"`
	CurrentBatch      int                   `json:"currentBatch"`
	RetryAttempts     int                   `json:"retryAttempts"`
	Explanation       string                `json:"explanation,omitempty"`
}

// Remaining returns the outstanding planned paths.
func (s ContinuationState) Remaining() []string {
	return s.GenerationMeta.RemainingFiles
}

// clone returns a copy that shares no maps or slices with s.
func (s ContinuationState) clone() ContinuationState {
	out := s
	out.AccumulatedFiles = s.AccumulatedFiles.Clone()
	out.GenerationMeta.FilesInThisBatch = append([]string(nil), s.GenerationMeta.FilesInThisBatch...)
	out.GenerationMeta.CompletedFiles = append([]string(nil), s.GenerationMeta.CompletedFiles...)
	out.GenerationMeta.RemainingFiles = append([]string(nil), s.GenerationMeta.RemainingFiles...)
	return out
}

// TruncationRecoveryState carries a cut-off batch into its retry.
type TruncationRecoveryState struct {
	RawResponse       string
	Prompt            string
	SystemInstruction string
	PartialFiles      fileset.FileSet
	Attempt           int
}

// Outcome is the result of a finished session.
type Outcome struct {
	Status    Status
	SessionID string

	// Files are the validated files handed to the ApplySink.
	Files        fileset.FileSet
	Explanation  string
	MissingPaths []string
	InvalidPaths []string

	Batches           int
	ForcedCompletion  bool
	UsedTargetedFetch bool

	PromptTokens     int
	CompletionTokens int

	// Err is set for failed sessions and for apply errors.
	Err error

	// State is the last continuation state of an interrupted session.
	State *ContinuationState
}

// Partial reports whether a completed session is missing planned files.
func (o Outcome) Partial() bool {
	return o.Status == StatusComplete && len(o.MissingPaths) > 0
}
