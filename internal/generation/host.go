package generation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/CodexForgeBR/batchgen/internal/ai"
	"github.com/CodexForgeBR/batchgen/internal/fileset"
	"github.com/CodexForgeBR/batchgen/internal/logging"
	"github.com/CodexForgeBR/batchgen/internal/parser"
	"github.com/CodexForgeBR/batchgen/internal/progress"
	"github.com/CodexForgeBR/batchgen/internal/prompt"
)

// Host owns the sessions of one conversation. Only the most recently
// started session is live: starting another, or calling Shutdown, clears
// every pending timer and discards the older session's results.
type Host struct {
	Generator ai.Generator
	Parser    parser.ResponseParser
	Apply     ApplySink
	Log       LogSink
	Snapshots Snapshotter
	Progress  *progress.Broadcaster
	Policy    ai.RetryPolicy
	Options   Options

	// Sleep replaces the timer-backed wait when set.
	Sleep func(ctx context.Context, d time.Duration) error

	// NewSessionID generates session ids. Defaults to "gen-<uuid>".
	NewSessionID func() string

	mu     sync.Mutex
	epoch  uint64
	closed bool
	timers *timerSet
}

// NewHost creates a Host with the JSON parser and the default retry policy.
func NewHost(gen ai.Generator, opts Options) *Host {
	return &Host{
		Generator: gen,
		Parser:    parser.NewJSONParser(),
		Policy:    ai.DefaultRetryPolicy(),
		Options:   opts,
		timers:    newTimerSet(),
	}
}

// Start runs a new session to completion and supersedes any running one.
//
// The returned error is non-nil only for an empty request, a discarded
// session, or a cancelled ctx. Every other failure, EmptyGeneration
// included, is reported through Outcome.Status and Outcome.Err.
func (h *Host) Start(ctx context.Context, req Request) (Outcome, error) {
	text := strings.TrimSpace(req.Prompt)
	custom := req.SystemInstruction
	label := req.Label
	if req.Plan != nil {
		if text == "" {
			text = strings.TrimSpace(req.Plan.Request)
		}
		if custom == "" {
			custom = req.Plan.SystemInstruction
		}
		if label == "" {
			label = req.Plan.Label
		}
	}
	if text == "" {
		return Outcome{}, ErrEmptyRequest
	}

	epoch, err := h.begin()
	if err != nil {
		return Outcome{}, err
	}

	st := ContinuationState{
		SessionID:         h.sessionID(),
		Phase:             PhaseActive,
		OriginalPrompt:    text,
		SystemInstruction: prompt.BuildSystemInstruction(custom),
		Label:             label,
		GenerationMeta: parser.GenerationMeta{
			TotalFilesPlanned: req.Plan.Total(),
			RemainingFiles:    req.Plan.Remaining(),
		},
		AccumulatedFiles: fileset.FileSet{},
		CurrentBatch:     1,
	}

	logging.Info(fmt.Sprintf("Starting generation session %s", st.SessionID))
	return h.newSession(epoch, st, req.Context).run(ctx)
}

// Resume continues a session from a persisted ContinuationState. The state
// must be active and carry a session id, the original prompt and a batch
// number; anything else returns ErrStaleState.
func (h *Host) Resume(ctx context.Context, st ContinuationState) (Outcome, error) {
	if !st.IsActive || st.SessionID == "" || strings.TrimSpace(st.OriginalPrompt) == "" || st.CurrentBatch < 1 {
		return Outcome{}, ErrStaleState
	}

	epoch, err := h.begin()
	if err != nil {
		return Outcome{}, err
	}

	resumed := st.clone()
	resumed.Phase = PhaseActive
	if resumed.AccumulatedFiles == nil {
		resumed.AccumulatedFiles = fileset.FileSet{}
	}

	logging.Info(fmt.Sprintf("Resuming generation session %s at batch %d (%d file(s) so far)",
		resumed.SessionID, resumed.CurrentBatch, len(resumed.AccumulatedFiles)))
	return h.newSession(epoch, resumed, nil).run(ctx)
}

// Shutdown discards any running session and clears its timers. Later
// calls to Start and Resume return ErrHostClosed.
func (h *Host) Shutdown() {
	h.mu.Lock()
	h.closed = true
	h.epoch++
	ts := h.timerSetLocked()
	h.mu.Unlock()

	if n := ts.ClearAll(); n > 0 {
		logging.Debug(fmt.Sprintf("Cleared %d pending timer(s)", n))
	}
}

// begin makes a new session the live one.
func (h *Host) begin() (uint64, error) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return 0, ErrHostClosed
	}
	h.epoch++
	epoch := h.epoch
	ts := h.timerSetLocked()
	h.mu.Unlock()

	if n := ts.ClearAll(); n > 0 {
		logging.Debug(fmt.Sprintf("Superseded a pending session; cleared %d timer(s)", n))
	}
	return epoch, nil
}

// live reports whether epoch still names the current session.
func (h *Host) live(epoch uint64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return !h.closed && h.epoch == epoch
}

func (h *Host) timerSetLocked() *timerSet {
	if h.timers == nil {
		h.timers = newTimerSet()
	}
	return h.timers
}

func (h *Host) sleep(ctx context.Context, d time.Duration) error {
	if h.Sleep != nil {
		return h.Sleep(ctx, d)
	}
	h.mu.Lock()
	ts := h.timerSetLocked()
	h.mu.Unlock()
	return ts.Sleep(ctx, d)
}

func (h *Host) sessionID() string {
	if h.NewSessionID != nil {
		return h.NewSessionID()
	}
	return "gen-" + uuid.NewString()
}

func (h *Host) newSession(epoch uint64, st ContinuationState, existing fileset.FileSet) *session {
	p := h.Parser
	if p == nil {
		p = parser.NewJSONParser()
	}
	return &session{
		host:    h,
		epoch:   epoch,
		st:      st,
		context: existing,
		exec: &executor{
			gen:      h.Generator,
			parser:   p,
			progress: h.Progress,
			opts:     h.Options,
		},
	}
}
