package phases

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/CodexForgeBR/batchgen/internal/ai"
	"github.com/CodexForgeBR/batchgen/internal/banner"
	"github.com/CodexForgeBR/batchgen/internal/config"
	"github.com/CodexForgeBR/batchgen/internal/exitcode"
	"github.com/CodexForgeBR/batchgen/internal/generation"
	"github.com/CodexForgeBR/batchgen/internal/logging"
	"github.com/CodexForgeBR/batchgen/internal/notification"
	"github.com/CodexForgeBR/batchgen/internal/plan"
	"github.com/CodexForgeBR/batchgen/internal/progress"
	"github.com/CodexForgeBR/batchgen/internal/signal"
	"github.com/CodexForgeBR/batchgen/internal/state"
	"github.com/CodexForgeBR/batchgen/internal/transcript"
	"github.com/CodexForgeBR/batchgen/internal/workspace"
)

// CommandChecker reports, per provider, whether it can be used.
type CommandChecker func(apiKeyEnv, baseURL string, providers ...string) map[string]bool

// GeneratorFactory builds the backend for a run.
type GeneratorFactory func(cfg ai.Config) (ai.Generator, error)

// Orchestrator runs one batchgen invocation from flags to exit code.
type Orchestrator struct {
	Config   *config.Config
	StateDir string

	// Generator, when set, is used instead of building one from Config.
	Generator      ai.Generator
	NewGenerator   GeneratorFactory
	CommandChecker CommandChecker
	Progress       *progress.Broadcaster
	Notifier       *notification.Sender
	Sleep          func(ctx context.Context, d time.Duration) error
	NewSessionID   func() string
	resumed        *state.SessionState
	request        generation.Request
	planFile       string
	planHash       string
	applier        *workspace.Applier
	store          *state.Store
	startTime      time.Time
	lastBatch      int
	lastSessionID  string
}

// NewOrchestrator creates a new orchestrator with the given config.
func NewOrchestrator(cfg *config.Config) *Orchestrator {
	dir := cfg.StateDir
	if dir == "" {
		dir = ".batchgen"
	}
	return &Orchestrator{
		Config:   cfg,
		StateDir: dir,
		Notifier: notification.NewSender(cfg.NotifyWebhook, cfg.NotifyChannel, cfg.NotifyChatID),
	}
}

// Run executes the phases in order and returns an exit code.
func (o *Orchestrator) Run(ctx context.Context) int {
	o.startTime = time.Now()

	// Phase 1: Init
	if code := o.phaseInit(); code >= 0 {
		return code
	}

	// Phase 2: Status, clean and resume
	if code := o.phaseSessionCommands(); code >= 0 {
		return code
	}

	// Phase 3: Provider checks
	if code := o.phaseProviderChecks(); code >= 0 {
		return code
	}

	// Phase 4: Request, plan and context
	if code := o.phaseLoadRequest(); code >= 0 {
		return code
	}

	// Phase 5: Banner
	o.phaseBanner()

	// Phase 6: Generate and report
	return o.phaseGenerate(ctx)
}

func (o *Orchestrator) phaseInit() int {
	logging.Phase("Initializing session")

	if err := state.InitStateDir(o.StateDir); err != nil {
		logging.Error(fmt.Sprintf("Failed to init state dir: %v", err))
		return exitcode.Error
	}
	if o.Config.LogFile != "" {
		logging.SetLogFile(o.Config.LogFile)
	}
	return -1
}

func (o *Orchestrator) phaseSessionCommands() int {
	// Handle --status flag: show session status and exit
	if o.Config.Status {
		existing, err := state.LoadState(o.StateDir)
		if err != nil {
			logging.Info("No saved session found.")
			return exitcode.Success
		}
		cont := existing.Continuation
		banner.PrintStatusBanner(banner.StatusInfo{
			SessionID:     existing.SessionID,
			Status:        existing.Status,
			Phase:         string(cont.Phase),
			Label:         existing.Label,
			Batch:         cont.CurrentBatch,
			RetryAttempts: cont.RetryAttempts,
			Files:         len(cont.AccumulatedFiles),
			Remaining:     len(cont.Remaining()),
			Provider:      existing.Provider,
			Model:         existing.Model,
			StartedAt:     existing.StartedAt,
			LastUpdated:   existing.LastUpdated,
		})
		return exitcode.Success
	}

	// Handle --clean flag: drop the saved session and start fresh
	if o.Config.Clean {
		logging.Info("Clearing saved session...")
		if err := state.ClearState(o.StateDir); err != nil {
			logging.Warn(fmt.Sprintf("Failed to clear saved session: %v", err))
		}
		if !o.Config.Resume && !o.Config.ResumeForce && !o.hasRequest() {
			return exitcode.Success
		}
	}

	if !o.Config.Resume && !o.Config.ResumeForce {
		return -1
	}

	existing, err := state.LoadState(o.StateDir)
	if err != nil {
		logging.Error(fmt.Sprintf("Cannot resume: %v", err))
		return exitcode.Error
	}
	if err := state.ResumeFromState(existing, o.Config.PlanFile, o.Config.ResumeForce); err != nil {
		logging.Error(fmt.Sprintf("Resume failed: %v", err))
		return exitcode.Error
	}

	// Restore the backend and destination so batches keep landing where
	// the original session put them.
	if existing.Provider != "" {
		o.Config.Provider = existing.Provider
	}
	if existing.Model != "" {
		o.Config.Model = existing.Model
	}
	if existing.OutputDir != "" {
		o.Config.OutputDir = existing.OutputDir
	}
	o.planFile = existing.PlanFile
	o.planHash = existing.PlanFileHash
	o.resumed = existing

	logging.Info(fmt.Sprintf("Resuming session %s from batch %d, phase %s",
		existing.SessionID, existing.Continuation.CurrentBatch, existing.Continuation.Phase))
	return -1
}

func (o *Orchestrator) phaseProviderChecks() int {
	if o.Generator != nil {
		return -1
	}

	logging.Phase("Checking provider")
	checker := o.CommandChecker
	if checker == nil {
		checker = ai.CheckAvailability
	}
	avail := checker(o.Config.APIKeyEnv, o.Config.BaseURL, o.Config.Provider)
	if !avail[o.Config.Provider] {
		if o.Config.Provider == ai.ProviderOllama {
			logging.Error("Ollama server is not reachable; start it or set --base-url")
		} else {
			logging.Error(fmt.Sprintf("Provider %s is not usable: set %s or --base-url", o.Config.Provider, o.Config.APIKeyEnv))
		}
		return exitcode.Error
	}

	factory := o.NewGenerator
	if factory == nil {
		factory = ai.New
	}
	gen, err := factory(ai.Config{
		Provider: o.Config.Provider,
		Model:    o.Config.Model,
		BaseURL:  o.Config.BaseURL,
		APIKey:   os.Getenv(o.Config.APIKeyEnv),
	})
	if err != nil {
		logging.Error(fmt.Sprintf("Failed to create generator: %v", err))
		return exitcode.Error
	}
	o.Generator = gen
	logging.Info(fmt.Sprintf("Using %s", gen.Name()))
	return -1
}

func (o *Orchestrator) phaseLoadRequest() int {
	// The resumed session already carries its prompt and accumulated files
	if o.resumed != nil {
		return -1
	}

	logging.Phase("Loading request")

	text := o.Config.Prompt
	if o.Config.PromptFile != "" {
		data, err := os.ReadFile(o.Config.PromptFile)
		if err != nil {
			logging.Error(fmt.Sprintf("Failed to read prompt file: %v", err))
			return exitcode.Error
		}
		text = string(data)
	}

	var p *plan.Plan
	if o.Config.PlanFile != "" {
		absPath, err := filepath.Abs(o.Config.PlanFile)
		if err != nil {
			logging.Error(fmt.Sprintf("Failed to resolve path: %v", err))
			return exitcode.Error
		}
		p, err = plan.Load(absPath)
		if err != nil {
			logging.Error(fmt.Sprintf("Failed to load plan: %v", err))
			return exitcode.Error
		}
		hash, err := plan.HashFile(absPath)
		if err != nil {
			logging.Error(fmt.Sprintf("Failed to hash plan file: %v", err))
			return exitcode.Error
		}
		o.planFile = absPath
		o.planHash = hash
		logging.Info(fmt.Sprintf("Plan lists %d files (%s)", p.Total(), absPath))
	}

	o.request = generation.Request{
		Prompt: text,
		Plan:   p,
		Label:  o.Config.Label,
	}

	includes := o.Config.Include
	if len(includes) == 0 && o.Config.ProjectDir != "" {
		includes = []string{"**/*"}
	}
	if len(includes) > 0 {
		root := o.Config.ProjectDir
		if root == "" {
			root = "."
		}
		var opts workspace.ContextOptions
		if rel, err := filepath.Rel(root, o.StateDir); err == nil && !strings.HasPrefix(rel, "..") {
			opts.Exclude = []string{filepath.ToSlash(rel) + "/"}
		}
		existing, err := workspace.LoadContext(root, includes, opts)
		if err != nil {
			logging.Error(fmt.Sprintf("Failed to load project context: %v", err))
			return exitcode.Error
		}
		o.request.Context = existing
		logging.Info(fmt.Sprintf("Loaded %d context file(s) from %s", len(existing), root))
	}

	if strings.TrimSpace(o.request.Prompt) == "" && (p == nil || strings.TrimSpace(p.Request) == "") {
		logging.Error("Nothing to generate: provide --prompt, --prompt-file or a plan with a request")
		return exitcode.Error
	}
	return -1
}

func (o *Orchestrator) phaseBanner() {
	info := banner.StartupInfo{
		Provider:   o.Config.Provider,
		Model:      o.Config.Model,
		OutputDir:  o.Config.OutputDir,
		MaxBatches: o.Config.MaxBatches,
		DryRun:     o.Config.DryRun,
	}
	if o.resumed != nil {
		info.SessionID = o.resumed.SessionID
	}
	if o.request.Plan != nil {
		info.Plan = filepath.Base(o.planFile)
		info.PlanFiles = o.request.Plan.Total()
	}
	banner.PrintStartupBanner(info)
}

func (o *Orchestrator) phaseGenerate(ctx context.Context) int {
	host := o.buildHost()
	defer host.Shutdown()

	var (
		out generation.Outcome
		err error
	)
	if o.resumed != nil {
		out, err = host.Resume(ctx, o.resumed.Continuation)
	} else {
		out, err = host.Start(ctx, o.request)
	}
	return o.finalize(ctx, out, err)
}

// buildHost wires the generator to the workspace, transcript, snapshot
// store and progress output.
func (o *Orchestrator) buildHost() *generation.Host {
	cfg := o.Config

	host := generation.NewHost(o.Generator, generation.Options{
		MaxBatches:      cfg.MaxBatches,
		MaxOutputTokens: cfg.MaxOutputTokens,
		Temperature:     float32(cfg.Temperature),
		JSONMode:        cfg.JSONMode,
		PreviewLimit:    cfg.TargetedPreviewLimit,
		Monitor:         ai.MonitorConfig{InactivityTimeout: cfg.InactivityTimeoutDuration()},
	})
	host.Policy = ai.RetryPolicy{
		MaxRetries: cfg.MaxRetries,
		BaseDelay:  cfg.RetryBaseDelay(),
	}
	host.Sleep = o.Sleep
	host.NewSessionID = o.NewSessionID

	o.applier = workspace.NewApplier(cfg.OutputDir, cfg.DryRun)
	host.Apply = o.applier

	if cfg.TranscriptFile != "" {
		if err := transcript.InitTranscript(cfg.TranscriptFile); err != nil {
			logging.Warn(fmt.Sprintf("Failed to init transcript file: %v", err))
		} else {
			host.Log = transcript.NewLog(cfg.TranscriptFile)
		}
	}

	base := state.SessionState{
		Label:        o.request.Label,
		PlanFile:     o.planFile,
		PlanFileHash: o.planHash,
		OutputDir:    cfg.OutputDir,
		Provider:     cfg.Provider,
		Model:        cfg.Model,
	}
	if o.resumed != nil {
		base = *o.resumed
	}
	o.store = state.NewStore(o.StateDir, base)
	host.Snapshots = o.store

	if o.Progress == nil {
		o.Progress = progress.NewBroadcaster()
	}
	o.Progress.Subscribe(o.onProgress)
	host.Progress = o.Progress
	return host
}

// onProgress renders stream progress and forwards rate-limit backoffs.
func (o *Orchestrator) onProgress(e progress.Event) {
	if e.SessionID != "" {
		o.lastSessionID = e.SessionID
	}
	if e.Batch > 0 {
		o.lastBatch = e.Batch
	}

	switch e.Kind {
	case progress.ChunkReceived:
		logging.Progress(fmt.Sprintf("\r  batch %d: %d chars received", e.Batch, e.Chars))
	case progress.BatchParsed:
		logging.Progress("\n")
		logging.Debug(fmt.Sprintf("Batch %d parsed: %d file(s) so far", e.Batch, e.Files))
	case progress.RetryScheduled:
		if e.RateLimited {
			o.notify(notification.EventRateLimited, notification.Summary{
				SessionID: e.SessionID,
				Batches:   e.Batch,
			}, exitcode.Success)
		}
	}
}

func (o *Orchestrator) finalize(ctx context.Context, out generation.Outcome, err error) int {
	duration := int(time.Since(o.startTime).Seconds())
	summary := notification.Summary{
		SessionID: out.SessionID,
		Batches:   out.Batches,
		Files:     len(out.Files),
		Missing:   len(out.MissingPaths),
	}
	if summary.SessionID == "" {
		summary.SessionID = o.lastSessionID
	}

	if err != nil {
		if out.State != nil {
			if signal.Interrupted(ctx) {
				if serr := o.store.MarkInterrupted(*out.State); serr != nil {
					logging.Warn(fmt.Sprintf("Failed to save interrupted state: %v", serr))
				}
				summary.Batches = out.State.CurrentBatch
				banner.PrintInterruptedBanner(out.State.CurrentBatch, len(out.State.AccumulatedFiles))
				o.notify(notification.EventInterrupted, summary, exitcode.Interrupted)
				return exitcode.Interrupted
			}
			if serr := o.store.Save(*out.State); serr != nil {
				logging.Warn(fmt.Sprintf("Failed to save session state: %v", serr))
			}
		}
		if summary.Batches == 0 {
			summary.Batches = o.lastBatch
		}
		logging.Error(fmt.Sprintf("Generation stopped: %v", err))
		o.notify(notification.EventFailed, summary, exitcode.Error)
		return exitcode.Error
	}

	logging.Debug(fmt.Sprintf("Token usage: %d prompt, %d completion", out.PromptTokens, out.CompletionTokens))

	if out.Status == generation.StatusFailed {
		reason := "generation failed"
		if out.Err != nil {
			reason = out.Err.Error()
		}
		banner.PrintFailureBanner(reason)
		if errors.Is(out.Err, generation.ErrEmptyGeneration) {
			o.notify(notification.EventEmpty, summary, exitcode.EmptyGeneration)
			return exitcode.EmptyGeneration
		}
		o.notify(notification.EventFailed, summary, exitcode.Error)
		return exitcode.Error
	}

	if out.Err != nil {
		logging.Error(fmt.Sprintf("Failed to write generated files: %v", out.Err))
		o.notify(notification.EventFailed, summary, exitcode.Error)
		return exitcode.Error
	}

	if out.Explanation != "" {
		logging.Info(out.Explanation)
	}

	if out.Partial() {
		banner.PrintPartialBanner(out.MissingPaths, out.ForcedCompletion)
		o.notify(notification.EventPartial, summary, exitcode.Partial)
		return exitcode.Partial
	}

	applied := o.applier.Last()
	banner.PrintCompletionBanner(len(out.Files),
		applied.Count(workspace.ActionCreated), applied.Count(workspace.ActionUpdated),
		out.Batches, duration)
	o.notify(notification.EventCompleted, summary, exitcode.Success)
	return exitcode.Success
}

// notify sends a fire-and-forget notification for the given event.
func (o *Orchestrator) notify(event string, s notification.Summary, code int) {
	s.Label = o.label()
	s.ExitCode = code
	o.Notifier.Notify(event, s)
}

func (o *Orchestrator) label() string {
	switch {
	case o.request.Label != "":
		return o.request.Label
	case o.request.Plan != nil && o.request.Plan.Label != "":
		return o.request.Plan.Label
	case o.resumed != nil && o.resumed.Label != "":
		return o.resumed.Label
	}
	name := filepath.Base(o.Config.OutputDir)
	if abs, err := filepath.Abs(o.Config.OutputDir); err == nil {
		name = filepath.Base(abs)
	}
	if name == "." || name == "" || name == string(filepath.Separator) {
		return "batchgen"
	}
	return name
}

func (o *Orchestrator) hasRequest() bool {
	return o.Config.Prompt != "" || o.Config.PromptFile != "" || o.Config.PlanFile != ""
}
