// Package banner provides colored banner display functions for the batchgen CLI.
//
// Banners mark the session transitions a user watches for: start, status,
// completion, partial results, failure and interruption.
package banner

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/CodexForgeBR/batchgen/internal/logging"
)

// Out is where banners are written.
var Out io.Writer = os.Stdout

var (
	headerColor  = color.New(color.FgCyan, color.Bold).SprintFunc()
	successColor = color.New(color.FgGreen, color.Bold).SprintFunc()
	errorColor   = color.New(color.FgRed, color.Bold).SprintFunc()
	warnColor    = color.New(color.FgYellow, color.Bold).SprintFunc()
)

const rule = "═══════════════════════════════════════════════════"

// StartupInfo is shown when a session begins.
type StartupInfo struct {
	SessionID  string
	Provider   string
	Model      string
	Plan       string
	PlanFiles  int
	OutputDir  string
	MaxBatches int
	DryRun     bool
}

// PrintStartupBanner displays the startup banner with session info.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  batchgen - Batched Code Generation
//	═══════════════════════════════════════════════════
//	  Session:    gen-4f1c...
//	  Provider:   openai
//	  Model:      gpt-4o-mini
//	  Plan:       plan.yaml (12 files)
//	  Output:     ./out
//	  Batches:    up to 5
//	═══════════════════════════════════════════════════
func PrintStartupBanner(info StartupInfo) {
	sep := headerColor(rule)
	fmt.Fprintln(Out, sep)
	fmt.Fprintln(Out, headerColor("  batchgen - Batched Code Generation"))
	fmt.Fprintln(Out, sep)
	if info.SessionID != "" {
		fmt.Fprintf(Out, "  Session:    %s\n", info.SessionID)
	}
	fmt.Fprintf(Out, "  Provider:   %s\n", info.Provider)
	fmt.Fprintf(Out, "  Model:      %s\n", info.Model)
	if info.Plan != "" {
		fmt.Fprintf(Out, "  Plan:       %s (%d files)\n", info.Plan, info.PlanFiles)
	}
	fmt.Fprintf(Out, "  Output:     %s\n", info.OutputDir)
	fmt.Fprintf(Out, "  Batches:    up to %d\n", info.MaxBatches)
	if info.DryRun {
		fmt.Fprintln(Out, warnColor("  Dry run: no files will be written"))
	}
	fmt.Fprintln(Out, sep)
}

// PrintCompletionBanner displays the completion banner with stats.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  ✓ Generation complete
//	  Files:      12 (4 created, 1 updated)
//	  Batches:    3
//	  Duration:   1m 5s (65s)
//	═══════════════════════════════════════════════════
func PrintCompletionBanner(files, created, updated, batches, durationSecs int) {
	sep := successColor(rule)
	fmt.Fprintln(Out, sep)
	fmt.Fprintln(Out, successColor("  ✓ Generation complete"))
	fmt.Fprintf(Out, "  Files:      %d (%d created, %d updated)\n", files, created, updated)
	fmt.Fprintf(Out, "  Batches:    %d\n", batches)
	fmt.Fprintf(Out, "  Duration:   %s (%ds)\n", logging.FormatDuration(durationSecs), durationSecs)
	fmt.Fprintln(Out, sep)
}

// PrintPartialBanner displays a completed session that is missing files.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  ⚠ Generation incomplete (2 files missing)
//	═══════════════════════════════════════════════════
//	  Missing:
//	    - api/auth.go
//	    - api/session.go
//	═══════════════════════════════════════════════════
func PrintPartialBanner(missing []string, forced bool) {
	sep := warnColor(rule)
	fmt.Fprintln(Out, sep)
	fmt.Fprintln(Out, warnColor(fmt.Sprintf("  ⚠ Generation incomplete (%d files missing)", len(missing))))
	if forced {
		fmt.Fprintln(Out, "  Stopped by the batch limit or a batch with no new files")
	}
	fmt.Fprintln(Out, sep)
	if len(missing) > 0 {
		fmt.Fprintln(Out, "  Missing:")
		for _, p := range missing {
			fmt.Fprintf(Out, "    - %s\n", p)
		}
	}
	fmt.Fprintln(Out, sep)
}

// PrintFailureBanner displays a session that produced nothing usable.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  ✗ GENERATION FAILED
//	═══════════════════════════════════════════════════
//	  Reason:
//	  generation produced no usable files
//	═══════════════════════════════════════════════════
func PrintFailureBanner(reason string) {
	sep := errorColor(rule)
	fmt.Fprintln(Out, sep)
	fmt.Fprintln(Out, errorColor("  ✗ GENERATION FAILED"))
	fmt.Fprintln(Out, sep)
	fmt.Fprintln(Out, "  Reason:")
	fmt.Fprintf(Out, "  %s\n", reason)
	fmt.Fprintln(Out, sep)
}

// PrintInterruptedBanner displays when session is interrupted.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  ⚠ Session interrupted
//	  Batch:     3
//	  Files:     7
//	  Use --resume to continue from this point
//	═══════════════════════════════════════════════════
func PrintInterruptedBanner(batch, files int) {
	sep := warnColor(rule)
	fmt.Fprintln(Out, sep)
	fmt.Fprintln(Out, warnColor("  ⚠ Session interrupted"))
	fmt.Fprintf(Out, "  Batch:     %d\n", batch)
	fmt.Fprintf(Out, "  Files:     %d\n", files)
	fmt.Fprintln(Out, "  Use --resume to continue from this point")
	fmt.Fprintln(Out, sep)
}

// StatusInfo is the saved-session view printed by --status.
type StatusInfo struct {
	SessionID     string
	Status        string
	Phase         string
	Label         string
	Batch         int
	RetryAttempts int
	Files         int
	Remaining     int
	Provider      string
	Model         string
	StartedAt     string
	LastUpdated   string
}

// PrintStatusBanner displays current session status.
//
// Example output:
//
//	──────────────────────────────────────────────────
//	  Session:   gen-4f1c...
//	  Status:    INTERRUPTED
//	  Phase:     retry_wait
//	  Batch:     3 (retry 1)
//	  Files:     7 done, 5 remaining
//	──────────────────────────────────────────────────
func PrintStatusBanner(info StatusInfo) {
	sep := strings.Repeat("─", 50)
	fmt.Fprintln(Out, sep)
	fmt.Fprintf(Out, "  Session:   %s\n", info.SessionID)
	if info.Label != "" {
		fmt.Fprintf(Out, "  Label:     %s\n", info.Label)
	}
	fmt.Fprintf(Out, "  Status:    %s\n", info.Status)
	fmt.Fprintf(Out, "  Phase:     %s\n", info.Phase)
	if info.RetryAttempts > 0 {
		fmt.Fprintf(Out, "  Batch:     %d (retry %d)\n", info.Batch, info.RetryAttempts)
	} else {
		fmt.Fprintf(Out, "  Batch:     %d\n", info.Batch)
	}
	fmt.Fprintf(Out, "  Files:     %d done, %d remaining\n", info.Files, info.Remaining)
	fmt.Fprintf(Out, "  Provider:  %s (%s)\n", info.Provider, info.Model)
	fmt.Fprintf(Out, "  Started:   %s\n", info.StartedAt)
	fmt.Fprintf(Out, "  Updated:   %s\n", info.LastUpdated)
	fmt.Fprintln(Out, sep)
}
