package notification

import "fmt"

// Event types sent at the end of a generation session.
const (
	EventCompleted   = "completed"
	EventPartial     = "partial"
	EventEmpty       = "empty"
	EventFailed      = "failed"
	EventInterrupted = "interrupted"
	EventRateLimited = "rate_limited"
)

// Summary carries the session facts rendered into a notification.
type Summary struct {
	Label     string
	SessionID string
	Batches   int
	Files     int
	Missing   int
	ExitCode  int
}

// FormatEvent creates a notification message for the given event.
func FormatEvent(event string, s Summary) string {
	switch event {
	case EventCompleted:
		return fmt.Sprintf("✅ %s [%s] generated %d files in %d batches (exit %d)", s.Label, s.SessionID, s.Files, s.Batches, s.ExitCode)
	case EventPartial:
		return fmt.Sprintf("⚠️ %s [%s] finished with %d files, %d missing after %d batches (exit %d)", s.Label, s.SessionID, s.Files, s.Missing, s.Batches, s.ExitCode)
	case EventEmpty:
		return fmt.Sprintf("❌ %s [%s] produced no valid files (exit %d)", s.Label, s.SessionID, s.ExitCode)
	case EventFailed:
		return fmt.Sprintf("🚨 %s [%s] generation failed at batch %d (exit %d)", s.Label, s.SessionID, s.Batches, s.ExitCode)
	case EventInterrupted:
		return fmt.Sprintf("⏸️ %s [%s] interrupted at batch %d. Use --resume (exit %d)", s.Label, s.SessionID, s.Batches, s.ExitCode)
	case EventRateLimited:
		return fmt.Sprintf("⏳ %s [%s] rate limit hit at batch %d - backing off", s.Label, s.SessionID, s.Batches)
	default:
		return fmt.Sprintf("ℹ️ %s [%s] event: %s (exit %d)", s.Label, s.SessionID, event, s.ExitCode)
	}
}
