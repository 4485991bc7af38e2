// Package transcript keeps a markdown record of finished generation
// sessions for the conversation that requested them.
package transcript

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/CodexForgeBR/batchgen/internal/generation"
)

const (
	// Template for a newly initialized transcript file
	transcriptTemplate = `# Batchgen Transcript

Each entry records one generation session: what was produced, what was
excluded, and what is still missing.

---
`
)

// InitTranscript creates a new transcript file with the standard header.
// Creates parent directories if needed. An existing file is left alone.
func InitTranscript(filePath string) error {
	if _, err := os.Stat(filePath); err == nil {
		return nil
	}

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	if err := os.WriteFile(filePath, []byte(transcriptTemplate), 0644); err != nil {
		return fmt.Errorf("failed to write transcript file: %w", err)
	}

	return nil
}

// Log appends session messages to a transcript file. It satisfies
// generation.LogSink.
type Log struct {
	Path string
}

// NewLog returns a Log writing to path.
func NewLog(path string) *Log {
	return &Log{Path: path}
}

// AppendMessage appends one formatted entry, creating the file if needed.
func (l *Log) AppendMessage(msg generation.Message) error {
	if err := InitTranscript(l.Path); err != nil {
		return err
	}

	f, err := os.OpenFile(l.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open transcript file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatEntry(msg)); err != nil {
		return fmt.Errorf("failed to append transcript entry: %w", err)
	}
	return nil
}

// FormatEntry renders msg as a markdown section.
func FormatEntry(msg generation.Message) string {
	ts := msg.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	var b strings.Builder
	title := msg.SessionID
	if msg.Label != "" {
		title = fmt.Sprintf("%s (%s)", msg.SessionID, msg.Label)
	}
	fmt.Fprintf(&b, "\n## %s - %s (%s)\n\n", title, msg.Status, ts.Local().Format("2006-01-02 15:04:05"))

	fmt.Fprintf(&b, "Batches: %d", msg.Batches)
	if msg.ForcedCompletion {
		b.WriteString(" (forced completion)")
	}
	if msg.UsedTargetedFetch {
		b.WriteString(", targeted fetch used")
	}
	b.WriteString("\n")

	if msg.Explanation != "" {
		fmt.Fprintf(&b, "\n%s\n", msg.Explanation)
	}
	writeList(&b, "Files", msg.Files)
	writeList(&b, "Excluded", msg.InvalidPaths)
	writeList(&b, "Missing", msg.MissingPaths)
	if msg.Error != "" {
		fmt.Fprintf(&b, "\n**Error:** %s\n", msg.Error)
	}
	return b.String()
}

func writeList(b *strings.Builder, title string, paths []string) {
	if len(paths) == 0 {
		return
	}
	fmt.Fprintf(b, "\n### %s (%d)\n\n", title, len(paths))
	for _, p := range paths {
		fmt.Fprintf(b, "- `%s`\n", p)
	}
}

// ReadTranscript reads the entire transcript file.
// Returns empty string if the file doesn't exist or can't be read.
func ReadTranscript(filePath string) string {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return ""
	}
	return string(content)
}
