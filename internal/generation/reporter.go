package generation

import (
	"fmt"
	"strings"
	"time"

	"github.com/CodexForgeBR/batchgen/internal/fileset"
	"github.com/CodexForgeBR/batchgen/internal/prompt"
)

// ApplySink receives the validated files of a finished session.
type ApplySink interface {
	Apply(label string, files fileset.FileSet) error
}

// LogSink receives the summary message of a finished session.
type LogSink interface {
	AppendMessage(msg Message) error
}

// Snapshotter persists continuation state between batches.
type Snapshotter interface {
	Save(st ContinuationState) error
	Clear() error
}

// ApplyFunc adapts a function to ApplySink.
type ApplyFunc func(label string, files fileset.FileSet) error

func (f ApplyFunc) Apply(label string, files fileset.FileSet) error { return f(label, files) }

// LogFunc adapts a function to LogSink.
type LogFunc func(msg Message) error

func (f LogFunc) AppendMessage(msg Message) error { return f(msg) }

// Message summarizes a finished session for the conversation log.
type Message struct {
	SessionID         string
	Label             string
	Status            Status
	Explanation       string
	Files             []string
	MissingPaths      []string
	InvalidPaths      []string
	ForcedCompletion  bool
	UsedTargetedFetch bool
	Batches           int
	Error             string
	Timestamp         time.Time
}

// composeExplanation appends the session annotations to the service's
// own explanation.
func composeExplanation(base string, forced bool, batches int, invalid, missing []string, previewLimit int) string {
	parts := make([]string, 0, 4)
	if s := strings.TrimSpace(base); s != "" {
		parts = append(parts, s)
	}
	if forced {
		parts = append(parts, fmt.Sprintf("Generation was stopped after %d batch(es) without a completion signal.", batches))
	}
	if len(invalid) > 0 {
		parts = append(parts, fmt.Sprintf("Excluded %d invalid file(s):\n%s", len(invalid), prompt.PreviewList(invalid, previewLimit)))
	}
	if len(missing) > 0 {
		parts = append(parts, fmt.Sprintf("Missing %d planned file(s):\n%s", len(missing), prompt.PreviewList(missing, previewLimit)))
	}
	return strings.Join(parts, "\n\n")
}
