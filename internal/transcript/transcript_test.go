package transcript

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/batchgen/internal/generation"
)

func TestInitTranscript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "transcript.md")

	require.NoError(t, InitTranscript(path))
	assert.Equal(t, transcriptTemplate, ReadTranscript(path))

	// Existing content is preserved.
	require.NoError(t, os.WriteFile(path, []byte("kept"), 0644))
	require.NoError(t, InitTranscript(path))
	assert.Equal(t, "kept", ReadTranscript(path))
}

func TestLog_AppendMessage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcript.md")
	log := NewLog(path)

	var _ generation.LogSink = log

	require.NoError(t, log.AppendMessage(generation.Message{
		SessionID:         "gen-1",
		Label:             "api",
		Status:            generation.StatusComplete,
		Explanation:       "Generated the handlers.",
		Files:             []string{"api/handler.go", "api/routes.go"},
		MissingPaths:      []string{"api/auth.go"},
		ForcedCompletion:  true,
		UsedTargetedFetch: true,
		Batches:           5,
		Timestamp:         time.Date(2026, 2, 1, 9, 30, 0, 0, time.Local),
	}))
	require.NoError(t, log.AppendMessage(generation.Message{
		SessionID: "gen-2",
		Status:    generation.StatusFailed,
		Error:     "generation produced no usable files",
		Batches:   1,
	}))

	text := ReadTranscript(path)
	assert.True(t, strings.HasPrefix(text, "# Batchgen Transcript"))
	assert.Contains(t, text, "## gen-1 (api) - complete (2026-02-01 09:30:00)")
	assert.Contains(t, text, "Batches: 5 (forced completion), targeted fetch used")
	assert.Contains(t, text, "### Files (2)\n\n- `api/handler.go`\n- `api/routes.go`\n")
	assert.Contains(t, text, "### Missing (1)")
	assert.NotContains(t, text, "### Excluded")
	assert.Contains(t, text, "## gen-2 - failed")
	assert.Contains(t, text, "**Error:** generation produced no usable files")
	assert.Less(t, strings.Index(text, "gen-1"), strings.Index(text, "gen-2"))
}

func TestReadTranscript_Missing(t *testing.T) {
	assert.Equal(t, "", ReadTranscript(filepath.Join(t.TempDir(), "none.md")))
}
