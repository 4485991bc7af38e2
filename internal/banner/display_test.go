package banner

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

// capture redirects Out for the duration of fn and disables color codes.
func capture(t *testing.T, fn func()) string {
	t.Helper()

	oldOut, oldNoColor := Out, color.NoColor
	defer func() {
		Out = oldOut
		color.NoColor = oldNoColor
	}()

	var buf bytes.Buffer
	Out = &buf
	color.NoColor = true
	fn()
	return buf.String()
}

func TestPrintStartupBanner(t *testing.T) {
	tests := []struct {
		name       string
		info       StartupInfo
		expected   []string
		unexpected []string
	}{
		{
			name: "with plan",
			info: StartupInfo{
				SessionID:  "gen-1",
				Provider:   "openai",
				Model:      "gpt-4o-mini",
				Plan:       "plan.yaml",
				PlanFiles:  12,
				OutputDir:  "./out",
				MaxBatches: 5,
			},
			expected:   []string{"batchgen - Batched Code Generation", "Session:    gen-1", "Provider:   openai", "Plan:       plan.yaml (12 files)", "Output:     ./out", "up to 5"},
			unexpected: []string{"Dry run"},
		},
		{
			name:       "prompt only dry run",
			info:       StartupInfo{Provider: "ollama", Model: "qwen2.5-coder", OutputDir: ".", MaxBatches: 3, DryRun: true},
			expected:   []string{"Provider:   ollama", "Dry run: no files will be written"},
			unexpected: []string{"Plan:", "Session:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := capture(t, func() { PrintStartupBanner(tt.info) })
			for _, s := range tt.expected {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.unexpected {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestPrintCompletionBanner(t *testing.T) {
	out := capture(t, func() { PrintCompletionBanner(12, 4, 1, 3, 65) })

	assert.Contains(t, out, "✓ Generation complete")
	assert.Contains(t, out, "Files:      12 (4 created, 1 updated)")
	assert.Contains(t, out, "Batches:    3")
	assert.Contains(t, out, "(65s)")
}

func TestPrintPartialBanner(t *testing.T) {
	out := capture(t, func() { PrintPartialBanner([]string{"api/auth.go", "api/session.go"}, true) })

	assert.Contains(t, out, "Generation incomplete (2 files missing)")
	assert.Contains(t, out, "batch limit")
	assert.Contains(t, out, "    - api/auth.go\n")
	assert.Contains(t, out, "    - api/session.go\n")
}

func TestPrintFailureBanner(t *testing.T) {
	out := capture(t, func() { PrintFailureBanner("generation produced no usable files") })

	assert.Contains(t, out, "GENERATION FAILED")
	assert.Contains(t, out, "  generation produced no usable files\n")
}

func TestPrintInterruptedBanner(t *testing.T) {
	out := capture(t, func() { PrintInterruptedBanner(3, 7) })

	assert.Contains(t, out, "Session interrupted")
	assert.Contains(t, out, "Batch:     3")
	assert.Contains(t, out, "Files:     7")
	assert.Contains(t, out, "--resume")
}

func TestPrintStatusBanner(t *testing.T) {
	out := capture(t, func() {
		PrintStatusBanner(StatusInfo{
			SessionID:     "gen-1",
			Status:        "INTERRUPTED",
			Phase:         "retry_wait",
			Label:         "api",
			Batch:         3,
			RetryAttempts: 1,
			Files:         7,
			Remaining:     5,
			Provider:      "openai",
			Model:         "gpt-4o-mini",
		})
	})

	assert.Contains(t, out, "Session:   gen-1")
	assert.Contains(t, out, "Label:     api")
	assert.Contains(t, out, "Batch:     3 (retry 1)")
	assert.Contains(t, out, "Files:     7 done, 5 remaining")
	assert.Contains(t, out, "Provider:  openai (gpt-4o-mini)")
}
