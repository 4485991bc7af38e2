package logging_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/batchgen/internal/logging"
)

func init() {
	// Disable color output in tests so assertions match plain text.
	color.NoColor = true
}

// captureOutput captures terminal output produced by fn.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	var buf bytes.Buffer
	logging.SetOutput(&buf)
	defer logging.SetOutput(nil)

	fn()
	return buf.String()
}

// ---------------------------------------------------------------------------
// FormatDuration tests
// ---------------------------------------------------------------------------

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds  int
		expected string
	}{
		{0, "0s"},
		{45, "45s"},
		{90, "1m 30s"},
		{3661, "1h 1m 1s"},
		{7200, "2h 0m 0s"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, logging.FormatDuration(tt.seconds))
		})
	}
}

// ---------------------------------------------------------------------------
// Log output tests
// ---------------------------------------------------------------------------

func TestLevels(t *testing.T) {
	tests := []struct {
		prefix string
		fn     func(string)
	}{
		{"[INFO]", logging.Info},
		{"[SUCCESS]", logging.Success},
		{"[WARN]", logging.Warn},
		{"[ERROR]", logging.Error},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			out := captureOutput(t, func() { tt.fn("test message") })
			assert.Equal(t, tt.prefix+" test message\n", out)
		})
	}
}

func TestPhase(t *testing.T) {
	out := captureOutput(t, func() {
		logging.Phase("batch 2")
	})
	assert.Contains(t, out, "[PHASE] batch 2")
	// Phase output includes separator lines.
	assert.Contains(t, out, "━━━━")
}

func TestDebugSuppressedWhenNotVerbose(t *testing.T) {
	logging.SetVerbose(false)
	out := captureOutput(t, func() {
		logging.Debug("hidden")
	})
	assert.Empty(t, out)
}

func TestDebugShownWhenVerbose(t *testing.T) {
	logging.SetVerbose(true)
	defer logging.SetVerbose(false)

	out := captureOutput(t, func() {
		logging.Debug("visible")
	})
	assert.Contains(t, out, "[DEBUG] visible")
}

func TestProgressHasNoPrefix(t *testing.T) {
	out := captureOutput(t, func() {
		logging.Progress("...")
		logging.Progress(".")
	})
	assert.Equal(t, "....", out)
}

func TestSetLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batchgen.log")
	logging.SetLogFile(path)

	captureOutput(t, func() {
		logging.Info("to file")
		logging.Progress("not to file")
		logging.Phase("header")
	})
	require.NoError(t, logging.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[INFO] to file")
	assert.Contains(t, string(data), "[PHASE] header")
	assert.NotContains(t, string(data), "not to file")

	// Closing again is a no-op.
	assert.NoError(t, logging.Close())
}

func TestSetLogFile_EmptyDisables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batchgen.log")
	logging.SetLogFile(path)
	logging.SetLogFile("")

	captureOutput(t, func() { logging.Info("nowhere") })

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
