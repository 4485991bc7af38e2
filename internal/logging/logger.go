// Package logging provides colored, leveled log output for the batchgen CLI.
//
// All output functions write a prefixed, color-coded line to stderr so that
// stdout stays free for machine-readable results. When a log file is set,
// every line is also appended there without color, through a rotating
// lumberjack writer. Debug output is suppressed unless verbose mode is
// enabled via SetVerbose(true).
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"github.com/fatih/color"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu      sync.Mutex
	verbose bool
	out     io.Writer = os.Stderr
	fileLog *log.Logger
	rotator *lumberjack.Logger
)

// Color printers for each log level.
var (
	infoPrefix    = color.New(color.FgBlue).SprintFunc()
	successPrefix = color.New(color.FgGreen).SprintFunc()
	warnPrefix    = color.New(color.FgYellow).SprintFunc()
	errorPrefix   = color.New(color.FgRed).SprintFunc()
	phasePrefix   = color.New(color.FgCyan).SprintFunc()
	debugPrefix   = color.New(color.FgBlue).SprintFunc()
)

// SetVerbose enables or disables Debug output.
func SetVerbose(v bool) {
	mu.Lock()
	verbose = v
	mu.Unlock()
}

// SetOutput redirects terminal output. Passing nil restores stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	out = w
}

// SetLogFile tees all log lines into path, rotating at 10 MB. An empty path
// disables the file log.
func SetLogFile(path string) {
	mu.Lock()
	defer mu.Unlock()
	if rotator != nil {
		rotator.Close()
		rotator, fileLog = nil, nil
	}
	if path == "" {
		return
	}
	rotator = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	fileLog = log.New(rotator, "", log.LstdFlags)
}

// Close flushes and closes the file log, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if rotator == nil {
		return nil
	}
	err := rotator.Close()
	rotator, fileLog = nil, nil
	return err
}

func emit(colored, plain, msg string) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintln(out, colored+" "+msg)
	if fileLog != nil {
		fileLog.Println(plain + " " + msg)
	}
}

// Info prints an informational message in blue.
func Info(msg string) {
	emit(infoPrefix("[INFO]"), "[INFO]", msg)
}

// Success prints a success message in green.
func Success(msg string) {
	emit(successPrefix("[SUCCESS]"), "[SUCCESS]", msg)
}

// Warn prints a warning message in yellow.
func Warn(msg string) {
	emit(warnPrefix("[WARN]"), "[WARN]", msg)
}

// Error prints an error message in red.
func Error(msg string) {
	emit(errorPrefix("[ERROR]"), "[ERROR]", msg)
}

// Phase prints a phase header in cyan, surrounded by separator lines.
func Phase(msg string) {
	sep := "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintln(out, phasePrefix(sep))
	fmt.Fprintln(out, phasePrefix("[PHASE]")+" "+msg)
	fmt.Fprintln(out, phasePrefix(sep))
	if fileLog != nil {
		fileLog.Println("[PHASE] " + msg)
	}
}

// Debug prints a debug message in blue, only when verbose mode is enabled.
func Debug(msg string) {
	mu.Lock()
	v := verbose
	mu.Unlock()
	if !v {
		return
	}
	emit(debugPrefix("[DEBUG]"), "[DEBUG]", msg)
}

// Progress writes raw streaming progress to the terminal, without a
// prefix or newline. It never reaches the file log.
func Progress(s string) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprint(out, s)
}

// FormatDuration converts a duration in seconds to a human-readable string.
//
// Examples:
//
//	FormatDuration(0)    => "0s"
//	FormatDuration(45)   => "45s"
//	FormatDuration(90)   => "1m 30s"
//	FormatDuration(3661) => "1h 1m 1s"
//	FormatDuration(7200) => "2h 0m 0s"
func FormatDuration(seconds int) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	if seconds < 3600 {
		m := seconds / 60
		s := seconds % 60
		return fmt.Sprintf("%dm %ds", m, s)
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}
