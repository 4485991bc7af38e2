package workspace

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/CodexForgeBR/batchgen/internal/fileset"
	"github.com/CodexForgeBR/batchgen/internal/logging"
)

// Default context limits.
const (
	DefaultMaxFileBytes  = 64 * 1024
	DefaultMaxTotalBytes = 256 * 1024
)

// ContextOptions bounds what LoadContext reads.
type ContextOptions struct {
	MaxFileBytes  int64
	MaxTotalBytes int64

	// Exclude holds extra gitignore-style patterns.
	Exclude []string
}

// LoadContext reads the project files matching the include globs under
// root. Hidden paths, paths ignored by root/.gitignore or opts.Exclude,
// binary files and files over the size limits are skipped. Keys are
// slash-separated and relative to root.
func LoadContext(root string, includes []string, opts ContextOptions) (fileset.FileSet, error) {
	if opts.MaxFileBytes <= 0 {
		opts.MaxFileBytes = DefaultMaxFileBytes
	}
	if opts.MaxTotalBytes <= 0 {
		opts.MaxTotalBytes = DefaultMaxTotalBytes
	}

	rules := ignoreRules(root, opts.Exclude)
	out := fileset.FileSet{}
	var total int64

	for _, pattern := range includes {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		matches, err := doublestar.FilepathGlob(filepath.Join(root, filepath.FromSlash(pattern)))
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}

		for _, match := range matches {
			rel, err := filepath.Rel(root, match)
			if err != nil {
				continue
			}
			rel = filepath.ToSlash(rel)
			if _, dup := out[rel]; dup || hidden(rel) || (rules != nil && rules.MatchesPath(rel)) {
				continue
			}

			info, err := os.Stat(match)
			if err != nil || info.IsDir() {
				continue
			}
			if info.Size() > opts.MaxFileBytes {
				logging.Debug(fmt.Sprintf("Context: skipping %s (%d bytes)", rel, info.Size()))
				continue
			}
			if total+info.Size() > opts.MaxTotalBytes {
				logging.Warn(fmt.Sprintf("Context limit of %d bytes reached; skipping remaining files", opts.MaxTotalBytes))
				return out, nil
			}

			data, err := os.ReadFile(match)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", rel, err)
			}
			if bytes.IndexByte(data, 0) >= 0 {
				continue
			}
			out[rel] = string(data)
			total += int64(len(data))
		}
	}

	return out, nil
}

// ignoreRules compiles root/.gitignore plus extra patterns, or returns nil
// when there are none.
func ignoreRules(root string, extra []string) *ignore.GitIgnore {
	var lines []string
	if data, err := os.ReadFile(filepath.Join(root, ".gitignore")); err == nil {
		lines = append(lines, strings.Split(string(data), "\n")...)
	}
	lines = append(lines, extra...)
	if len(lines) == 0 {
		return nil
	}
	return ignore.CompileIgnoreLines(lines...)
}

func hidden(rel string) bool {
	for _, seg := range strings.Split(rel, "/") {
		if strings.HasPrefix(seg, ".") && seg != "." {
			return true
		}
	}
	return false
}
