// Package workspace connects generated files to the project on disk: it
// loads existing files as request context and applies finished results.
package workspace

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/CodexForgeBR/batchgen/internal/fileset"
	"github.com/CodexForgeBR/batchgen/internal/logging"
)

// ErrPathEscapes is returned for a generated path that would land outside
// the output root.
var ErrPathEscapes = errors.New("path escapes output directory")

// Action is what Apply did with one file.
type Action string

const (
	ActionCreated   Action = "created"
	ActionUpdated   Action = "updated"
	ActionUnchanged Action = "unchanged"
)

// Change describes one applied file.
type Change struct {
	Path    string
	Action  Action
	Added   int
	Removed int
}

// Summary describes one Apply call.
type Summary struct {
	Label   string
	DryRun  bool
	Changes []Change
}

// Count returns how many changes have action a.
func (s Summary) Count(a Action) int {
	n := 0
	for _, c := range s.Changes {
		if c.Action == a {
			n++
		}
	}
	return n
}

// Applier writes generated files under Root. Applying the same files twice
// leaves the tree unchanged the second time.
type Applier struct {
	Root   string
	DryRun bool

	last Summary
}

// NewApplier returns an Applier rooted at root.
func NewApplier(root string, dryRun bool) *Applier {
	return &Applier{Root: root, DryRun: dryRun}
}

// Last returns the summary of the most recent Apply.
func (a *Applier) Last() Summary {
	return a.last
}

// Apply writes files under Root. Every path is checked before anything is
// written, so an escaping path aborts the whole apply. Apply is not atomic:
// when a write fails, earlier files stay on disk and Last reports only the
// changes made before the failure.
func (a *Applier) Apply(label string, files fileset.FileSet) error {
	targets := make(map[string]string, len(files))
	for _, p := range files.Paths() {
		target, err := resolve(a.Root, p)
		if err != nil {
			return err
		}
		targets[p] = target
	}

	sum := Summary{Label: label, DryRun: a.DryRun}
	defer func() { a.last = sum }()

	for _, p := range files.Paths() {
		target := targets[p]
		change, err := diffFile(target, files[p])
		if err != nil {
			return err
		}
		change.Path = p

		if change.Action != ActionUnchanged && !a.DryRun {
			if err := writeFile(target, files[p]); err != nil {
				return fmt.Errorf("write %s: %w", p, err)
			}
			logging.Debug(fmt.Sprintf("%s %s (+%d -%d)", change.Action, p, change.Added, change.Removed))
		}
		sum.Changes = append(sum.Changes, change)
	}
	return nil
}

func writeFile(target, content string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	return os.WriteFile(target, []byte(content), 0644)
}

// resolve maps a generated path to a location under root.
func resolve(root, rel string) (string, error) {
	norm := filepath.FromSlash(strings.ReplaceAll(rel, "\\", "/"))
	if norm == "" || filepath.IsAbs(norm) || filepath.VolumeName(norm) != "" {
		return "", fmt.Errorf("%s: %w", rel, ErrPathEscapes)
	}
	clean := filepath.Clean(norm)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: %w", rel, ErrPathEscapes)
	}
	return filepath.Join(root, clean), nil
}

// diffFile compares content with what is on disk at target.
func diffFile(target, content string) (Change, error) {
	existing, err := os.ReadFile(target)
	if errors.Is(err, os.ErrNotExist) {
		return Change{Action: ActionCreated, Added: countLines(content)}, nil
	}
	if err != nil {
		return Change{}, fmt.Errorf("read %s: %w", target, err)
	}
	if bytes.Equal(existing, []byte(content)) {
		return Change{Action: ActionUnchanged}, nil
	}

	added, removed := lineChanges(string(existing), content)
	return Change{Action: ActionUpdated, Added: added, Removed: removed}, nil
}

// lineChanges counts inserted and deleted lines between before and after.
func lineChanges(before, after string) (added, removed int) {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			added += countLines(d.Text)
		case diffmatchpatch.DiffDelete:
			removed += countLines(d.Text)
		}
	}
	return added, removed
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}
