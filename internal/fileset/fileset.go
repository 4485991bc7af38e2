// Package fileset models the path-to-content maps exchanged with the
// generation service: project files sent as merge context, and the files
// a session accumulates across batches.
//
// A FileSet is treated as immutable once built. Every combining operation
// returns a fresh map so that snapshots handed to other goroutines never
// alias a map that is still being written.
package fileset

import (
	"sort"
	"strings"
)

// FileSet maps a file path (unique key) to its full content.
type FileSet map[string]string

// Clone returns a shallow copy of fs. A nil set clones to an empty set.
func (fs FileSet) Clone() FileSet {
	out := make(FileSet, len(fs))
	for p, c := range fs {
		out[p] = c
	}
	return out
}

// Paths returns the keys of fs in lexical order.
func (fs FileSet) Paths() []string {
	paths := make([]string, 0, len(fs))
	for p := range fs {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Merge returns base ∪ overlay as a new set. On a path collision the
// overlay wins, so later batches supersede earlier partial content.
func Merge(base, overlay FileSet) FileSet {
	out := make(FileSet, len(base)+len(overlay))
	for p, c := range base {
		out[p] = c
	}
	for p, c := range overlay {
		out[p] = c
	}
	return out
}

// CountNew reports how many paths in after are absent from before.
func CountNew(before, after FileSet) int {
	n := 0
	for p := range after {
		if _, ok := before[p]; !ok {
			n++
		}
	}
	return n
}

// BaseName returns the final path element, accepting both slash styles.
func BaseName(path string) string {
	p := strings.ReplaceAll(path, "\\", "/")
	p = strings.TrimRight(p, "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}

// Index answers "is this planned path already produced?" against a set.
//
// A planned path counts as produced when either the exact path or its bare
// filename exists in the set. Filename matching tolerates prefix drift
// ("src/app.ts" planned, "app.ts" emitted) at the cost of false positives
// when two planned files share a name in different directories.
type Index struct {
	paths map[string]struct{}
	names map[string]struct{}
}

// NewIndex builds an Index over the keys of fs.
func NewIndex(fs FileSet) Index {
	idx := Index{
		paths: make(map[string]struct{}, len(fs)),
		names: make(map[string]struct{}, len(fs)),
	}
	for p := range fs {
		idx.paths[p] = struct{}{}
		idx.names[BaseName(p)] = struct{}{}
	}
	return idx
}

// Covers reports whether path is produced by exact path or bare filename.
func (i Index) Covers(path string) bool {
	if _, ok := i.paths[path]; ok {
		return true
	}
	_, ok := i.names[BaseName(path)]
	return ok
}

// Outstanding filters planned down to the paths not yet covered by fs,
// preserving order and dropping duplicates.
func Outstanding(planned []string, fs FileSet) []string {
	idx := NewIndex(fs)
	seen := make(map[string]struct{}, len(planned))
	out := make([]string, 0, len(planned))
	for _, p := range planned {
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		if !idx.Covers(p) {
			out = append(out, p)
		}
	}
	return out
}

// Union returns the de-duplicated concatenation of lists, first occurrence wins.
func Union(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, l := range lists {
		for _, p := range l {
			if p == "" {
				continue
			}
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}
