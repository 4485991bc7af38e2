package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for p, c := range files {
		full := filepath.Join(root, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(c), 0644))
	}
}

func TestLoadContext(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"go.mod":             "module example.com/x\n",
		"cmd/app/main.go":    "package main\n",
		"internal/a/a.go":    "package a\n",
		"internal/a/a.pb.go": "package a // generated\n",
		".hidden/secret.go":  "package hidden\n",
		"vendor/dep/dep.go":  "package dep\n",
		"bin.go":             "package bin\x00",
		".gitignore":         "vendor/\n",
	})

	got, err := LoadContext(root, []string{"go.mod", "**/*.go"}, ContextOptions{Exclude: []string{"*.pb.go"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"cmd/app/main.go", "go.mod", "internal/a/a.go"}, got.Paths())
	assert.Equal(t, "module example.com/x\n", got["go.mod"])
}

func TestLoadContext_SizeLimits(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"big.txt":   strings.Repeat("x", 100),
		"a.txt":     strings.Repeat("a", 40),
		"b.txt":     strings.Repeat("b", 40),
		"small.txt": "ok",
	})

	got, err := LoadContext(root, []string{"small.txt", "big.txt", "a.txt", "b.txt"},
		ContextOptions{MaxFileBytes: 50, MaxTotalBytes: 60})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.txt", "small.txt"}, got.Paths())
}

func TestLoadContext_NoMatches(t *testing.T) {
	got, err := LoadContext(t.TempDir(), []string{"**/*.rs", " "}, ContextOptions{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadContext_BadPattern(t *testing.T) {
	_, err := LoadContext(t.TempDir(), []string{"[unclosed"}, ContextOptions{})
	assert.Error(t, err)
}
