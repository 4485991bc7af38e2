package plan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePlan(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writePlan(t, `
request: |
  A CLI that converts CSV to JSON
label: csv2json
files:
  - main.go
  - " internal/convert/convert.go "
  - main.go
  - ""
`)

	p, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "A CLI that converts CSV to JSON", p.Request)
	assert.Equal(t, "csv2json", p.Label)
	assert.Equal(t, []string{"main.go", "internal/convert/convert.go"}, p.Files)
	assert.Equal(t, 2, p.Total(), "total defaults to the listed file count")
}

func TestParse_ExplicitTotalKept(t *testing.T) {
	p, err := Parse([]byte("request: x\ntotal_files: 8\nfiles: [a.go, b.go]\n"))
	require.NoError(t, err)
	assert.Equal(t, 8, p.Total())
}

func TestParse_TotalBelowListedIsRaised(t *testing.T) {
	p, err := Parse([]byte("request: x\ntotal_files: 1\nfiles: [a.go, b.go]\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, p.Total())
}

func TestParse_RequestOnly(t *testing.T) {
	p, err := Parse([]byte("request: build it\n"))
	require.NoError(t, err)
	assert.Zero(t, p.Total())
	assert.Nil(t, p.Remaining())
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse([]byte("label: nothing\n"))
	assert.ErrorIs(t, err, ErrEmptyRequest)
}

func TestParse_BadYAML(t *testing.T) {
	_, err := Parse([]byte("files: [unterminated\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse plan")
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRemaining_ReturnsCopy(t *testing.T) {
	p := &Plan{Files: []string{"a.go"}}
	r := p.Remaining()
	r[0] = "changed.go"
	assert.Equal(t, "a.go", p.Files[0])

	var nilPlan *Plan
	assert.Zero(t, nilPlan.Total())
	assert.Nil(t, nilPlan.Remaining())
}
