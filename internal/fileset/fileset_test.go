package fileset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMerge_OverlayWins(t *testing.T) {
	base := FileSet{"a.go": "old", "b.go": "keep"}
	overlay := FileSet{"a.go": "new", "c.go": "added"}

	merged := Merge(base, overlay)

	assert.Equal(t, FileSet{"a.go": "new", "b.go": "keep", "c.go": "added"}, merged)
	// inputs untouched
	assert.Equal(t, "old", base["a.go"])
	assert.Len(t, overlay, 2)
}

func TestMerge_Idempotent(t *testing.T) {
	acc := FileSet{"x.go": "1"}
	batch := FileSet{"y.go": "2", "x.go": "3"}

	once := Merge(acc, batch)
	twice := Merge(once, batch)

	assert.Equal(t, once, twice)
}

func TestMerge_NilInputs(t *testing.T) {
	assert.Empty(t, Merge(nil, nil))
	assert.NotNil(t, Merge(nil, nil))
}

func TestCountNew(t *testing.T) {
	before := FileSet{"a.go": "", "b.go": ""}
	after := FileSet{"a.go": "", "b.go": "", "c.go": ""}
	assert.Equal(t, 1, CountNew(before, after))
	assert.Equal(t, 0, CountNew(after, before))
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"main.go", "main.go"},
		{"src/app/main.go", "main.go"},
		{`src\win\file.cs`, "file.cs"},
		{"dir/", "dir"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, BaseName(tt.in))
		})
	}
}

func TestOutstanding_ExactAndFilenameMatch(t *testing.T) {
	produced := FileSet{
		"src/index.ts": "...",
		"app.tsx":      "...",
	}
	planned := []string{"src/index.ts", "src/components/app.tsx", "README.md", "README.md"}

	assert.Equal(t, []string{"README.md"}, Outstanding(planned, produced))
}

func TestOutstanding_SharedBasenameFalsePositive(t *testing.T) {
	// Two planned files sharing a name: producing one hides the other.
	produced := FileSet{"server/index.ts": "..."}
	planned := []string{"server/index.ts", "client/index.ts"}

	assert.Empty(t, Outstanding(planned, produced))
}

func TestUnion(t *testing.T) {
	got := Union([]string{"a", "b"}, []string{"b", "", "c"}, nil)
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestPaths_Sorted(t *testing.T) {
	fs := FileSet{"z.go": "", "a.go": "", "m/x.go": ""}
	assert.Equal(t, []string{"a.go", "m/x.go", "z.go"}, fs.Paths())
}
