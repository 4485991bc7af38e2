package fileset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const realContent = "package main\n\nfunc main() {\n\tprintln(\"hi\")\n}\n"

func TestValidate_Rules(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		content string
		reason  string
	}{
		{"valid file", "cmd/app/main.go", realContent, ""},
		{"dot-slash prefix allowed", "./main.go", realContent, ""},
		{"hidden file", ".env.ts", realContent, ReasonHiddenSegment},
		{"hidden directory", "src/.cache/x.go", realContent, ReasonHiddenSegment},
		{"parent traversal", "../escape.go", realContent, ReasonHiddenSegment},
		{"no extension", "Makefile", realContent, ReasonNoExtension},
		{"trailing dot", "file.", realContent, ReasonNoExtension},
		{"empty path", "  ", realContent, ReasonEmptyPath},
		{"bare marker", "a.ts", "typescript", ReasonBareMarker},
		{"bare marker with dot and punctuation", "a.tsx", " .tsx; ", ReasonBareMarker},
		{"bare marker long tag", "a.jsx", "javascriptreact!!", ReasonBareMarker},
		{"hash file kept", "data/hash.txt", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", ""},
		{"placeholder token kept", "src/token.txt", "REPLACE_WITH_YOUR_OWN_API_KEY_VALUE", ""},
		{"too short", "a.go", "x := 1", ReasonTooShort},
		{"short after trim", "a.go", "   package a   \n\n  ", ReasonTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(FileSet{tt.path: tt.content})
			if tt.reason == "" {
				assert.Contains(t, res.ValidFiles, tt.path)
				assert.Empty(t, res.InvalidPaths)
				return
			}
			assert.Empty(t, res.ValidFiles)
			assert.Equal(t, []string{tt.path}, res.InvalidPaths)
			assert.Equal(t, tt.reason, res.Reasons[tt.path])
		})
	}
}

func TestValidate_MixedSet(t *testing.T) {
	in := FileSet{
		"b.go":    realContent,
		"a.go":    "go",
		".hidden": realContent,
		"c.py":    strings.Repeat("print('x')\n", 3),
	}

	res := Validate(in)

	assert.Equal(t, []string{".hidden", "a.go"}, res.InvalidPaths)
	assert.Len(t, res.ValidFiles, 2)
	assert.Len(t, in, 4, "input must not be modified")
}

func TestIsBareMarker(t *testing.T) {
	assert.True(t, IsBareMarker("go"))
	assert.True(t, IsBareMarker("tsx."))
	assert.True(t, IsBareMarker("typescriptreact"))
	assert.False(t, IsBareMarker(strings.Repeat("a", 17)))
	assert.False(t, IsBareMarker("package main"))
	assert.False(t, IsBareMarker(""))
}
