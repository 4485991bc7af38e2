package fileset

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinContentLength is the shortest trimmed content accepted as a real file.
const MinContentLength = 20

// Rejection reasons reported in ValidationResult.Reasons.
const (
	ReasonHiddenSegment = "hidden path segment"
	ReasonNoExtension   = "no recognizable file extension"
	ReasonBareMarker    = "content is a bare type marker"
	ReasonTooShort      = "content shorter than 20 characters"
	ReasonEmptyPath     = "empty path"
)

var (
	// extensionRe matches a trailing ".ext" on a base name.
	extensionRe = regexp.MustCompile(`^[^.].*\.[A-Za-z0-9]{1,10}$`)

	// bareMarkerRe matches content that is nothing but a type tag such as
	// "typescript", ".tsx" or "json;": a degenerate echo of the fence
	// language instead of the file body. Tags are capped at 16 characters
	// so one-token files such as hashes or keys are not mistaken for one.
	bareMarkerRe = regexp.MustCompile(`^\s*\.?[A-Za-z][A-Za-z0-9_+#-]{0,15}\s*[[:punct:]]*\s*$`)
)

// ValidationResult is the outcome of Validate.
type ValidationResult struct {
	ValidFiles   FileSet
	InvalidPaths []string
	Reasons      map[string]string
}

// Validate sanitizes a candidate file set.
//
// A file is rejected when:
//   - its path is empty or any segment other than "." starts with a dot
//     (hidden files, ".." traversal included);
//   - its base name lacks a recognizable extension;
//   - its content is a bare type marker, optionally followed by punctuation;
//   - its trimmed content is shorter than MinContentLength characters.
//
// InvalidPaths is sorted. The input set is not modified.
func Validate(files FileSet) ValidationResult {
	res := ValidationResult{
		ValidFiles: make(FileSet, len(files)),
		Reasons:    make(map[string]string),
	}
	for _, path := range files.Paths() {
		if reason := rejectReason(path, files[path]); reason != "" {
			res.InvalidPaths = append(res.InvalidPaths, path)
			res.Reasons[path] = reason
			continue
		}
		res.ValidFiles[path] = files[path]
	}
	return res
}

func rejectReason(path, content string) string {
	norm := strings.ReplaceAll(strings.TrimSpace(path), "\\", "/")
	if norm == "" {
		return ReasonEmptyPath
	}
	for _, seg := range strings.Split(norm, "/") {
		if seg != "." && strings.HasPrefix(seg, ".") {
			return ReasonHiddenSegment
		}
	}
	if !extensionRe.MatchString(BaseName(norm)) {
		return ReasonNoExtension
	}
	if IsBareMarker(content) {
		return ReasonBareMarker
	}
	if utf8.RuneCountInString(strings.TrimSpace(content)) < MinContentLength {
		return ReasonTooShort
	}
	return ""
}

// IsBareMarker reports whether content is a lone language/extension token.
func IsBareMarker(content string) bool {
	return bareMarkerRe.MatchString(content)
}
