package parser

import (
	"strings"
)

// locateObject finds the JSON object that carries key in free-form text.
//
// Strategy:
//  1. A ```json fenced block whose object contains key. The object is cut
//     by brace matching, so fences inside string values do not end it. When
//     the braces never balance the last fence bounds the object, and an
//     unterminated fence runs to the end of the text, which is how a
//     cut-off response usually looks.
//  2. Otherwise the outermost '{' before key whose object spans key (or
//     never closes).
//
// closed reports whether the object's matching '}' was found. found is
// false when key does not occur or no '{' precedes it.
func locateObject(text, key string) (obj string, closed bool, found bool) {
	if text == "" || !strings.Contains(text, key) {
		return "", false, false
	}

	if obj, closed, ok := fencedObjectWith(text, key); ok {
		return obj, closed, true
	}

	keyIdx := strings.Index(text, key)
	for pos := 0; pos < keyIdx; pos++ {
		if text[pos] != '{' {
			continue
		}
		end, ok := matchBraces(text[pos:])
		if !ok {
			return text[pos:], false, true
		}
		if pos+end > keyIdx {
			return text[pos : pos+end+1], true, true
		}
		pos += end
	}
	return "", false, false
}

// fencedObjectWith returns the object opened by the first ```json block
// that contains key.
func fencedObjectWith(text, key string) (string, bool, bool) {
	const fence = "```"
	remaining := text

	for {
		openIdx := strings.Index(remaining, fence+"json")
		if openIdx == -1 {
			return "", false, false
		}
		body := remaining[openIdx+len(fence+"json"):]
		closeIdx := strings.Index(body, fence)
		start := strings.Index(body, "{")

		if start == -1 || (closeIdx != -1 && closeIdx < start) {
			// Empty or non-object block.
			if closeIdx == -1 {
				return "", false, false
			}
			remaining = body[closeIdx+len(fence):]
			continue
		}

		if end, ok := matchBraces(body[start:]); ok {
			obj := body[start : start+end+1]
			if strings.Contains(obj, key) {
				return obj, true, true
			}
			remaining = body[start+end+1:]
			continue
		}

		// Unbalanced: the last fence is the only boundary left.
		raw := body[start:]
		if last := strings.LastIndex(raw, fence); last != -1 {
			raw = raw[:last]
		}
		if strings.Contains(raw, key) {
			return raw, false, true
		}
		return "", false, false
	}
}

// matchBraces returns the index of the closing '}' that matches the
// opening '{' at position 0, correctly handling string literals
// (including escaped quotes), nested objects, and arrays.
// Returns (index, true) on success or (0, false) if unmatched.
func matchBraces(s string) (int, bool) {
	if len(s) == 0 || s[0] != '{' {
		return 0, false
	}

	braceDepth := 0
	bracketDepth := 0
	inString := false
	i := 0

	for i < len(s) {
		ch := s[i]

		if inString {
			if ch == '\\' {
				i += 2
				continue
			}
			if ch == '"' {
				inString = false
			}
			i++
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			braceDepth++
		case '}':
			braceDepth--
			if braceDepth == 0 && bracketDepth == 0 {
				return i, true
			}
		case '[':
			bracketDepth++
		case ']':
			bracketDepth--
		}
		i++
	}

	return 0, false
}
