package parser

import (
	"strings"

	"github.com/CodexForgeBR/batchgen/internal/fileset"
)

// parseFences reads fenced code blocks whose info string names a path:
//
//	```go path=cmd/main.go
//	```cmd/main.go
//	```go cmd/main.go
//
// Blocks tagged only with a language are ignored. A final fence that never
// closes marks the result truncated and its partial body is dropped.
func parseFences(text string) Result {
	const fence = "```"
	res := Result{Files: fileset.FileSet{}}
	remaining := text

	for {
		openIdx := strings.Index(remaining, fence)
		if openIdx == -1 {
			break
		}
		afterOpen := remaining[openIdx+len(fence):]
		nl := strings.IndexByte(afterOpen, '\n')
		if nl == -1 {
			res.Truncated = true
			break
		}
		info := strings.TrimSpace(afterOpen[:nl])
		body := afterOpen[nl+1:]

		closeIdx := strings.Index(body, fence)
		if closeIdx == -1 {
			if fencePath(info) != "" {
				res.Truncated = true
			}
			break
		}

		if path := fencePath(info); path != "" {
			res.Files[path] = body[:closeIdx]
		}
		remaining = body[closeIdx+len(fence):]
	}

	switch {
	case len(res.Files) == 0:
		res.Status = NoMatch
	case res.Truncated:
		res.Status = PartialOk
	default:
		res.Status = Ok
	}
	return res
}

// fencePath extracts a file path from a fence info string.
func fencePath(info string) string {
	for _, field := range strings.Fields(info) {
		for _, prefix := range []string{"path=", "file=", "filename="} {
			if strings.HasPrefix(field, prefix) {
				return strings.Trim(strings.TrimPrefix(field, prefix), `"'`)
			}
		}
	}
	for _, field := range strings.Fields(info) {
		if strings.ContainsAny(field, "./") && !strings.HasPrefix(field, ".") {
			return field
		}
	}
	return ""
}
