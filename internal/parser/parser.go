// Package parser turns the raw text streamed back by the generation service
// into a structured batch result.
//
// The orchestrator only depends on the ResponseParser contract. JSONParser
// is the default implementation: it understands a JSON object carrying a
// "files" collection and falls back to path-tagged fenced code blocks.
package parser

import (
	"errors"

	"github.com/CodexForgeBR/batchgen/internal/fileset"
)

// ErrNoMatch is reported when no file-shaped content is locatable at all.
var ErrNoMatch = errors.New("no file content found in response")

// Status is the parser's three-way outcome.
type Status int

const (
	// NoMatch means no file-shaped content was found.
	NoMatch Status = iota
	// Ok means a structurally complete response was parsed.
	Ok
	// PartialOk means some files were recovered from a response that was
	// cut off or partly malformed. Truncated tells which.
	PartialOk
)

func (s Status) String() string {
	switch s {
	case Ok:
		return "ok"
	case PartialOk:
		return "partial"
	default:
		return "no_match"
	}
}

// GenerationMeta is the service's own account of session progress.
//
// CompletedFiles and RemainingFiles are expected to be disjoint. The
// service may mis-report counts; callers treat every field as a hint.
type GenerationMeta struct {
	TotalFilesPlanned int      `json:"totalFilesPlanned"`
	FilesInThisBatch  []string `json:"filesInThisBatch"`
	CompletedFiles    []string `json:"completedFiles"`
	RemainingFiles    []string `json:"remainingFiles"`
	CurrentBatch      int      `json:"currentBatch"`
	TotalBatches      int      `json:"totalBatches"`
	IsComplete        bool     `json:"isComplete"`

	// RemainingReported is true when the response carried an explicit
	// remainingFiles list, which distinguishes "[]" from "absent".
	RemainingReported bool `json:"-"`
}

// Result is the parsed form of one batch response.
type Result struct {
	Status      Status
	Files       fileset.FileSet
	Explanation string
	Truncated   bool
	Meta        *GenerationMeta
}

// ResponseParser converts raw response text into a Result.
// A NoMatch status is the only "none" answer.
type ResponseParser interface {
	Parse(raw string) Result
}

// JSONParser is the default ResponseParser.
type JSONParser struct{}

// NewJSONParser returns the default parser.
func NewJSONParser() *JSONParser {
	return &JSONParser{}
}

// Parse implements ResponseParser.
func (p *JSONParser) Parse(raw string) Result {
	if obj, closed, found := locateObject(raw, `"files"`); found {
		res, err := decodeObject(obj)
		if len(res.Files) > 0 {
			res.Truncated = !closed
			res.Status = Ok
			if err != nil || !closed {
				res.Status = PartialOk
			}
			return res
		}
	}

	if res := parseFences(raw); len(res.Files) > 0 {
		return res
	}
	return Result{Status: NoMatch}
}
