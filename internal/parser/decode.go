package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/CodexForgeBR/batchgen/internal/fileset"
)

// fileEntry is one element of an array-shaped "files" collection.
type fileEntry struct {
	Path     string `json:"path"`
	FilePath string `json:"filePath"`
	File     string `json:"file"`
	Content  string `json:"content"`
}

func (e fileEntry) path() string {
	for _, p := range []string{e.Path, e.FilePath, e.File} {
		if p = strings.TrimSpace(p); p != "" {
			return p
		}
	}
	return ""
}

// wireMeta mirrors GenerationMeta with a pointer so that an explicit empty
// remainingFiles list can be told apart from a missing one.
type wireMeta struct {
	TotalFilesPlanned int       `json:"totalFilesPlanned"`
	FilesInThisBatch  []string  `json:"filesInThisBatch"`
	CompletedFiles    []string  `json:"completedFiles"`
	RemainingFiles    *[]string `json:"remainingFiles"`
	CurrentBatch      int       `json:"currentBatch"`
	TotalBatches      int       `json:"totalBatches"`
	IsComplete        bool      `json:"isComplete"`
}

func (w wireMeta) toMeta() *GenerationMeta {
	m := &GenerationMeta{
		TotalFilesPlanned: w.TotalFilesPlanned,
		FilesInThisBatch:  w.FilesInThisBatch,
		CompletedFiles:    w.CompletedFiles,
		CurrentBatch:      w.CurrentBatch,
		TotalBatches:      w.TotalBatches,
		IsComplete:        w.IsComplete,
	}
	if w.RemainingFiles != nil {
		m.RemainingFiles = *w.RemainingFiles
		m.RemainingReported = true
	}
	return m
}

// decodeObject walks obj token by token, keeping every complete file entry
// seen before the first error. The returned Result carries whatever was
// recovered even when err is non-nil.
func decodeObject(obj string) (Result, error) {
	res := Result{Files: fileset.FileSet{}}
	dec := json.NewDecoder(strings.NewReader(obj))

	if err := expectDelim(dec, '{'); err != nil {
		return res, err
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return res, err
		}
		key, ok := tok.(string)
		if !ok {
			return res, fmt.Errorf("unexpected token %v", tok)
		}

		switch key {
		case "files":
			if err := decodeFiles(dec, res.Files); err != nil {
				return res, err
			}
		case "explanation":
			if err := dec.Decode(&res.Explanation); err != nil {
				return res, err
			}
		case "generationMeta":
			var w wireMeta
			if err := dec.Decode(&w); err != nil {
				return res, err
			}
			res.Meta = w.toMeta()
		default:
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return res, err
			}
		}
	}

	return res, expectDelim(dec, '}')
}

// decodeFiles accepts either [{"path":..,"content":..}] or {"path":"content"}.
func decodeFiles(dec *json.Decoder, into fileset.FileSet) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}

	switch tok {
	case json.Delim('['):
		for dec.More() {
			var e fileEntry
			if err := dec.Decode(&e); err != nil {
				return err
			}
			if p := e.path(); p != "" {
				into[p] = e.Content
			}
		}
		return expectDelim(dec, ']')

	case json.Delim('{'):
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return err
			}
			var content string
			if err := dec.Decode(&content); err != nil {
				return err
			}
			if p, ok := keyTok.(string); ok && strings.TrimSpace(p) != "" {
				into[strings.TrimSpace(p)] = content
			}
		}
		return expectDelim(dec, '}')

	default:
		return fmt.Errorf("files: unexpected token %v", tok)
	}
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
