package generation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/CodexForgeBR/batchgen/internal/ai"
	"github.com/CodexForgeBR/batchgen/internal/logging"
	"github.com/CodexForgeBR/batchgen/internal/parser"
	"github.com/CodexForgeBR/batchgen/internal/progress"
)

// Options tune the requests a session sends.
type Options struct {
	MaxBatches      int
	MaxOutputTokens int
	Temperature     float32
	JSONMode        bool

	// PreviewLimit caps the accumulated-file preview in targeted prompts.
	PreviewLimit int

	// BatchPause is an optional wait between consecutive batches.
	BatchPause time.Duration

	Monitor ai.MonitorConfig
}

// BatchResult is one executed batch.
type BatchResult struct {
	Parsed     parser.Result
	Raw        string
	Completion *ai.Completion
}

// executor runs a single streaming request and parses the reply.
type executor struct {
	gen      ai.Generator
	parser   parser.ResponseParser
	progress *progress.Broadcaster
	opts     Options
}

// Execute streams one request and parses the collected text. A reply with
// no recognizable files returns ErrParseFailure. A reply cut off by the
// output token limit is marked truncated even when the parser managed to
// close it.
func (e *executor) Execute(ctx context.Context, sessionID string, batch int, system, prompt string) (BatchResult, error) {
	streamCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	act := ai.NewActivity()
	if e.opts.Monitor.InactivityTimeout > 0 || e.opts.Monitor.HardCap > 0 {
		go ai.MonitorStream(streamCtx, cancel, act, e.opts.Monitor)
	}

	e.progress.Publish(progress.Event{Kind: progress.BatchStarted, SessionID: sessionID, Batch: batch})

	var sb strings.Builder
	comp, err := e.gen.StreamComplete(streamCtx, ai.Request{
		System:          system,
		Prompt:          prompt,
		MaxOutputTokens: e.opts.MaxOutputTokens,
		Temperature:     e.opts.Temperature,
		JSONMode:        e.opts.JSONMode,
	}, func(chunk string) {
		act.Touch()
		sb.WriteString(chunk)
		e.progress.Publish(progress.Event{
			Kind:      progress.ChunkReceived,
			SessionID: sessionID,
			Batch:     batch,
			Chars:     sb.Len(),
		})
	})
	raw := sb.String()
	if err != nil {
		return BatchResult{Raw: raw, Completion: comp}, err
	}

	res := e.parser.Parse(raw)
	if res.Status == parser.NoMatch {
		logging.Debug(fmt.Sprintf("Batch %d: %d chars with no parseable files", batch, len(raw)))
		return BatchResult{Parsed: res, Raw: raw, Completion: comp},
			fmt.Errorf("batch %d: %w: %w", batch, ErrParseFailure, parser.ErrNoMatch)
	}
	if comp.Truncated() {
		res.Truncated = true
	}

	logging.Debug(fmt.Sprintf("Batch %d: parsed %d file(s), status=%s, truncated=%v",
		batch, len(res.Files), res.Status, res.Truncated))
	return BatchResult{Parsed: res, Raw: raw, Completion: comp}, nil
}
