package generation

import (
	"context"
	"fmt"

	"github.com/CodexForgeBR/batchgen/internal/ai"
	"github.com/CodexForgeBR/batchgen/internal/fileset"
	"github.com/CodexForgeBR/batchgen/internal/logging"
	"github.com/CodexForgeBR/batchgen/internal/progress"
	"github.com/CodexForgeBR/batchgen/internal/prompt"
)

// TargetedResult is the outcome of a targeted fetch.
type TargetedResult struct {
	Success     bool
	Files       fileset.FileSet
	Explanation string
	Completion  *ai.Completion
}

// fetchMissing makes one narrow request for exactly the missing paths.
// Returned files are kept only when they match a missing path by exact
// path or bare filename. It never retries; any failure yields
// Success=false with an empty file set.
func (e *executor) fetchMissing(ctx context.Context, st ContinuationState, missing []string) TargetedResult {
	if len(missing) == 0 {
		return TargetedResult{Files: fileset.FileSet{}}
	}

	e.progress.Publish(progress.Event{
		Kind:      progress.TargetedFetch,
		SessionID: st.SessionID,
		Batch:     st.CurrentBatch,
		Message:   fmt.Sprintf("%d missing file(s)", len(missing)),
	})
	logging.Info(fmt.Sprintf("Requesting %d missing file(s) directly", len(missing)))

	limit := e.opts.PreviewLimit
	if limit <= 0 {
		limit = prompt.DefaultPreviewLimit
	}
	p := prompt.BuildTargetedPrompt(st.OriginalPrompt, missing, st.AccumulatedFiles.Paths(), limit)

	res, err := e.Execute(ctx, st.SessionID, st.CurrentBatch, st.SystemInstruction, p)
	if err != nil {
		logging.Warn(fmt.Sprintf("Targeted fetch failed: %v", err))
		return TargetedResult{Files: fileset.FileSet{}, Completion: res.Completion}
	}

	wanted := make(fileset.FileSet, len(missing))
	for _, m := range missing {
		wanted[m] = ""
	}
	idx := fileset.NewIndex(wanted)

	kept := make(fileset.FileSet)
	for path, content := range res.Parsed.Files {
		if idx.Covers(path) {
			kept[path] = content
		} else {
			logging.Debug(fmt.Sprintf("Targeted fetch: ignoring unrequested file %s", path))
		}
	}

	return TargetedResult{
		Success:     len(kept) > 0,
		Files:       kept,
		Explanation: res.Parsed.Explanation,
		Completion:  res.Completion,
	}
}
