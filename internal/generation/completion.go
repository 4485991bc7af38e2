package generation

import (
	"github.com/CodexForgeBR/batchgen/internal/fileset"
	"github.com/CodexForgeBR/batchgen/internal/parser"
)

// DefaultMaxBatches bounds the number of batches in one session.
const DefaultMaxBatches = 5

// Progress is what a session knows before a batch result is folded in.
type Progress struct {
	// Accumulated is the file set at the start of the batch.
	Accumulated fileset.FileSet

	// Remaining is the outstanding path list at the start of the batch.
	Remaining []string

	// Total is the planned file count, 0 when unknown.
	Total int

	// Batch is the 1-based batch number being evaluated.
	Batch int
}

// Detection is the result of folding one batch into a session.
type Detection struct {
	Accumulated fileset.FileSet
	Remaining   []string
	Total       int
	Added       int

	RemainingEmpty    bool
	ServiceComplete   bool
	TotalReached      bool
	ServiceReportZero bool

	// Forced is true when a safety valve ended the session and no natural
	// signal did.
	Forced bool

	Complete bool
}

// Natural reports whether any of the four completion signals fired.
func (d Detection) Natural() bool {
	return d.RemainingEmpty || d.ServiceComplete || d.TotalReached || d.ServiceReportZero
}

// DetectCompletion merges res into p and decides whether the session is done.
//
// The remaining list is the union of what was outstanding and what the
// service reports as remaining, filtered by the merged set. The session
// completes when that list is empty, the service says it is complete, the
// merged set reaches the planned total, or the service reports an explicit
// empty remaining list. Reaching maxBatches or adding no new path forces
// completion regardless.
func DetectCompletion(p Progress, res parser.Result, maxBatches int) Detection {
	if maxBatches <= 0 {
		maxBatches = DefaultMaxBatches
	}

	merged := fileset.Merge(p.Accumulated, res.Files)
	d := Detection{
		Accumulated: merged,
		Total:       p.Total,
		Added:       fileset.CountNew(p.Accumulated, merged),
	}

	reported := []string(nil)
	if m := res.Meta; m != nil {
		if d.Total == 0 && m.TotalFilesPlanned > 0 {
			d.Total = m.TotalFilesPlanned
		}
		reported = m.RemainingFiles
		d.ServiceComplete = m.IsComplete
		d.ServiceReportZero = m.RemainingReported && len(m.RemainingFiles) == 0
	}

	d.Remaining = fileset.Outstanding(fileset.Union(p.Remaining, reported), merged)
	d.RemainingEmpty = len(d.Remaining) == 0
	d.TotalReached = d.Total > 0 && len(merged) >= d.Total

	valve := p.Batch >= maxBatches || d.Added == 0
	d.Forced = valve && !d.Natural()
	d.Complete = d.Natural() || valve
	return d
}
