package syncer

import (
	"fmt"
	"time"

	"refsheet/internal/notes"
)

// RowUpdate describes one row an operation changed.
type RowUpdate struct {
	Row   int
	Label string

	// Columns lists which library-owned columns import changed, among
	// title, authors, year, theme, and link. Empty for export updates.
	Columns []string
}

// Report summarizes one operation for the user and the run log. Operations
// return it non-nil even on error, reflecting progress up to the failure.
type Report struct {
	Op       string
	Started  time.Time
	Finished time.Time
	DryRun   bool

	// Canceled is set when the user declined the export confirmation. No
	// writes happened.
	Canceled bool

	Updated []RowUpdate
	Added   []string // labels of appended rows
	Removed []string // labels of deleted rows / untagged items
	Issues  []string // conflicts, push failures, note failures

	// Notes tallies note reconciliation across the run.
	Notes notes.Counts

	// SkippedDeletionCheck is set when export found no snapshot and could
	// not propagate sheet-side deletions.
	SkippedDeletionCheck bool
}

func newReport(op string, dryRun bool) *Report {
	return &Report{Op: op, Started: time.Now(), DryRun: dryRun}
}

// done stamps the finish time and returns r for one-line returns.
func (r *Report) done() *Report {
	r.Finished = time.Now()
	return r
}

func (r *Report) issuef(format string, args ...any) {
	r.Issues = append(r.Issues, fmt.Sprintf(format, args...))
}
