package ui

import (
	"fmt"
	"strings"
	"time"

	"refsheet/internal/syncer"
)

// labelCap bounds how many reference labels a list prints before collapsing
// into an overflow count.
const labelCap = 15

// RenderReport formats an operation report for the terminal.
func RenderReport(rep *syncer.Report) string {
	var b strings.Builder
	op := strings.ToUpper(rep.Op[:1]) + rep.Op[1:]

	if rep.Canceled {
		fmt.Fprintf(&b, "%s canceled; nothing was written.\n", op)
		return b.String()
	}
	if rep.DryRun {
		b.WriteString(Muted.Render("dry run, nothing written") + "\n")
	}

	elapsed := rep.Finished.Sub(rep.Started).Round(time.Millisecond)
	fmt.Fprintf(&b, "%s %s finished in %s\n", Pass.Render("✓"), op, elapsed)

	if len(rep.Updated) > 0 {
		fmt.Fprintf(&b, "%s\n", Bold.Render(fmt.Sprintf("Updated %d row(s)", len(rep.Updated))))
		for _, u := range rep.Updated {
			fmt.Fprintf(&b, "  row %d: %s", u.Row, Accent.Render(u.Label))
			if len(u.Columns) > 0 {
				b.WriteString(Muted.Render(" (" + strings.Join(u.Columns, ", ") + ")"))
			}
			b.WriteString("\n")
		}
	}
	writeLabelList(&b, "Added", rep.Added)
	writeLabelList(&b, "Removed", rep.Removed)

	if rep.Notes.Total > 0 {
		fmt.Fprintf(&b, "Notes: %d appended, %d already imported, %d origin, %d empty (of %d)\n",
			rep.Notes.Appended, rep.Notes.SkippedImported, rep.Notes.SkippedOrigin,
			rep.Notes.Empty, rep.Notes.Total)
	}
	if rep.SkippedDeletionCheck {
		b.WriteString(Warn.Render("⚠") + " no snapshot from a previous run; deletion check skipped\n")
	}
	for _, issue := range rep.Issues {
		b.WriteString(Warn.Render("⚠") + " " + issue + "\n")
	}

	if len(rep.Updated) == 0 && len(rep.Added) == 0 && len(rep.Removed) == 0 && len(rep.Issues) == 0 {
		b.WriteString(Muted.Render("Everything in sync.") + "\n")
	}
	return b.String()
}

// writeLabelList prints a deduplicated label list under a count header,
// collapsing anything beyond labelCap into "+N more".
func writeLabelList(b *strings.Builder, verb string, labels []string) {
	if len(labels) == 0 {
		return
	}
	fmt.Fprintf(b, "%s\n", Bold.Render(fmt.Sprintf("%s %d reference(s)", verb, len(labels))))

	unique := dedupe(labels)
	shown := unique
	if len(shown) > labelCap {
		shown = shown[:labelCap]
	}
	for _, label := range shown {
		b.WriteString("  " + Accent.Render(label) + "\n")
	}
	if extra := len(unique) - len(shown); extra > 0 {
		b.WriteString(Muted.Render(fmt.Sprintf("  +%d more", extra)) + "\n")
	}
}

// dedupe removes repeated labels, keeping first-seen order.
func dedupe(labels []string) []string {
	seen := make(map[string]bool, len(labels))
	out := make([]string, 0, len(labels))
	for _, label := range labels {
		if seen[label] {
			continue
		}
		seen[label] = true
		out = append(out, label)
	}
	return out
}
