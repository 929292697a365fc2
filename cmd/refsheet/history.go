package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"refsheet/internal/runlog"
	"refsheet/internal/ui"
)

var historyCmd = &cobra.Command{
	Use:     "history",
	GroupID: "inspect",
	Short:   "Show recent sync runs",
	Long: `Print the most recent sync runs from the run journal, oldest first:
operation, start time, duration, and what each run changed.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 10, "Number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")

	recs, err := runlog.New(cfg.RunLogPath()).Recent(limit)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Println(ui.Muted.Render("No sync runs recorded yet."))
		return nil
	}

	for _, rec := range recs {
		when := rec.StartedAt.Local().Format("2006-01-02 15:04")
		dur := rec.FinishedAt.Sub(rec.StartedAt).Round(time.Millisecond)
		line := fmt.Sprintf("%s  %-6s  %6s  %d updated, %d added, %d removed",
			when, rec.Op, dur, rec.Updated, rec.Added, rec.Removed)
		if rec.Snippets > 0 {
			line += fmt.Sprintf(", %d snippets", rec.Snippets)
		}
		if rec.DryRun {
			line += ui.Muted.Render("  (dry run)")
		}
		if rec.Issues > 0 {
			line += ui.Warn.Render(fmt.Sprintf("  %d issue(s)", rec.Issues))
		}
		if rec.Error != "" {
			line += ui.Fail.Render("  " + rec.Error)
		}
		fmt.Println(line)
	}
	return nil
}
