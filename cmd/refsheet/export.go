package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"refsheet/internal/syncer"
	"refsheet/internal/ui"
)

var exportCmd = &cobra.Command{
	Use:     "export",
	GroupID: "sync",
	Short:   "Push sheet edits back to the library",
	Long: `Push edited rows back to their library items.

Each changed row updates the item's title, link, status tag, and theme tags,
and folds the Notes cell into the item's sheet-origin note. Edits to core
fields (title, authors, year) prompt for confirmation first, since the
library usually owns those. Items whose rows were deleted since the last
run lose the marker tag.

A row whose item changed remotely since the last sync is marked "conflict"
in its status cell and skipped; run 'refsheet import' to pull the remote
state, then export again.

Examples:
  # Preview without pushing
  refsheet export --dry-run

  # Skip the core-edit confirmation (cron, scripts)
  refsheet export --yes`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().Bool("dry-run", false, "Report what would change without writing anything")
	exportCmd.Flags().Bool("yes", false, "Answer yes to every confirmation")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	yes, _ := cmd.Flags().GetBool("yes")

	env, err := openSyncEnv(cmd, yes)
	if err != nil {
		return err
	}
	defer env.Close()

	rep, err := env.sync.Export(cmd.Context(), syncer.ExportOptions{
		DryRun: dryRun,
		Yes:    yes,
	})
	env.record(rep, err)
	fmt.Print(ui.RenderReport(rep))
	return err
}
