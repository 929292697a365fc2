package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"refsheet/internal/syncer"
	"refsheet/internal/ui"
)

var importCmd = &cobra.Command{
	Use:     "import",
	GroupID: "sync",
	Short:   "Pull tagged library items into the sheet",
	Long: `Pull every library item carrying the marker tag into the sheet.

New items get a fresh row; existing rows get their library-owned columns
(Paper, Authors, Year, Theme, link) refreshed. Status and Notes belong to
the sheet and are never touched. Rows whose item no longer carries the tag
are deleted.

Examples:
  # Preview without writing anything
  refsheet import --dry-run

  # Fold library notes into new rows regardless of config
  refsheet import --notes`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().Bool("dry-run", false, "Report what would change without writing anything")
	importCmd.Flags().Bool("notes", false, "Fold library notes into the sheet (overrides config)")
	importCmd.Flags().Bool("no-notes", false, "Skip note import (overrides config)")
	importCmd.MarkFlagsMutuallyExclusive("notes", "no-notes")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	env, err := openSyncEnv(cmd, false)
	if err != nil {
		return err
	}
	defer env.Close()

	includeNotes := env.cfg.Sync.IncludeNotes
	if cmd.Flags().Changed("notes") {
		includeNotes, _ = cmd.Flags().GetBool("notes")
	}
	if cmd.Flags().Changed("no-notes") {
		includeNotes = false
	}

	rep, err := env.sync.Import(cmd.Context(), syncer.ImportOptions{
		DryRun:       dryRun,
		IncludeNotes: includeNotes,
	})
	env.record(rep, err)
	fmt.Print(ui.RenderReport(rep))
	return err
}
