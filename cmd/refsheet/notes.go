package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"refsheet/internal/ui"
)

var notesCmd = &cobra.Command{
	Use:     "notes",
	GroupID: "sync",
	Short:   "Pull new library notes into the Notes column",
	Long: `Fold new library note snippets into each row's Notes cell.

Only notes written in the library itself are pulled; notes refsheet created
from the sheet are recognized and skipped, so nothing round-trips. Each
pulled note is tagged in the library and will not be pulled twice. Rows are
otherwise untouched.`,
	RunE: runNotes,
}

func init() {
	rootCmd.AddCommand(notesCmd)
}

func runNotes(cmd *cobra.Command, args []string) error {
	env, err := openSyncEnv(cmd, false)
	if err != nil {
		return err
	}
	defer env.Close()

	rep, err := env.sync.ImportNotes(cmd.Context())
	env.record(rep, err)
	fmt.Print(ui.RenderReport(rep))
	return err
}
