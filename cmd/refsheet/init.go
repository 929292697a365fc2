package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"refsheet/internal/config"
	"refsheet/internal/rowmap"
	"refsheet/internal/ui"
	"refsheet/internal/workbook"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the config template, workbook, and reading-list sheet",
	Long: `Set up everything refsheet needs on this machine.

This creates:
  1. A commented config template (if none exists)
  2. The workbook database
  3. The reading-list sheet with its header row
  4. Hidden Key/Hash/LinkUrl columns for sync bookkeeping

Running init again is safe; existing files are left alone. Fill in
library.user_id and the API key before the first import.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfgPath, _ := cmd.Flags().GetString("config")
	if cfgPath == "" {
		created, err := config.CreateDefault()
		if err != nil {
			return err
		}
		cfgPath = created
	}
	cfg, err := config.LoadFrom(cfgPath)
	if err != nil {
		return err
	}
	fmt.Printf("%s Config: %s\n", ui.Pass.Render("✓"), cfgPath)

	book, err := workbook.Open(cfg.Sheet.Workbook)
	if err != nil {
		return err
	}
	defer book.Close()
	if err := book.InitSchema(ctx); err != nil {
		return err
	}
	fmt.Printf("%s Workbook: %s\n", ui.Pass.Render("✓"), cfg.Sheet.Workbook)

	grid, err := book.Sheet(ctx, cfg.Sheet.Name)
	if err != nil {
		grid, err = book.InsertSheet(ctx, cfg.Sheet.Name)
		if err != nil {
			return err
		}
	}

	cols, err := rowmap.LocateHeader(ctx, grid, cfg.Sheet.Name)
	var notFound *rowmap.HeaderNotFoundError
	switch {
	case err == nil:
		fmt.Printf("%s Sheet %q ready (header row %d)\n", ui.Pass.Render("✓"), cfg.Sheet.Name, cols.HeaderRow)
	case errors.As(err, &notFound):
		cols, err = rowmap.InitHeader(ctx, grid, cfg.Sheet.Name)
		if err != nil {
			return err
		}
		fmt.Printf("%s Sheet %q created (header row %d, internal columns hidden)\n",
			ui.Pass.Render("✓"), cfg.Sheet.Name, cols.HeaderRow)
	default:
		return err
	}

	if cfg.Validate() != nil {
		fmt.Printf("%s Set library.user_id and the API key in %s, then run 'refsheet import'.\n",
			ui.Accent.Render("→"), cfgPath)
	} else {
		fmt.Printf("%s Run 'refsheet import' to pull the reading list.\n", ui.Accent.Render("→"))
	}
	return nil
}
