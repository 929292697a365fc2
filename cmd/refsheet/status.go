package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"refsheet/internal/props"
	"refsheet/internal/rowmap"
	"refsheet/internal/snapshot"
	"refsheet/internal/ui"
	"refsheet/internal/workbook"
)

var statusCmd = &cobra.Command{
	Use:     "status",
	GroupID: "inspect",
	Short:   "Show sheet drift and snapshot state",
	Long: `Display what the next sync would work with, without touching the library.

Shows:
  - Workbook location, size, and last modification
  - The resolved header mapping
  - Row counts, plus rows edited since the last sync
  - Deletion-snapshot age and size`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	info, err := os.Stat(cfg.Sheet.Workbook)
	if os.IsNotExist(err) {
		fmt.Printf("%s Workbook not initialized at %s\n", ui.Warn.Render("⚠"), cfg.Sheet.Workbook)
		fmt.Println("  Run 'refsheet init' to create it.")
		return nil
	}
	if err != nil {
		return err
	}

	book, err := workbook.Open(cfg.Sheet.Workbook)
	if err != nil {
		return err
	}
	defer book.Close()

	grid, err := book.Sheet(ctx, cfg.Sheet.Name)
	if err != nil {
		return err
	}
	cols, err := rowmap.LocateHeader(ctx, grid, cfg.Sheet.Name)
	if err != nil {
		return err
	}
	rows, err := rowmap.ReadAll(ctx, grid, cols)
	if err != nil {
		return err
	}

	var synced, unsynced int
	var drifted []string
	for _, row := range rows {
		if row.Ref.Key == "" {
			unsynced++
			continue
		}
		synced++
		if row.Ref.ContentFingerprint() != row.Hash {
			drifted = append(drifted, fmt.Sprintf("  row %d: %s", row.Index, row.Ref.Label()))
		}
	}

	fmt.Printf("\n%s %s\n\n", ui.Accent.Render("Sheet"), cfg.Sheet.Name)
	fmt.Printf("Workbook: %s (%s, modified %s)\n",
		cfg.Sheet.Workbook, formatSize(info.Size()), info.ModTime().Format("2006-01-02 15:04"))
	fmt.Printf("Header:   row %d; Paper=%d Authors=%d Year=%d Theme=%d Status=%d Notes=%d Key=%d Hash=%d LinkUrl=%d\n",
		cols.HeaderRow, cols.Paper, cols.Authors, cols.Year, cols.Theme, cols.Status,
		cols.Notes, cols.Key, cols.Hash, cols.LinkURL)
	fmt.Printf("Rows:     %d synced, %d never synced\n", synced, unsynced)

	if len(drifted) == 0 {
		fmt.Printf("Edits:    %s\n", ui.Muted.Render("none since the last sync"))
	} else {
		fmt.Printf("Edits:    %d row(s) changed since the last sync\n", len(drifted))
		for _, line := range drifted {
			fmt.Println(line)
		}
	}

	store, err := props.OpenFile(cfg.PropsPath())
	if err != nil {
		return err
	}
	if snap := snapshot.Load(store); snap == nil {
		fmt.Printf("Snapshot: %s\n", ui.Warn.Render("none; the next export skips its deletion check"))
	} else {
		age := time.Since(snap.SavedAt).Round(time.Minute)
		fmt.Printf("Snapshot: %d reference(s), saved %s (%s ago)\n",
			len(snap.ByKey), snap.SavedAt.Local().Format("2006-01-02 15:04"), age)
	}
	fmt.Println()
	return nil
}

func formatSize(size int64) string {
	switch {
	case size > 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(size)/(1024*1024))
	case size > 1024:
		return fmt.Sprintf("%.1f KB", float64(size)/1024)
	default:
		return fmt.Sprintf("%d bytes", size)
	}
}
