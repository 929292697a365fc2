package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"refsheet/internal/config"
	"refsheet/internal/props"
	"refsheet/internal/runlog"
	"refsheet/internal/syncer"
	"refsheet/internal/themes"
	"refsheet/internal/ui"
	"refsheet/internal/workbook"
	"refsheet/internal/zotero"
)

var rootCmd = &cobra.Command{
	Use:   "refsheet",
	Short: "Keep a reading-list sheet and a reference library in sync",
	Long: `refsheet synchronizes a spreadsheet reading list with a tagged
reference library.

Import pulls every item carrying the marker tag into the sheet, adding new
rows and refreshing library-owned columns while leaving your status and
notes alone. Export pushes sheet edits back, folds your notes into each
item, and untags items whose rows you deleted. Notes pulls new library note
snippets into the notes column without touching anything else.

Start with 'refsheet init', fill in the generated config, then run
'refsheet import'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		accent := ""
		if cfg, err := loadConfig(cmd); err == nil {
			accent = cfg.UI.Accent
		}
		ui.ConfigureColors(accent)
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file path (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().Bool("verbose", false, "Debug logging, echoed to stderr")
	rootCmd.AddGroup(
		&cobra.Group{ID: "sync", Title: "Sync Commands:"},
		&cobra.Group{ID: "inspect", Title: "Inspection Commands:"},
	)
}

// Execute runs the command tree. Fatal errors print one styled line and
// exit non-zero.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", ui.Fail.Render("Error:"), err)
		os.Exit(1)
	}
}

// loadConfig loads the config file, honoring the --config override.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// buildLogger returns the diagnostic logger. Lines always go to a rotating
// file under the data directory; --verbose echoes them to stderr and drops
// the level to Debug.
func buildLogger(cfg *config.Config, verbose bool) *slog.Logger {
	var sink io.Writer = &lumberjack.Logger{
		Filename:   cfg.LogPath(),
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     30, // days
	}
	level := slog.LevelInfo
	if verbose {
		sink = io.MultiWriter(sink, os.Stderr)
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(sink, &slog.HandlerOptions{Level: level}))
}

// syncEnv is the wiring the three sync commands share: validated config, the
// open workbook, a ready engine, and the run journal.
type syncEnv struct {
	cfg    *config.Config
	logger *slog.Logger
	book   *workbook.Workbook
	sync   *syncer.Syncer
	runs   *runlog.Log
}

func openSyncEnv(cmd *cobra.Command, assumeYes bool) (*syncEnv, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := buildLogger(cfg, verbose)

	client, err := zotero.New(zotero.Config{
		BaseURL: cfg.Library.BaseURL,
		UserID:  cfg.Library.UserID,
		APIKey:  cfg.Library.APIKey,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}

	book, err := workbook.Open(cfg.Sheet.Workbook)
	if err != nil {
		return nil, err
	}
	ctx := cmd.Context()
	if err := book.InitSchema(ctx); err != nil {
		_ = book.Close()
		return nil, err
	}
	grid, err := book.Sheet(ctx, cfg.Sheet.Name)
	if err != nil {
		_ = book.Close()
		return nil, fmt.Errorf("%w (run 'refsheet init' first)", err)
	}

	store, err := props.OpenFile(cfg.PropsPath())
	if err != nil {
		_ = book.Close()
		return nil, err
	}

	eng, err := syncer.New(syncer.Options{
		Library:   client,
		Notes:     client,
		Grid:      grid,
		Dialogs:   &ui.ConsoleDialogs{AssumeYes: assumeYes},
		Props:     store,
		Themes:    themes.NewStore(cfg.ThemesPath()),
		Logger:    logger,
		MarkerTag: cfg.Sheet.MarkerTag,
		SheetName: cfg.Sheet.Name,
	})
	if err != nil {
		_ = book.Close()
		return nil, err
	}

	return &syncEnv{
		cfg:    cfg,
		logger: logger,
		book:   book,
		sync:   eng,
		runs:   runlog.New(cfg.RunLogPath()),
	}, nil
}

func (e *syncEnv) Close() {
	if err := e.book.Close(); err != nil {
		e.logger.Warn("failed to close workbook", "error", err)
	}
}

// record journals one finished run. Journal failures are logged, never fatal.
func (e *syncEnv) record(rep *syncer.Report, runErr error) {
	rec := runlog.Record{
		Op:         rep.Op,
		StartedAt:  rep.Started,
		FinishedAt: rep.Finished,
		DryRun:     rep.DryRun,
		Updated:    len(rep.Updated),
		Added:      len(rep.Added),
		Removed:    len(rep.Removed),
		Snippets:   rep.Notes.Appended,
		Issues:     len(rep.Issues),
	}
	switch {
	case runErr != nil:
		rec.Error = runErr.Error()
	case rep.Canceled:
		rec.Error = "canceled"
	}
	if err := e.runs.Append(rec); err != nil {
		e.logger.Warn("failed to record run", "error", err)
	}
}
