package syncer

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"refsheet/internal/notes"
	"refsheet/internal/props"
	"refsheet/internal/refs"
	"refsheet/internal/sheet"
	"refsheet/internal/themes"
	"refsheet/internal/zotero"
)

// Options wires a Syncer. Library, Notes, Grid, Dialogs, and Props are
// required; Themes and Logger may be nil.
type Options struct {
	Library Library
	Notes   notes.NoteClient
	Grid    sheet.Grid
	Dialogs sheet.Dialogs
	Props   props.Store

	// Themes receives newly seen theme tags during import. Nil skips the
	// theme-options update.
	Themes *themes.Store

	Logger *slog.Logger

	// MarkerTag is the library tag that marks an item as part of the synced
	// reading list.
	MarkerTag string

	// SheetName names the sheet in errors and log lines.
	SheetName string
}

// Syncer runs the sync operations against one sheet and one library.
type Syncer struct {
	lib     Library
	notes   notes.NoteClient
	grid    sheet.Grid
	dialogs sheet.Dialogs
	props   props.Store
	themes  *themes.Store
	logger  *slog.Logger
	marker  string
	sheet   string
}

// New validates opts and returns a ready Syncer.
func New(opts Options) (*Syncer, error) {
	switch {
	case opts.Library == nil:
		return nil, fmt.Errorf("syncer: library client is required")
	case opts.Notes == nil:
		return nil, fmt.Errorf("syncer: note client is required")
	case opts.Grid == nil:
		return nil, fmt.Errorf("syncer: sheet grid is required")
	case opts.Dialogs == nil:
		return nil, fmt.Errorf("syncer: dialogs are required")
	case opts.Props == nil:
		return nil, fmt.Errorf("syncer: property store is required")
	case opts.MarkerTag == "":
		return nil, fmt.Errorf("syncer: marker tag is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	name := opts.SheetName
	if name == "" {
		name = "References"
	}
	return &Syncer{
		lib:     opts.Library,
		notes:   opts.Notes,
		grid:    opts.Grid,
		dialogs: opts.Dialogs,
		props:   opts.Props,
		themes:  opts.Themes,
		logger:  logger,
		marker:  opts.MarkerTag,
		sheet:   name,
	}, nil
}

// appendSnippets joins new note snippets onto an existing notes value with
// blank lines between entries.
func appendSnippets(existing string, texts []string) string {
	joined := strings.Join(texts, "\n\n")
	if strings.TrimSpace(existing) == "" {
		return joined
	}
	return strings.TrimRight(existing, "\n") + "\n\n" + joined
}

// exportTags builds the full replacement tag set for a pushed item: the
// row's theme tags, the status tag when the status cell holds a real status,
// and the marker tag. Internal legacy tags never survive, and entries the
// other two sources contribute are not duplicated from the theme cell.
func exportTags(themeList string, status refs.Status, marker string) []zotero.Tag {
	var tags []zotero.Tag
	seen := make(map[string]bool)
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" || notes.IsInternalTag(name) {
			return
		}
		lower := strings.ToLower(name)
		if seen[lower] {
			return
		}
		seen[lower] = true
		tags = append(tags, zotero.Tag{Tag: name})
	}

	for _, name := range strings.Split(themeList, ",") {
		name = strings.TrimSpace(name)
		if refs.IsStatusTag(name) || strings.EqualFold(name, marker) {
			continue
		}
		add(name)
	}
	if st, ok := refs.ParseStatus(string(status)); ok && st != refs.StatusNone {
		add(string(st))
	}
	add(marker)
	return tags
}
