// Package sheet defines the tabular-store surface the sync engine works
// against: a Grid of one sheet's cells, a Book of named sheets, and the
// Dialogs the engine raises before destructive work. Implementations are
// workbook.Workbook (SQLite) for real runs and Memory for tests.
package sheet

import "context"

// Rect addresses a rectangular cell range. Row and Col are 1-based.
type Rect struct {
	Row  int
	Col  int
	Rows int
	Cols int
}

// Grid is one sheet's cell store. All coordinates are 1-based; reads outside
// the used extent return empty values, never errors.
type Grid interface {
	// Dims returns the used extent as (rows, cols).
	Dims(ctx context.Context) (rows, cols int, err error)

	// Cell returns the cell's display text.
	Cell(ctx context.Context, row, col int) (string, error)

	// SetCell writes plain text, clearing any rich-text value. Writing ""
	// empties the cell.
	SetCell(ctx context.Context, row, col int, value string) error

	// RichText returns the cell's formatted value. present is false when the
	// cell holds only plain text; a present value with an empty URL means the
	// hyperlink was explicitly removed.
	RichText(ctx context.Context, row, col int) (rt RichText, present bool, err error)

	// SetRichText writes a formatted value, replacing any plain text.
	SetRichText(ctx context.Context, row, col int, rt RichText) error

	// CellNote returns the cell's out-of-band note, "" when unset.
	CellNote(ctx context.Context, row, col int) (string, error)

	// SetCellNote writes the cell's out-of-band note. "" clears it.
	SetCellNote(ctx context.Context, row, col int, note string) error

	// Range reads a rectangle of display text, row-major, every row padded
	// to r.Cols.
	Range(ctx context.Context, r Rect) ([][]string, error)

	// SetRange writes a rectangle of plain text values.
	SetRange(ctx context.Context, r Rect, values [][]string) error

	// AppendRow adds a row of plain text after the used extent and returns
	// its index.
	AppendRow(ctx context.Context, values []string) (int, error)

	// DeleteRow removes the row; subsequent rows shift up.
	DeleteRow(ctx context.Context, row int) error

	// HideColumn hides the column from display. Hidden cells stay readable
	// and writable.
	HideColumn(ctx context.Context, col int) error
}

// Book is a collection of named sheets.
type Book interface {
	// Sheet returns the named sheet's grid.
	Sheet(ctx context.Context, name string) (Grid, error)

	// InsertSheet creates a new empty sheet and returns its grid.
	InsertSheet(ctx context.Context, name string) (Grid, error)

	// Sheets lists sheet names in creation order.
	Sheets(ctx context.Context) ([]string, error)
}
