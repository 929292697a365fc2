package rowmap

import (
	"context"
	"fmt"
	"strings"

	"refsheet/internal/linknorm"
	"refsheet/internal/refs"
	"refsheet/internal/sheet"
)

// Row is one data row read through the column map. Ref holds the row's live
// field values; Hash and StoredLink hold the last-synced state from the
// hidden columns, for change detection.
type Row struct {
	Index      int
	Ref        refs.Reference
	Hash       string
	StoredLink string
}

// IsEmpty reports whether every mapped cell of the row is blank. Fully empty
// rows are invisible to sync.
func (r Row) IsEmpty() bool {
	return r.Ref.Key == "" && r.Ref.Title == "" && r.Ref.Authors == "" &&
		r.Ref.Year == "" && r.Ref.Themes == "" && r.Ref.Status == refs.StatusNone &&
		r.Ref.Notes == "" && r.Hash == "" && r.StoredLink == ""
}

// ReadRow reads one row. The Paper cell's rich-text hyperlink, when rich
// text is present, is authoritative for the link even when empty (an
// explicitly removed link); only a plain Paper cell falls back to the hidden
// LinkUrl column. The status cell is carried verbatim, diagnostic markers
// included, so local edits keep showing up in the fingerprint.
func ReadRow(ctx context.Context, g sheet.Grid, cols Columns, row int) (Row, error) {
	region, err := g.Range(ctx, sheet.Rect{Row: row, Col: 1, Rows: 1, Cols: cols.maxIndex()})
	if err != nil {
		return Row{}, fmt.Errorf("failed to read row %d: %w", row, err)
	}
	line := region[0]
	get := func(col int) string { return strings.TrimSpace(line[col-1]) }

	r := Row{
		Index:      row,
		Hash:       get(cols.Hash),
		StoredLink: get(cols.LinkURL),
	}
	r.Ref = refs.Reference{
		Key:     get(cols.Key),
		Title:   get(cols.Paper),
		Authors: get(cols.Authors),
		Year:    get(cols.Year),
		Themes:  get(cols.Theme),
		Status:  refs.Status(get(cols.Status)),
		Notes:   line[cols.Notes-1],
	}

	rt, present, err := g.RichText(ctx, row, cols.Paper)
	if err != nil {
		return Row{}, fmt.Errorf("failed to read link of row %d: %w", row, err)
	}
	if present {
		r.Ref.LinkURL = linknorm.NormalizeURL(rt.URL)
	} else {
		r.Ref.LinkURL = linknorm.NormalizeURL(r.StoredLink)
	}
	return r, nil
}

// ReadAll reads every data row below the header, skipping fully empty ones.
func ReadAll(ctx context.Context, g sheet.Grid, cols Columns) ([]Row, error) {
	rows, _, err := g.Dims(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to size sheet %q: %w", cols.Sheet, err)
	}
	var out []Row
	for i := cols.HeaderRow + 1; i <= rows; i++ {
		row, err := ReadRow(ctx, g, cols, i)
		if err != nil {
			return nil, err
		}
		if row.IsEmpty() {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

// WriteFields writes the library-owned fields of ref to the row: the
// hyperlinked Paper cell, authors, year, themes, and key. Status and notes
// are sheet-owned and never pass through here.
func WriteFields(ctx context.Context, g sheet.Grid, cols Columns, row int, ref refs.Reference) error {
	if err := WriteLink(ctx, g, cols, row, ref.Title, ref.LinkURL); err != nil {
		return err
	}
	for _, w := range []struct {
		col   int
		value string
	}{
		{cols.Authors, ref.Authors},
		{cols.Year, ref.Year},
		{cols.Theme, ref.Themes},
		{cols.Key, ref.Key},
	} {
		if err := g.SetCell(ctx, row, w.col, w.value); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
	}
	return nil
}

// WriteLink writes the Paper cell: hyperlinked rich text when url is
// non-empty, plain text when the link is gone.
func WriteLink(ctx context.Context, g sheet.Grid, cols Columns, row int, title, url string) error {
	var err error
	if url == "" {
		err = g.SetCell(ctx, row, cols.Paper, title)
	} else {
		err = g.SetRichText(ctx, row, cols.Paper, sheet.RichText{Text: title, URL: url})
	}
	if err != nil {
		return fmt.Errorf("failed to write paper cell of row %d: %w", row, err)
	}
	return nil
}

// WriteHash stores the row's content fingerprint in the hidden Hash column.
func WriteHash(ctx context.Context, g sheet.Grid, cols Columns, row int, hash string) error {
	if err := g.SetCell(ctx, row, cols.Hash, hash); err != nil {
		return fmt.Errorf("failed to write hash of row %d: %w", row, err)
	}
	return nil
}

// WriteStoredLink stores the row's normalized link in the hidden LinkUrl
// column.
func WriteStoredLink(ctx context.Context, g sheet.Grid, cols Columns, row int, link string) error {
	if err := g.SetCell(ctx, row, cols.LinkURL, link); err != nil {
		return fmt.Errorf("failed to write stored link of row %d: %w", row, err)
	}
	return nil
}

// WriteStatus writes the status cell. Export also routes its per-row
// diagnostic markers ("conflict", "push failed") through here.
func WriteStatus(ctx context.Context, g sheet.Grid, cols Columns, row int, status string) error {
	if err := g.SetCell(ctx, row, cols.Status, status); err != nil {
		return fmt.Errorf("failed to write status of row %d: %w", row, err)
	}
	return nil
}

// WriteNotes writes the notes cell.
func WriteNotes(ctx context.Context, g sheet.Grid, cols Columns, row int, notes string) error {
	if err := g.SetCell(ctx, row, cols.Notes, notes); err != nil {
		return fmt.Errorf("failed to write notes of row %d: %w", row, err)
	}
	return nil
}

// AppendRow appends ref as a new data row and returns its index. The hash
// column is left empty; the caller stores the fingerprint once the row's
// final state (including any imported notes) is known.
func AppendRow(ctx context.Context, g sheet.Grid, cols Columns, ref refs.Reference) (int, error) {
	values := make([]string, cols.maxIndex())
	values[cols.Paper-1] = ref.Title
	values[cols.Authors-1] = ref.Authors
	values[cols.Year-1] = ref.Year
	values[cols.Theme-1] = ref.Themes
	values[cols.Status-1] = string(ref.Status)
	values[cols.Notes-1] = ref.Notes
	values[cols.Key-1] = ref.Key
	values[cols.LinkURL-1] = ref.LinkURL

	row, err := g.AppendRow(ctx, values)
	if err != nil {
		return 0, fmt.Errorf("failed to append row for %s: %w", ref.Key, err)
	}
	if ref.LinkURL != "" {
		if err := WriteLink(ctx, g, cols, row, ref.Title, ref.LinkURL); err != nil {
			return 0, err
		}
	}
	return row, nil
}

// Checkpoint returns the row's core-fingerprint checkpoint, kept in the Key
// cell's out-of-band note. "" means the row was never checkpointed.
func Checkpoint(ctx context.Context, g sheet.Grid, cols Columns, row int) (string, error) {
	cp, err := g.CellNote(ctx, row, cols.Key)
	if err != nil {
		return "", fmt.Errorf("failed to read checkpoint of row %d: %w", row, err)
	}
	return cp, nil
}

// SetCheckpoint stores the row's core-fingerprint checkpoint.
func SetCheckpoint(ctx context.Context, g sheet.Grid, cols Columns, row int, digest string) error {
	if err := g.SetCellNote(ctx, row, cols.Key, digest); err != nil {
		return fmt.Errorf("failed to write checkpoint of row %d: %w", row, err)
	}
	return nil
}
