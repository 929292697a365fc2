// Package rowmap maps between sheet rows and reference records: it resolves
// the column layout from the header row, reads rows into refs.Reference
// values, and writes field updates back cell by cell.
//
// Column resolution is two-phase. The six user-facing columns (Paper,
// Authors, Year, Theme, Status, Notes) must be found by name, in any order
// and case. The three internal columns (Key, Hash, LinkUrl) are resolved by
// name when present and otherwise assigned the three positions immediately
// after Notes, where init places and hides them.
package rowmap

import (
	"context"
	"fmt"
	"strings"

	"refsheet/internal/sheet"
)

const (
	headerScanRows = 10
	headerScanCols = 30
)

// Canonical header names. Matching is case-insensitive.
const (
	HeaderPaper   = "Paper"
	HeaderAuthors = "Authors"
	HeaderYear    = "Year"
	HeaderTheme   = "Theme"
	HeaderStatus  = "Status"
	HeaderNotes   = "Notes"
	HeaderKey     = "Key"
	HeaderHash    = "Hash"
	HeaderLinkURL = "LinkUrl"
)

// CanonicalHeader is the full header row init writes, required columns first,
// internal columns directly after Notes.
var CanonicalHeader = []string{
	HeaderPaper, HeaderAuthors, HeaderYear, HeaderTheme, HeaderStatus,
	HeaderNotes, HeaderKey, HeaderHash, HeaderLinkURL,
}

var requiredHeaders = []string{
	HeaderPaper, HeaderAuthors, HeaderYear, HeaderTheme, HeaderStatus, HeaderNotes,
}

// Columns is the immutable resolved column map every row operation consumes:
// the header row index plus nine 1-based column indices.
type Columns struct {
	Sheet     string
	HeaderRow int

	Paper   int
	Authors int
	Year    int
	Theme   int
	Status  int
	Notes   int

	Key     int
	Hash    int
	LinkURL int
}

// maxIndex returns the rightmost mapped column.
func (c Columns) maxIndex() int {
	max := 0
	for _, col := range []int{c.Paper, c.Authors, c.Year, c.Theme, c.Status, c.Notes, c.Key, c.Hash, c.LinkURL} {
		if col > max {
			max = col
		}
	}
	return max
}

// LocateHeader scans the sheet's top-left region for the header row and
// resolves the column map. The first row containing every required header,
// case-insensitively, wins. Returns HeaderNotFoundError when no row
// qualifies.
func LocateHeader(ctx context.Context, g sheet.Grid, sheetName string) (Columns, error) {
	region, err := g.Range(ctx, sheet.Rect{Row: 1, Col: 1, Rows: headerScanRows, Cols: headerScanCols})
	if err != nil {
		return Columns{}, fmt.Errorf("failed to scan sheet %q for headers: %w", sheetName, err)
	}

	for i, line := range region {
		byName := make(map[string]int)
		for j, v := range line {
			name := strings.ToLower(strings.TrimSpace(v))
			if name == "" {
				continue
			}
			if _, taken := byName[name]; !taken {
				byName[name] = j + 1
			}
		}

		missing := false
		for _, h := range requiredHeaders {
			if byName[strings.ToLower(h)] == 0 {
				missing = true
				break
			}
		}
		if missing {
			continue
		}

		cols := Columns{
			Sheet:     sheetName,
			HeaderRow: i + 1,
			Paper:     byName[strings.ToLower(HeaderPaper)],
			Authors:   byName[strings.ToLower(HeaderAuthors)],
			Year:      byName[strings.ToLower(HeaderYear)],
			Status:    byName[strings.ToLower(HeaderStatus)],
			Theme:     byName[strings.ToLower(HeaderTheme)],
			Notes:     byName[strings.ToLower(HeaderNotes)],
		}
		cols.Key = orOffset(byName, HeaderKey, cols.Notes+1)
		cols.Hash = orOffset(byName, HeaderHash, cols.Notes+2)
		cols.LinkURL = orOffset(byName, HeaderLinkURL, cols.Notes+3)
		return cols, nil
	}

	return Columns{}, &HeaderNotFoundError{Sheet: sheetName, Scanned: headerScanRows}
}

// orOffset resolves an internal column by name, falling back to its fixed
// position after Notes.
func orOffset(byName map[string]int, header string, fallback int) int {
	if col := byName[strings.ToLower(header)]; col != 0 {
		return col
	}
	return fallback
}

// InitHeader writes the canonical header row onto an empty sheet and hides
// the three internal columns, returning the resolved column map.
func InitHeader(ctx context.Context, g sheet.Grid, sheetName string) (Columns, error) {
	r := sheet.Rect{Row: 1, Col: 1, Rows: 1, Cols: len(CanonicalHeader)}
	if err := g.SetRange(ctx, r, [][]string{CanonicalHeader}); err != nil {
		return Columns{}, fmt.Errorf("failed to write header row: %w", err)
	}
	cols, err := LocateHeader(ctx, g, sheetName)
	if err != nil {
		return Columns{}, err
	}
	for _, col := range []int{cols.Key, cols.Hash, cols.LinkURL} {
		if err := g.HideColumn(ctx, col); err != nil {
			return Columns{}, fmt.Errorf("failed to hide internal column %d: %w", col, err)
		}
	}
	return cols, nil
}
