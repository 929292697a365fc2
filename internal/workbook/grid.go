package workbook

import (
	"context"
	"database/sql"
	"fmt"

	"refsheet/internal/sheet"
)

// Grid implements sheet.Grid over one row of the sheets table. A cell is
// "used" when it has a value, a rich-text link, or a note; Dims and Range
// ignore anything else.
type Grid struct {
	conn    *sql.DB
	sheetID int64
	name    string
}

// Name returns the sheet's name.
func (g *Grid) Name() string {
	return g.name
}

func (g *Grid) Dims(ctx context.Context) (int, int, error) {
	var rows, cols int
	err := g.conn.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(row_idx), 0), COALESCE(MAX(col_idx), 0)
		FROM cells
		WHERE sheet_id = ? AND (value <> '' OR link IS NOT NULL OR note <> '')`,
		g.sheetID).Scan(&rows, &cols)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to measure sheet %q: %w", g.name, err)
	}
	return rows, cols, nil
}

func (g *Grid) Cell(ctx context.Context, row, col int) (string, error) {
	var value string
	err := g.conn.QueryRowContext(ctx,
		"SELECT value FROM cells WHERE sheet_id = ? AND row_idx = ? AND col_idx = ?",
		g.sheetID, row, col).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read cell (%d,%d): %w", row, col, err)
	}
	return value, nil
}

func (g *Grid) SetCell(ctx context.Context, row, col int, value string) error {
	_, err := g.conn.ExecContext(ctx, `
		INSERT INTO cells (sheet_id, row_idx, col_idx, value, link)
		VALUES (?, ?, ?, ?, NULL)
		ON CONFLICT(sheet_id, row_idx, col_idx) DO UPDATE SET
			value = excluded.value,
			link = NULL`,
		g.sheetID, row, col, value)
	if err != nil {
		return fmt.Errorf("failed to write cell (%d,%d): %w", row, col, err)
	}
	return nil
}

func (g *Grid) RichText(ctx context.Context, row, col int) (sheet.RichText, bool, error) {
	var value string
	var link sql.NullString
	err := g.conn.QueryRowContext(ctx,
		"SELECT value, link FROM cells WHERE sheet_id = ? AND row_idx = ? AND col_idx = ?",
		g.sheetID, row, col).Scan(&value, &link)
	if err == sql.ErrNoRows {
		return sheet.RichText{}, false, nil
	}
	if err != nil {
		return sheet.RichText{}, false, fmt.Errorf("failed to read cell (%d,%d): %w", row, col, err)
	}
	if !link.Valid {
		return sheet.RichText{}, false, nil
	}
	return sheet.RichText{Text: value, URL: link.String}, true, nil
}

func (g *Grid) SetRichText(ctx context.Context, row, col int, rt sheet.RichText) error {
	_, err := g.conn.ExecContext(ctx, `
		INSERT INTO cells (sheet_id, row_idx, col_idx, value, link)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(sheet_id, row_idx, col_idx) DO UPDATE SET
			value = excluded.value,
			link = excluded.link`,
		g.sheetID, row, col, rt.Text, rt.URL)
	if err != nil {
		return fmt.Errorf("failed to write cell (%d,%d): %w", row, col, err)
	}
	return nil
}

func (g *Grid) CellNote(ctx context.Context, row, col int) (string, error) {
	var note string
	err := g.conn.QueryRowContext(ctx,
		"SELECT note FROM cells WHERE sheet_id = ? AND row_idx = ? AND col_idx = ?",
		g.sheetID, row, col).Scan(&note)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read note (%d,%d): %w", row, col, err)
	}
	return note, nil
}

func (g *Grid) SetCellNote(ctx context.Context, row, col int, note string) error {
	_, err := g.conn.ExecContext(ctx, `
		INSERT INTO cells (sheet_id, row_idx, col_idx, note)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(sheet_id, row_idx, col_idx) DO UPDATE SET
			note = excluded.note`,
		g.sheetID, row, col, note)
	if err != nil {
		return fmt.Errorf("failed to write note (%d,%d): %w", row, col, err)
	}
	return nil
}

func (g *Grid) Range(ctx context.Context, r sheet.Rect) ([][]string, error) {
	out := make([][]string, r.Rows)
	for i := range out {
		out[i] = make([]string, r.Cols)
	}
	if r.Rows <= 0 || r.Cols <= 0 {
		return out, nil
	}

	rows, err := g.conn.QueryContext(ctx, `
		SELECT row_idx, col_idx, value FROM cells
		WHERE sheet_id = ?
		  AND row_idx BETWEEN ? AND ?
		  AND col_idx BETWEEN ? AND ?`,
		g.sheetID, r.Row, r.Row+r.Rows-1, r.Col, r.Col+r.Cols-1)
	if err != nil {
		return nil, fmt.Errorf("failed to read range: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var row, col int
		var value string
		if err := rows.Scan(&row, &col, &value); err != nil {
			return nil, fmt.Errorf("failed to scan cell: %w", err)
		}
		out[row-r.Row][col-r.Col] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating range: %w", err)
	}
	return out, nil
}

func (g *Grid) SetRange(ctx context.Context, r sheet.Rect, values [][]string) error {
	tx, err := g.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO cells (sheet_id, row_idx, col_idx, value, link)
		VALUES (?, ?, ?, ?, NULL)
		ON CONFLICT(sheet_id, row_idx, col_idx) DO UPDATE SET
			value = excluded.value,
			link = NULL`)
	if err != nil {
		return fmt.Errorf("failed to prepare cell write: %w", err)
	}
	defer stmt.Close()

	for i, rowValues := range values {
		if i >= r.Rows {
			break
		}
		for j, value := range rowValues {
			if j >= r.Cols {
				break
			}
			if _, err := stmt.ExecContext(ctx, g.sheetID, r.Row+i, r.Col+j, value); err != nil {
				return fmt.Errorf("failed to write cell (%d,%d): %w", r.Row+i, r.Col+j, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit range write: %w", err)
	}
	return nil
}

func (g *Grid) AppendRow(ctx context.Context, values []string) (int, error) {
	rows, _, err := g.Dims(ctx)
	if err != nil {
		return 0, err
	}
	row := rows + 1

	tx, err := g.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for j, value := range values {
		if value == "" {
			continue
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO cells (sheet_id, row_idx, col_idx, value, link)
			VALUES (?, ?, ?, ?, NULL)
			ON CONFLICT(sheet_id, row_idx, col_idx) DO UPDATE SET
				value = excluded.value,
				link = NULL`,
			g.sheetID, row, j+1, value)
		if err != nil {
			return 0, fmt.Errorf("failed to write cell (%d,%d): %w", row, j+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit appended row: %w", err)
	}
	return row, nil
}

func (g *Grid) DeleteRow(ctx context.Context, row int) error {
	tx, err := g.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM cells WHERE sheet_id = ? AND row_idx = ?",
		g.sheetID, row); err != nil {
		return fmt.Errorf("failed to delete row %d: %w", row, err)
	}

	// Shift in two passes through negative indexes so the composite primary
	// key never collides mid-update.
	if _, err := tx.ExecContext(ctx,
		"UPDATE cells SET row_idx = -(row_idx - 1) WHERE sheet_id = ? AND row_idx > ?",
		g.sheetID, row); err != nil {
		return fmt.Errorf("failed to shift rows after %d: %w", row, err)
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE cells SET row_idx = -row_idx WHERE sheet_id = ? AND row_idx < 0",
		g.sheetID); err != nil {
		return fmt.Errorf("failed to shift rows after %d: %w", row, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit row deletion: %w", err)
	}
	return nil
}

func (g *Grid) HideColumn(ctx context.Context, col int) error {
	_, err := g.conn.ExecContext(ctx,
		"INSERT OR IGNORE INTO hidden_columns (sheet_id, col_idx) VALUES (?, ?)",
		g.sheetID, col)
	if err != nil {
		return fmt.Errorf("failed to hide column %d: %w", col, err)
	}
	return nil
}

// HiddenColumns returns the hidden column indexes in ascending order.
func (g *Grid) HiddenColumns(ctx context.Context) ([]int, error) {
	rows, err := g.conn.QueryContext(ctx,
		"SELECT col_idx FROM hidden_columns WHERE sheet_id = ? ORDER BY col_idx",
		g.sheetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list hidden columns: %w", err)
	}
	defer rows.Close()

	var cols []int
	for rows.Next() {
		var col int
		if err := rows.Scan(&col); err != nil {
			return nil, fmt.Errorf("failed to scan hidden column: %w", err)
		}
		cols = append(cols, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating hidden columns: %w", err)
	}
	return cols, nil
}
