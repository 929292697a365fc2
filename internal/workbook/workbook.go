// Package workbook provides the SQLite-backed spreadsheet store.
//
// A workbook is a single database file holding named sheets of cells. Cells
// carry a plain value, an optional rich-text hyperlink, and an out-of-band
// note, which is exactly the surface the sync engine needs from a
// spreadsheet. The database runs in embedded mode with WAL so a sync pass
// can read while another process inspects the file.
package workbook

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"refsheet/internal/sheet"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// Workbook wraps the database connection and implements sheet.Book.
type Workbook struct {
	conn *sql.DB
	path string
}

// Open opens the workbook at path, creating the file and its parent
// directory as needed. The caller must Close when done.
func Open(path string) (*Workbook, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create workbook directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", fmt.Sprintf("file:%s", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping workbook: %w", err)
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(5 * time.Minute)

	w := &Workbook{conn: conn, path: path}

	if _, err := w.conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := w.conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}
	if _, err := w.conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return w, nil
}

// Close checkpoints the WAL and closes the connection.
func (w *Workbook) Close() error {
	if w.conn == nil {
		return nil
	}
	if _, err := w.conn.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to checkpoint WAL: %v\n", err)
	}
	if err := w.conn.Close(); err != nil {
		return fmt.Errorf("failed to close workbook: %w", err)
	}
	w.conn = nil
	return nil
}

// InitSchema creates the workbook schema. Idempotent.
func (w *Workbook) InitSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS sheets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		created_at TEXT NOT NULL
	);

	-- One row per cell that has ever held content. link is NULL for a plain
	-- cell and non-NULL (possibly empty) when the cell carries rich text.
	CREATE TABLE IF NOT EXISTS cells (
		sheet_id INTEGER NOT NULL,
		row_idx INTEGER NOT NULL,
		col_idx INTEGER NOT NULL,
		value TEXT NOT NULL DEFAULT '',
		link TEXT,
		note TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (sheet_id, row_idx, col_idx),
		FOREIGN KEY (sheet_id) REFERENCES sheets(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS hidden_columns (
		sheet_id INTEGER NOT NULL,
		col_idx INTEGER NOT NULL,
		PRIMARY KEY (sheet_id, col_idx),
		FOREIGN KEY (sheet_id) REFERENCES sheets(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_cells_sheet_row ON cells(sheet_id, row_idx);
	`

	if _, err := w.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize workbook schema: %w", err)
	}
	return nil
}

// Sheet returns the named sheet's grid.
func (w *Workbook) Sheet(ctx context.Context, name string) (sheet.Grid, error) {
	var id int64
	err := w.conn.QueryRowContext(ctx, "SELECT id FROM sheets WHERE name = ?", name).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no sheet named %q in %s", name, w.path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up sheet %q: %w", name, err)
	}
	return &Grid{conn: w.conn, sheetID: id, name: name}, nil
}

// InsertSheet creates a new empty sheet and returns its grid.
func (w *Workbook) InsertSheet(ctx context.Context, name string) (sheet.Grid, error) {
	res, err := w.conn.ExecContext(ctx,
		"INSERT INTO sheets (name, created_at) VALUES (?, ?)",
		name, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("failed to insert sheet %q: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to insert sheet %q: %w", name, err)
	}
	return &Grid{conn: w.conn, sheetID: id, name: name}, nil
}

// Sheets lists sheet names in creation order.
func (w *Workbook) Sheets(ctx context.Context) ([]string, error) {
	rows, err := w.conn.QueryContext(ctx, "SELECT name FROM sheets ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list sheets: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan sheet name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sheets: %w", err)
	}
	return names, nil
}
