package rowmap

import (
	"context"
	"errors"
	"testing"

	"refsheet/internal/sheet"
)

func TestLocateHeader(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		want Columns
	}{
		{
			name: "canonical layout",
			rows: [][]string{
				{"Paper", "Authors", "Year", "Theme", "Status", "Notes", "Key", "Hash", "LinkUrl"},
			},
			want: Columns{
				HeaderRow: 1,
				Paper:     1, Authors: 2, Year: 3, Theme: 4, Status: 5, Notes: 6,
				Key: 7, Hash: 8, LinkURL: 9,
			},
		},
		{
			name: "header below title rows",
			rows: [][]string{
				{"My Reading List"},
				{},
				{"Paper", "Authors", "Year", "Theme", "Status", "Notes"},
			},
			want: Columns{
				HeaderRow: 3,
				Paper:     1, Authors: 2, Year: 3, Theme: 4, Status: 5, Notes: 6,
				Key: 7, Hash: 8, LinkURL: 9,
			},
		},
		{
			name: "case-insensitive and reordered",
			rows: [][]string{
				{"notes", "STATUS", "paper", "theme", "year", "Authors"},
			},
			want: Columns{
				HeaderRow: 1,
				Notes:     1, Status: 2, Paper: 3, Theme: 4, Year: 5, Authors: 6,
				Key: 2, Hash: 3, LinkURL: 4,
			},
		},
		{
			name: "internal columns resolved by name anywhere",
			rows: [][]string{
				{"Key", "Paper", "Authors", "Year", "Theme", "Status", "Notes", "", "Hash", "LinkUrl"},
			},
			want: Columns{
				HeaderRow: 1,
				Key:       1, Paper: 2, Authors: 3, Year: 4, Theme: 5, Status: 6, Notes: 7,
				Hash: 9, LinkURL: 10,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := sheet.NewMemoryFrom(tt.rows)
			got, err := LocateHeader(context.Background(), g, "References")
			if err != nil {
				t.Fatalf("LocateHeader() failed: %v", err)
			}
			tt.want.Sheet = "References"
			if got != tt.want {
				t.Errorf("LocateHeader() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLocateHeader_NotFound(t *testing.T) {
	g := sheet.NewMemoryFrom([][]string{
		{"Paper", "Authors", "Year"}, // required columns incomplete
	})

	_, err := LocateHeader(context.Background(), g, "References")
	var herr *HeaderNotFoundError
	if !errors.As(err, &herr) {
		t.Fatalf("error = %v, want HeaderNotFoundError", err)
	}
	if herr.Sheet != "References" || herr.Scanned != headerScanRows {
		t.Errorf("HeaderNotFoundError = %+v", herr)
	}
}

func TestLocateHeader_IgnoresRowsBeyondScanWindow(t *testing.T) {
	rows := make([][]string, headerScanRows+1)
	rows[headerScanRows] = []string{"Paper", "Authors", "Year", "Theme", "Status", "Notes"}
	g := sheet.NewMemoryFrom(rows)

	if _, err := LocateHeader(context.Background(), g, "References"); err == nil {
		t.Error("LocateHeader() found a header outside the scan window")
	}
}

func TestInitHeader(t *testing.T) {
	ctx := context.Background()
	g := sheet.NewMemory()

	cols, err := InitHeader(ctx, g, "References")
	if err != nil {
		t.Fatalf("InitHeader() failed: %v", err)
	}
	if cols.HeaderRow != 1 || cols.Paper != 1 || cols.LinkURL != 9 {
		t.Errorf("InitHeader() columns = %+v", cols)
	}

	hidden := g.HiddenColumns()
	if len(hidden) != 3 || hidden[0] != cols.Key || hidden[1] != cols.Hash || hidden[2] != cols.LinkURL {
		t.Errorf("hidden columns = %v, want the three internal ones", hidden)
	}
}
