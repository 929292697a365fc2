package rowmap

import (
	"context"
	"testing"

	"refsheet/internal/refs"
	"refsheet/internal/sheet"
)

// testSheet builds a grid with the canonical header plus the given data rows
// and returns the grid and its resolved columns.
func testSheet(t *testing.T, rows ...[]string) (*sheet.Memory, Columns) {
	t.Helper()
	all := [][]string{CanonicalHeader}
	all = append(all, rows...)
	g := sheet.NewMemoryFrom(all)
	cols, err := LocateHeader(context.Background(), g, "References")
	if err != nil {
		t.Fatalf("LocateHeader() failed: %v", err)
	}
	return g, cols
}

func TestReadRow(t *testing.T) {
	ctx := context.Background()
	g, cols := testSheet(t,
		[]string{"Foo Bar", "Smith, Jane", "2021", "nlp", "Read", "dense", "AB12", "deadbeef", "https://example.com/paper"},
	)
	if err := g.SetRichText(ctx, 2, cols.Paper, sheet.RichText{Text: "Foo Bar", URL: "http://example.com/paper"}); err != nil {
		t.Fatalf("SetRichText() failed: %v", err)
	}

	row, err := ReadRow(ctx, g, cols, 2)
	if err != nil {
		t.Fatalf("ReadRow() failed: %v", err)
	}

	want := refs.Reference{
		Key:     "AB12",
		Title:   "Foo Bar",
		Authors: "Smith, Jane",
		Year:    "2021",
		Themes:  "nlp",
		Status:  refs.StatusRead,
		Notes:   "dense",
		LinkURL: "https://example.com/paper", // normalized from the hyperlink
	}
	if row.Ref != want {
		t.Errorf("Ref = %+v, want %+v", row.Ref, want)
	}
	if row.Hash != "deadbeef" || row.StoredLink != "https://example.com/paper" {
		t.Errorf("Hash = %q, StoredLink = %q", row.Hash, row.StoredLink)
	}
}

func TestReadRow_RemovedLinkIsAuthoritative(t *testing.T) {
	ctx := context.Background()
	g, cols := testSheet(t,
		[]string{"Foo Bar", "", "", "", "", "", "AB12", "", "https://example.com/stale"},
	)
	// Rich text present with no URL: the user removed the hyperlink. The
	// stale stored link must not resurrect it.
	if err := g.SetRichText(ctx, 2, cols.Paper, sheet.RichText{Text: "Foo Bar"}); err != nil {
		t.Fatalf("SetRichText() failed: %v", err)
	}

	row, err := ReadRow(ctx, g, cols, 2)
	if err != nil {
		t.Fatalf("ReadRow() failed: %v", err)
	}
	if row.Ref.LinkURL != "" {
		t.Errorf("LinkURL = %q, want empty for an explicitly removed link", row.Ref.LinkURL)
	}
}

func TestReadRow_PlainCellFallsBackToStoredLink(t *testing.T) {
	g, cols := testSheet(t,
		[]string{"Foo Bar", "", "", "", "", "", "AB12", "", "example.com/paper"},
	)

	row, err := ReadRow(context.Background(), g, cols, 2)
	if err != nil {
		t.Fatalf("ReadRow() failed: %v", err)
	}
	if row.Ref.LinkURL != "https://example.com/paper" {
		t.Errorf("LinkURL = %q, want the normalized stored link", row.Ref.LinkURL)
	}
}

func TestReadAll_SkipsEmptyRows(t *testing.T) {
	g, cols := testSheet(t,
		[]string{"First", "", "", "", "", "", "K1"},
		[]string{},
		[]string{"Third", "", "", "", "", "", "K3"},
	)

	rows, err := ReadAll(context.Background(), g, cols)
	if err != nil {
		t.Fatalf("ReadAll() failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("ReadAll() returned %d rows, want 2", len(rows))
	}
	if rows[0].Index != 2 || rows[1].Index != 4 {
		t.Errorf("row indices = %d, %d; want 2, 4", rows[0].Index, rows[1].Index)
	}
	if rows[0].Ref.Key != "K1" || rows[1].Ref.Key != "K3" {
		t.Errorf("row keys = %q, %q", rows[0].Ref.Key, rows[1].Ref.Key)
	}
}

func TestWriteFields_PreservesSheetOwnedCells(t *testing.T) {
	ctx := context.Background()
	g, cols := testSheet(t,
		[]string{"Old Title", "Old Author", "1999", "old", "Priority", "my notes", "AB12"},
	)

	ref := refs.Reference{
		Key:     "AB12",
		Title:   "New Title",
		Authors: "Doe, John",
		Year:    "2024",
		Themes:  "fresh",
		LinkURL: "https://example.com/new",
	}
	if err := WriteFields(ctx, g, cols, 2, ref); err != nil {
		t.Fatalf("WriteFields() failed: %v", err)
	}

	row, err := ReadRow(ctx, g, cols, 2)
	if err != nil {
		t.Fatalf("ReadRow() failed: %v", err)
	}
	if row.Ref.Title != "New Title" || row.Ref.Authors != "Doe, John" || row.Ref.Themes != "fresh" {
		t.Errorf("library-owned fields not updated: %+v", row.Ref)
	}
	if row.Ref.Status != refs.StatusPriority || row.Ref.Notes != "my notes" {
		t.Errorf("sheet-owned fields clobbered: status=%q notes=%q", row.Ref.Status, row.Ref.Notes)
	}
	if row.Ref.LinkURL != "https://example.com/new" {
		t.Errorf("LinkURL = %q", row.Ref.LinkURL)
	}
}

func TestWriteLink_EmptyClearsHyperlink(t *testing.T) {
	ctx := context.Background()
	g, cols := testSheet(t, []string{"Foo"})
	if err := g.SetRichText(ctx, 2, cols.Paper, sheet.RichText{Text: "Foo", URL: "https://example.com"}); err != nil {
		t.Fatalf("SetRichText() failed: %v", err)
	}

	if err := WriteLink(ctx, g, cols, 2, "Foo", ""); err != nil {
		t.Fatalf("WriteLink() failed: %v", err)
	}

	if _, present, _ := g.RichText(ctx, 2, cols.Paper); present {
		t.Error("clearing the link left rich text behind")
	}
	if got, _ := g.Cell(ctx, 2, cols.Paper); got != "Foo" {
		t.Errorf("paper cell = %q, want the plain title", got)
	}
}

func TestAppendRow(t *testing.T) {
	ctx := context.Background()
	g, cols := testSheet(t, []string{"Existing", "", "", "", "", "", "K1"})

	ref := refs.Reference{
		Key:     "K2",
		Title:   "Appended",
		Authors: "Smith, Jane",
		Year:    "2023",
		Themes:  "nlp",
		LinkURL: "https://example.com/k2",
	}
	row, err := AppendRow(ctx, g, cols, ref)
	if err != nil {
		t.Fatalf("AppendRow() failed: %v", err)
	}
	if row != 3 {
		t.Errorf("AppendRow() = %d, want 3", row)
	}

	got, err := ReadRow(ctx, g, cols, row)
	if err != nil {
		t.Fatalf("ReadRow() failed: %v", err)
	}
	if got.Ref.Key != "K2" || got.Ref.LinkURL != "https://example.com/k2" {
		t.Errorf("appended row = %+v", got.Ref)
	}
	if got.Hash != "" {
		t.Errorf("appended row has hash %q, want empty until the caller stores it", got.Hash)
	}
	rt, present, _ := g.RichText(ctx, row, cols.Paper)
	if !present || rt.URL != "https://example.com/k2" {
		t.Errorf("paper cell not hyperlinked: (%+v, %v)", rt, present)
	}
}

func TestCheckpoint_RoundTrip(t *testing.T) {
	ctx := context.Background()
	g, cols := testSheet(t, []string{"Foo", "", "", "", "", "", "AB12"})

	cp, err := Checkpoint(ctx, g, cols, 2)
	if err != nil {
		t.Fatalf("Checkpoint() failed: %v", err)
	}
	if cp != "" {
		t.Errorf("fresh row checkpoint = %q, want empty", cp)
	}

	if err := SetCheckpoint(ctx, g, cols, 2, "cafebabe"); err != nil {
		t.Fatalf("SetCheckpoint() failed: %v", err)
	}
	cp, err = Checkpoint(ctx, g, cols, 2)
	if err != nil {
		t.Fatalf("Checkpoint() failed: %v", err)
	}
	if cp != "cafebabe" {
		t.Errorf("Checkpoint() = %q, want cafebabe", cp)
	}
}
