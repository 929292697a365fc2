package syncer

import (
	"context"

	"refsheet/internal/notes"
	"refsheet/internal/rowmap"
)

// ImportNotes folds new library-native child notes into the Notes cell of
// every keyed row, blank-line separated, and refreshes the row's stored
// fingerprint. Notes already folded in are tombstoned remotely, so running
// this twice against an unchanged library appends nothing the second time.
func (s *Syncer) ImportNotes(ctx context.Context) (*Report, error) {
	rep := newReport("notes", false)

	cols, err := rowmap.LocateHeader(ctx, s.grid, s.sheet)
	if err != nil {
		return rep.done(), err
	}
	rows, err := rowmap.ReadAll(ctx, s.grid, cols)
	if err != nil {
		return rep.done(), err
	}

	for i := range rows {
		row := &rows[i]
		if row.Ref.Key == "" {
			continue
		}
		label := row.Ref.Label()

		sn, err := notes.ImportSnippets(ctx, s.notes, s.logger, row.Ref.Key, false)
		if err != nil {
			rep.issuef("%s: %v", label, err)
			continue
		}
		rep.Notes.Add(sn.Counts)
		for _, f := range sn.Failures {
			rep.issuef("%s: %s", label, f)
		}
		if len(sn.Texts) == 0 {
			continue
		}

		combined := appendSnippets(row.Ref.Notes, sn.Texts)
		if err := rowmap.WriteNotes(ctx, s.grid, cols, row.Index, combined); err != nil {
			return rep.done(), err
		}
		updated := row.Ref
		updated.Notes = combined
		if err := rowmap.WriteHash(ctx, s.grid, cols, row.Index, updated.ContentFingerprint()); err != nil {
			return rep.done(), err
		}
		s.logger.Info("appended notes", "row", row.Index, "key", row.Ref.Key, "snippets", len(sn.Texts))
		rep.Updated = append(rep.Updated, RowUpdate{Row: row.Index, Label: label})
	}
	return rep.done(), nil
}
