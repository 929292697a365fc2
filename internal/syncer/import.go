package syncer

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"refsheet/internal/notes"
	"refsheet/internal/refs"
	"refsheet/internal/rowmap"
	"refsheet/internal/snapshot"
	"refsheet/internal/zotero"
)

// ImportOptions configures one Import run.
type ImportOptions struct {
	// DryRun reports what would change without writing anything, locally or
	// remotely. Note import is skipped entirely: its marker writes cannot be
	// previewed.
	DryRun bool

	// IncludeNotes folds library-native child notes into the Notes cell of
	// newly created rows.
	IncludeNotes bool
}

// Import pulls the tagged library items into the sheet. Library-owned
// columns are overwritten, status and notes stay untouched, new items become
// new rows, rows whose item lost the marker tag are deleted, and the
// snapshot is rewritten from the incoming set.
func (s *Syncer) Import(ctx context.Context, opts ImportOptions) (*Report, error) {
	rep := newReport("import", opts.DryRun)

	cols, err := rowmap.LocateHeader(ctx, s.grid, s.sheet)
	if err != nil {
		return rep.done(), err
	}
	rows, err := rowmap.ReadAll(ctx, s.grid, cols)
	if err != nil {
		return rep.done(), err
	}

	// Rebaseline every row so the stored hash reflects live cell values
	// before any comparison against incoming data.
	for i := range rows {
		if err := s.rebaseline(ctx, cols, &rows[i], opts.DryRun); err != nil {
			return rep.done(), err
		}
	}

	items, err := s.lib.ItemsByTag(ctx, s.marker, true)
	if err != nil {
		return rep.done(), fmt.Errorf("failed to fetch library items: %w", err)
	}
	incoming := make([]refs.Reference, 0, len(items))
	for _, item := range items {
		incoming = append(incoming, refs.FromItem(item, s.marker))
	}
	s.logger.Info("fetched library items", "tag", s.marker, "count", len(incoming))

	if err := s.updateThemeOptions(items, opts.DryRun); err != nil {
		rep.issuef("failed to update theme options: %v", err)
	}

	byKey := make(map[string]*rowmap.Row, len(rows))
	for i := range rows {
		key := rows[i].Ref.Key
		if key == "" {
			continue
		}
		if prev, ok := byKey[key]; ok {
			return rep.done(), fmt.Errorf("identifier %q appears in rows %d and %d; fix the sheet before syncing", key, prev.Index, rows[i].Index)
		}
		byKey[key] = &rows[i]
	}

	seen := make(map[string]bool, len(incoming))
	for _, ref := range incoming {
		seen[ref.Key] = true
		row, ok := byKey[ref.Key]
		if !ok {
			if err := s.importNewRow(ctx, cols, ref, opts, rep); err != nil {
				return rep.done(), err
			}
			continue
		}
		if err := s.importMatchedRow(ctx, cols, row, ref, opts, rep); err != nil {
			return rep.done(), err
		}
	}

	// Stale rows go in descending order so earlier deletions cannot shift
	// the indexes of later ones.
	var stale []*rowmap.Row
	for i := range rows {
		if rows[i].Ref.Key != "" && !seen[rows[i].Ref.Key] {
			stale = append(stale, &rows[i])
		}
	}
	sort.Slice(stale, func(i, j int) bool { return stale[i].Index > stale[j].Index })
	for _, row := range stale {
		if !opts.DryRun {
			if err := s.grid.DeleteRow(ctx, row.Index); err != nil {
				return rep.done(), fmt.Errorf("failed to delete row %d: %w", row.Index, err)
			}
		}
		s.logger.Info("removed row", "row", row.Index, "key", row.Ref.Key)
		rep.Removed = append(rep.Removed, row.Ref.Label())
	}

	snap := snapshot.New()
	for _, ref := range incoming {
		snap.Add(ref)
	}
	if !opts.DryRun {
		if err := snapshot.Save(s.props, snap); err != nil {
			rep.issuef("failed to save snapshot: %v", err)
		}
	}
	return rep.done(), nil
}

// rebaseline recomputes the row's content fingerprint and effective link and
// persists them when stale.
func (s *Syncer) rebaseline(ctx context.Context, cols rowmap.Columns, row *rowmap.Row, dryRun bool) error {
	digest := row.Ref.ContentFingerprint()
	if row.Hash != digest {
		if !dryRun {
			if err := rowmap.WriteHash(ctx, s.grid, cols, row.Index, digest); err != nil {
				return err
			}
		}
		row.Hash = digest
	}
	if row.StoredLink != row.Ref.LinkURL {
		if !dryRun {
			if err := rowmap.WriteStoredLink(ctx, s.grid, cols, row.Index, row.Ref.LinkURL); err != nil {
				return err
			}
		}
		row.StoredLink = row.Ref.LinkURL
	}
	return nil
}

// updateThemeOptions appends newly seen theme tags to the persistent
// theme-options list. Append-only; nothing is ever removed here.
func (s *Syncer) updateThemeOptions(items []zotero.Item, dryRun bool) error {
	if s.themes == nil || dryRun {
		return nil
	}
	var union []string
	seen := make(map[string]bool)
	for _, item := range items {
		for _, name := range refs.ThemeTags(item.Data.Tags, s.marker) {
			lower := strings.ToLower(name)
			if seen[lower] {
				continue
			}
			seen[lower] = true
			union = append(union, name)
		}
	}
	added, err := s.themes.Append(union...)
	if err != nil {
		return err
	}
	if len(added) > 0 {
		s.logger.Info("added theme options", "themes", strings.Join(added, ","))
	}
	return nil
}

// importMatchedRow merges an incoming item into its existing row. Status and
// notes come from the sheet; the incoming fingerprint therefore differs from
// the stored hash only when a library-owned field changed.
func (s *Syncer) importMatchedRow(ctx context.Context, cols rowmap.Columns, row *rowmap.Row, ref refs.Reference, opts ImportOptions, rep *Report) error {
	merged := ref
	merged.Status = row.Ref.Status
	merged.Notes = row.Ref.Notes

	digest := merged.ContentFingerprint()
	if digest == row.Hash {
		return nil
	}
	changed := diffColumns(row.Ref, ref)

	if !opts.DryRun {
		if err := rowmap.WriteFields(ctx, s.grid, cols, row.Index, merged); err != nil {
			return err
		}
		if err := rowmap.WriteStoredLink(ctx, s.grid, cols, row.Index, merged.LinkURL); err != nil {
			return err
		}
		// The pulled core state is the new baseline; the next export must
		// not warn about edits the user never made.
		if row.Ref.CoreFingerprint() != merged.CoreFingerprint() {
			if err := rowmap.SetCheckpoint(ctx, s.grid, cols, row.Index, merged.CoreFingerprint()); err != nil {
				return err
			}
		}
		if err := rowmap.WriteHash(ctx, s.grid, cols, row.Index, digest); err != nil {
			return err
		}
	}
	s.logger.Info("updated row", "row", row.Index, "key", ref.Key, "columns", strings.Join(changed, ","))
	rep.Updated = append(rep.Updated, RowUpdate{Row: row.Index, Label: ref.Label(), Columns: changed})
	return nil
}

// importNewRow appends a row for an item the sheet has never seen. Status
// and notes start empty; when note import is on, native child notes (and the
// origin note's content, first time only) seed the Notes cell.
func (s *Syncer) importNewRow(ctx context.Context, cols rowmap.Columns, ref refs.Reference, opts ImportOptions, rep *Report) error {
	if opts.DryRun {
		rep.Added = append(rep.Added, ref.Label())
		return nil
	}

	index, err := rowmap.AppendRow(ctx, s.grid, cols, ref)
	if err != nil {
		return err
	}

	final := ref
	if opts.IncludeNotes {
		sn, err := notes.ImportSnippets(ctx, s.notes, s.logger, ref.Key, true)
		if err != nil {
			rep.issuef("%s: %v", ref.Label(), err)
		} else {
			rep.Notes.Add(sn.Counts)
			for _, f := range sn.Failures {
				rep.issuef("%s: %s", ref.Label(), f)
			}
			if len(sn.Texts) > 0 {
				final.Notes = strings.Join(sn.Texts, "\n\n")
				if err := rowmap.WriteNotes(ctx, s.grid, cols, index, final.Notes); err != nil {
					return err
				}
			}
		}
	}

	if err := rowmap.SetCheckpoint(ctx, s.grid, cols, index, final.CoreFingerprint()); err != nil {
		return err
	}
	if err := rowmap.WriteHash(ctx, s.grid, cols, index, final.ContentFingerprint()); err != nil {
		return err
	}
	s.logger.Info("added row", "row", index, "key", ref.Key)
	rep.Added = append(rep.Added, ref.Label())
	return nil
}

// diffColumns names the library-owned columns that differ between the row's
// live values and the incoming item.
func diffColumns(old, incoming refs.Reference) []string {
	var changed []string
	if old.Title != incoming.Title {
		changed = append(changed, "title")
	}
	if old.Authors != incoming.Authors {
		changed = append(changed, "authors")
	}
	if old.Year != incoming.Year {
		changed = append(changed, "year")
	}
	if old.Themes != incoming.Themes {
		changed = append(changed, "theme")
	}
	if old.LinkURL != incoming.LinkURL {
		changed = append(changed, "link")
	}
	return changed
}
