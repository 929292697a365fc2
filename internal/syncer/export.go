package syncer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"refsheet/internal/linknorm"
	"refsheet/internal/notes"
	"refsheet/internal/rowmap"
	"refsheet/internal/snapshot"
	"refsheet/internal/zotero"
)

// Status-cell markers for per-row push failures. They are visible to the
// user, keep the row's fingerprint dirty, and are replaced by the real
// status on the next successful edit.
const (
	statusConflict   = "conflict"
	statusPushFailed = "push failed"
)

// ExportOptions configures one Export run.
type ExportOptions struct {
	// DryRun reports what would be pushed without any remote call or sheet
	// write.
	DryRun bool

	// Yes answers the core-edit confirmation without prompting.
	Yes bool
}

// Export pushes locally edited rows to the library and propagates sheet-side
// deletions as marker-tag removals. Rows whose core fields (title, authors,
// year) changed since the last checkpoint are confirmed with the user first;
// declining aborts before anything is written.
func (s *Syncer) Export(ctx context.Context, opts ExportOptions) (*Report, error) {
	rep := newReport("export", opts.DryRun)

	cols, err := rowmap.LocateHeader(ctx, s.grid, s.sheet)
	if err != nil {
		return rep.done(), err
	}
	rows, err := rowmap.ReadAll(ctx, s.grid, cols)
	if err != nil {
		return rep.done(), err
	}

	virgin, coreChanged, err := s.scanCheckpoints(ctx, cols, rows)
	if err != nil {
		return rep.done(), err
	}
	if len(coreChanged) > 0 && !opts.Yes && !opts.DryRun {
		ok, err := s.confirmCoreEdits(coreChanged)
		if err != nil {
			return rep.done(), err
		}
		if !ok {
			s.logger.Info("export canceled at core-edit confirmation")
			rep.Canceled = true
			return rep.done(), nil
		}
	}
	if !opts.DryRun {
		for _, row := range virgin {
			if err := rowmap.SetCheckpoint(ctx, s.grid, cols, row.Index, row.Ref.CoreFingerprint()); err != nil {
				return rep.done(), err
			}
		}
	}

	for i := range rows {
		row := &rows[i]
		if row.Ref.Key == "" {
			continue
		}
		if err := s.exportRow(ctx, cols, row, opts, rep); err != nil {
			return rep.done(), err
		}
	}

	if err := s.propagateDeletions(ctx, rows, opts, rep); err != nil {
		return rep.done(), err
	}
	return rep.done(), nil
}

// scanCheckpoints splits the keyed rows into never-checkpointed rows and
// rows whose core fingerprint drifted from their checkpoint.
func (s *Syncer) scanCheckpoints(ctx context.Context, cols rowmap.Columns, rows []rowmap.Row) (virgin, coreChanged []*rowmap.Row, err error) {
	for i := range rows {
		row := &rows[i]
		if row.Ref.Key == "" {
			continue
		}
		cp, err := rowmap.Checkpoint(ctx, s.grid, cols, row.Index)
		if err != nil {
			return nil, nil, err
		}
		switch {
		case cp == "":
			virgin = append(virgin, row)
		case cp != row.Ref.CoreFingerprint():
			coreChanged = append(coreChanged, row)
		}
	}
	return virgin, coreChanged, nil
}

func (s *Syncer) confirmCoreEdits(rows []*rowmap.Row) (bool, error) {
	labels := make([]string, 0, len(rows))
	for _, row := range rows {
		labels = append(labels, fmt.Sprintf("  row %d: %s", row.Index, row.Ref.Label()))
	}
	message := fmt.Sprintf(
		"Title, author, or year edits on %d row(s) will overwrite the library copy:\n%s\nPush them?",
		len(rows), strings.Join(labels, "\n"))
	return s.dialogs.Confirm("Push core edits?", message)
}

// exportRow pushes one row when its content fingerprint drifted from the
// stored hash. Remote failures mark the status cell and never abort the run.
func (s *Syncer) exportRow(ctx context.Context, cols rowmap.Columns, row *rowmap.Row, opts ExportOptions, rep *Report) error {
	digest := row.Ref.ContentFingerprint()
	if digest == row.Hash {
		return nil
	}
	label := row.Ref.Label()
	if opts.DryRun {
		rep.Updated = append(rep.Updated, RowUpdate{Row: row.Index, Label: label})
		return nil
	}

	item, err := s.lib.Item(ctx, row.Ref.Key)
	if err != nil {
		rep.issuef("row %d (%s): fetch failed: %v", row.Index, label, err)
		return rowmap.WriteStatus(ctx, s.grid, cols, row.Index, statusPushFailed)
	}

	data := item.Data
	data.Title = row.Ref.Title
	applyLink(&data, row.Ref.LinkURL)
	data.Tags = exportTags(row.Ref.Themes, row.Ref.Status, s.marker)

	if err := s.lib.UpdateItem(ctx, row.Ref.Key, item.Version, data); err != nil {
		var conflict *zotero.RemoteConflictError
		if errors.As(err, &conflict) {
			s.logger.Warn("version conflict", "row", row.Index, "key", row.Ref.Key)
			rep.issuef("row %d (%s): remote changed concurrently", row.Index, label)
			return rowmap.WriteStatus(ctx, s.grid, cols, row.Index, statusConflict)
		}
		s.logger.Warn("push failed", "row", row.Index, "key", row.Ref.Key, "error", err)
		rep.issuef("row %d (%s): push failed: %v", row.Index, label, err)
		return rowmap.WriteStatus(ctx, s.grid, cols, row.Index, statusPushFailed)
	}

	if err := notes.UpsertOrigin(ctx, s.notes, s.logger, row.Ref.Key, row.Ref.Notes); err != nil {
		rep.issuef("%s: %v", label, err)
	}

	if err := rowmap.WriteHash(ctx, s.grid, cols, row.Index, digest); err != nil {
		return err
	}
	if err := rowmap.WriteStoredLink(ctx, s.grid, cols, row.Index, row.Ref.LinkURL); err != nil {
		return err
	}
	if err := rowmap.SetCheckpoint(ctx, s.grid, cols, row.Index, row.Ref.CoreFingerprint()); err != nil {
		return err
	}
	s.logger.Info("pushed row", "row", row.Index, "key", row.Ref.Key)
	rep.Updated = append(rep.Updated, RowUpdate{Row: row.Index, Label: label})
	return nil
}

// applyLink maps the row's effective link onto the item's url/DOI fields. A
// doi.org link lands in the DOI field with the url cleared; anything else
// lands in the url field with the DOI kept as bibliographic metadata. An
// empty link clears both, since the user explicitly removed it.
func applyLink(data *zotero.ItemData, link string) {
	switch doi, ok := linknorm.DOIFromURL(link); {
	case ok:
		data.DOI = doi
		data.URL = ""
	case link != "":
		data.URL = link
	default:
		data.URL = ""
		data.DOI = ""
	}
}

// propagateDeletions removes the marker tag from every item the snapshot
// lists but the sheet no longer contains. Failed removals keep their
// snapshot entry so the next export retries them.
func (s *Syncer) propagateDeletions(ctx context.Context, rows []rowmap.Row, opts ExportOptions, rep *Report) error {
	prior := snapshot.Load(s.props)
	if prior == nil {
		s.logger.Warn("no snapshot; skipping deletion propagation")
		s.dialogs.Alert("No snapshot from a previous run; deleted rows are not propagated this time.")
		rep.SkippedDeletionCheck = true
	}

	merged := snapshot.New()
	present := make(map[string]bool, len(rows))
	for i := range rows {
		if key := rows[i].Ref.Key; key != "" {
			present[key] = true
			merged.Add(rows[i].Ref)
		}
	}

	if prior != nil {
		for _, key := range prior.Keys() {
			if present[key] {
				continue
			}
			entry := prior.ByKey[key]
			label := entry.Label
			if label == "" {
				label = key
			}
			if opts.DryRun {
				rep.Removed = append(rep.Removed, label)
				continue
			}
			if err := s.removeMarker(ctx, key); err != nil {
				s.logger.Warn("failed to remove marker tag", "key", key, "error", err)
				rep.issuef("failed to untag %s: %v", label, err)
				merged.ByKey[key] = entry
				continue
			}
			s.logger.Info("removed marker tag", "key", key)
			rep.Removed = append(rep.Removed, label)
		}
	}

	if !opts.DryRun {
		if err := snapshot.Save(s.props, merged); err != nil {
			rep.issuef("failed to save snapshot: %v", err)
		}
	}
	return nil
}

// removeMarker strips the marker tag from one remote item under its current
// version. An already-deleted item counts as removed.
func (s *Syncer) removeMarker(ctx context.Context, key string) error {
	item, err := s.lib.Item(ctx, key)
	if zotero.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}

	kept := make([]zotero.Tag, 0, len(item.Data.Tags))
	for _, tag := range item.Data.Tags {
		if strings.EqualFold(tag.Tag, s.marker) {
			continue
		}
		kept = append(kept, tag)
	}
	if len(kept) == len(item.Data.Tags) {
		return nil
	}

	data := item.Data
	data.Tags = kept
	return s.lib.UpdateItem(ctx, key, item.Version, data)
}
