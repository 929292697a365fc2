package notes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"refsheet/internal/zotero"
)

// NoteClient is the consumer-side interface over the library's note
// operations. *zotero.Client satisfies it; tests supply a fake.
type NoteClient interface {
	ChildNotes(ctx context.Context, parentKey string) ([]zotero.Item, error)
	UpdateNote(ctx context.Context, key string, version int64, data zotero.ItemData) error
	DeleteNote(ctx context.Context, key string, version int64) error
	CreateNote(ctx context.Context, data zotero.ItemData) error
}

// Counts tallies what one ImportSnippets pass saw.
type Counts struct {
	Appended        int // native notes queued for the sheet
	SkippedImported int // notes already folded into the sheet
	SkippedOrigin   int // origin notes (never re-imported)
	Empty           int // native notes whose rendered text was empty
	Total           int
}

// Add accumulates other into c.
func (c *Counts) Add(other Counts) {
	c.Appended += other.Appended
	c.SkippedImported += other.SkippedImported
	c.SkippedOrigin += other.SkippedOrigin
	c.Empty += other.Empty
	c.Total += other.Total
}

// Snippets is the result of one ImportSnippets pass over a reference's notes.
type Snippets struct {
	// Texts holds the rendered plain text of each newly imported note, in
	// library order. When an origin note's content is included (first-time
	// row creation), it comes first.
	Texts []string

	Counts Counts

	// Failures describes per-note errors, for the operation summary.
	Failures []string
}

// ImportSnippets walks the child notes of parentKey and returns the plain
// text of every native note, marking each one imported so reruns append
// nothing. Imported and origin notes are skipped; when includeOriginOnCreate
// is set (first-time row creation only), the origin note's content is
// additionally returned as the initial snippet, header stripped.
//
// Legacy-form notes are migrated to marker form in place before anything
// else. Every write failure is recovered per note: logged, recorded in
// Failures, and never fatal. The error return is reserved for the child
// listing itself failing.
func ImportSnippets(ctx context.Context, client NoteClient, logger *slog.Logger, parentKey string, includeOriginOnCreate bool) (*Snippets, error) {
	logger = orDiscard(logger)

	children, err := client.ChildNotes(ctx, parentKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes of %s: %w", parentKey, err)
	}

	out := &Snippets{}
	var originText string

	for _, note := range children {
		out.Counts.Total++
		body := note.Data.Note
		tags := tagNames(note.Data.Tags)
		class := Classify(body, tags)

		// One-time legacy cleanup. Tags are filtered on the original slice
		// so non-name tag fields survive the rewrite.
		if newBody, _, changed := Migrate(body, tags); changed {
			data := note.Data
			data.Note = newBody
			if kept, removed := stripInternalNoteTags(note.Data.Tags); removed {
				data.Tags = kept
			}
			if err := client.UpdateNote(ctx, note.Key, note.Version, data); err != nil {
				nerr := &NoteSyncError{NoteKey: note.Key, Op: "migrate", Err: err}
				logger.Warn("note migration failed", "note", note.Key, "parent", parentKey, "error", err)
				out.Failures = append(out.Failures, nerr.Error())
			} else {
				body = newBody
			}
		}

		switch class {
		case Origin:
			out.Counts.SkippedOrigin++
			if includeOriginOnCreate {
				if text := StripOriginHeader(RenderText(body)); text != "" {
					originText = text
				}
			}

		case Imported:
			out.Counts.SkippedImported++

		default: // Native
			text := RenderText(body)
			if text == "" {
				out.Counts.Empty++
			} else {
				out.Texts = append(out.Texts, text)
				out.Counts.Appended++
			}
			// Empty notes are marked too, so they are not rescanned every run.
			data := note.Data
			data.Note = ImportedMarker + body
			if err := client.UpdateNote(ctx, note.Key, note.Version, data); err != nil {
				nerr := &NoteSyncError{NoteKey: note.Key, Op: "mark-imported", Err: err}
				logger.Warn("failed to mark note imported", "note", note.Key, "parent", parentKey, "error", err)
				out.Failures = append(out.Failures, nerr.Error())
			}
		}
	}

	if originText != "" {
		out.Texts = append([]string{originText}, out.Texts...)
	}
	return out, nil
}

// UpsertOrigin brings the library's origin note in line with the sheet's
// notes text: every imported note is deleted (its text lives in the sheet
// now), and the single origin note is overwritten with a freshly rendered
// wrapper, or created if absent. An origin note is never deleted; with empty
// notesText an existing origin note is emptied but none is created.
//
// Each delete and the final write are independently fallible; failures are
// logged and joined into the returned error without aborting the rest.
func UpsertOrigin(ctx context.Context, client NoteClient, logger *slog.Logger, parentKey, notesText string) error {
	logger = orDiscard(logger)

	children, err := client.ChildNotes(ctx, parentKey)
	if err != nil {
		return &NoteSyncError{Op: "list", Err: err}
	}

	var errs []error
	var origin *zotero.Item
	for i := range children {
		note := &children[i]
		switch Classify(note.Data.Note, tagNames(note.Data.Tags)) {
		case Origin:
			if origin == nil {
				origin = note
			}
		case Imported:
			if err := client.DeleteNote(ctx, note.Key, note.Version); err != nil {
				nerr := &NoteSyncError{NoteKey: note.Key, Op: "delete", Err: err}
				logger.Warn("failed to delete imported note", "note", note.Key, "parent", parentKey, "error", err)
				errs = append(errs, nerr)
			}
		}
	}

	body := OriginBody(notesText)
	switch {
	case origin != nil:
		kept, removedTags := stripInternalNoteTags(origin.Data.Tags)
		if origin.Data.Note == body && !removedTags {
			break // already current
		}
		data := origin.Data
		data.Note = body
		if removedTags {
			data.Tags = kept
		}
		if err := client.UpdateNote(ctx, origin.Key, origin.Version, data); err != nil {
			nerr := &NoteSyncError{NoteKey: origin.Key, Op: "update", Err: err}
			logger.Warn("failed to update origin note", "note", origin.Key, "parent", parentKey, "error", err)
			errs = append(errs, nerr)
		}

	case notesText != "":
		data := zotero.ItemData{
			ItemType:   "note",
			ParentItem: parentKey,
			Note:       body,
			Tags:       []zotero.Tag{},
		}
		if err := client.CreateNote(ctx, data); err != nil {
			nerr := &NoteSyncError{Op: "create", Err: err}
			logger.Warn("failed to create origin note", "parent", parentKey, "error", err)
			errs = append(errs, nerr)
		}
	}

	return errors.Join(errs...)
}

func tagNames(tags []zotero.Tag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = t.Tag
	}
	return out
}

// stripInternalNoteTags filters the legacy classification tags out of a raw
// tag slice, preserving the remaining entries as-is.
func stripInternalNoteTags(tags []zotero.Tag) ([]zotero.Tag, bool) {
	kept := tags[:0:0]
	removed := false
	for _, t := range tags {
		if IsInternalTag(strings.TrimSpace(t.Tag)) {
			removed = true
			continue
		}
		kept = append(kept, t)
	}
	if !removed {
		return tags, false
	}
	return kept, true
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return logger
}
