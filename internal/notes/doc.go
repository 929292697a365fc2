// Package notes reconciles library-side child notes with the sheet's notes
// column.
//
// # Classification
//
// Every note body carries at most one embedded marker, an HTML comment that
// is invisible in any rendering:
//
//	<!--refsheet:origin-->    the single note export maintains from the sheet
//	<!--refsheet:imported-->  a note whose text was already folded into the sheet
//
// A note with neither marker is native: library-authored and pending import.
// Older installations classified notes with tags ("sheet-origin",
// "imported-to-sheet") or, older still, with a recognizable header phrase at
// the start of the rendered text. Classify accepts all three generations of
// evidence; Migrate rewrites legacy evidence to marker form, non-destructively
// and exactly once.
//
// # Import and export
//
// ImportSnippets walks an item's child notes, queues the plain text of every
// native note for appending to the sheet, and marks each one imported so the
// next run appends nothing (idempotent). UpsertOrigin is the export
// counterpart: it deletes imported notes (their text lives in the sheet now),
// and creates or overwrites the single origin note with the sheet's current
// notes text.
//
// Both operations recover per note: a failed write is logged and counted, and
// processing continues with the remaining notes.
package notes
