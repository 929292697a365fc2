// Package syncer is the reconciliation engine. It runs the three
// user-invoked operations, each synchronous and sequential:
//
//   - Import pulls every library item carrying the marker tag, overwrites
//     the library-owned columns of matching rows, appends rows for new
//     items, deletes rows whose item lost the tag, and overwrites the
//     snapshot.
//   - Export pushes rows whose content fingerprint drifted from the stored
//     hash back to the library under version-gated writes, and propagates
//     sheet-side deletions as marker-tag removals.
//   - ImportNotes folds new library-native child notes into the Notes
//     column without touching anything else.
//
// Fatal errors (credentials, header discovery, a broken sheet store) abort
// the remainder of an operation; per-row and per-note failures are recorded
// on the Report and processing continues. Nothing here retries a version
// conflict: the row is marked and the user decides.
package syncer
