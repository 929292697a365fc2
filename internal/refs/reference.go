// Package refs defines the canonical reference record synced between the
// library and the sheet, along with its derivation from raw library items.
//
// A Reference carries two kinds of fields. Library-owned fields (title,
// authors, year, themes, link) are overwritten from the library on import and
// pushed back on export. Sheet-owned fields (status, notes) belong to the
// sheet row: import never overwrites them, and export is the only path that
// propagates them outward.
package refs

import "refsheet/internal/fingerprint"

// Reference is the canonical synced entity.
type Reference struct {
	// Key is the opaque stable identifier assigned by the library. It is the
	// primary match key between a sheet row and a library item.
	Key string

	// Version is the library's monotonic version counter for the item,
	// captured at read time and required for optimistic-concurrency writes.
	Version int64

	Title   string
	Authors string // semicolon-joined "Last, First" entries
	Year    string // 4-digit year or ""
	Themes  string // comma-joined sorted unique tags, marker/status/internal tags excluded
	Status  Status // sheet-owned
	Notes   string // sheet-owned
	LinkURL string // normalized absolute URL or ""
}

// ContentFingerprint digests every synced field. It is the single source of
// truth for "has anything changed since the last full sync": a row whose
// stored digest differs from the digest of its live values carries an
// un-synced local edit.
func (r Reference) ContentFingerprint() string {
	return fingerprint.Digest(r.Title, r.Authors, r.Year, r.Themes, string(r.Status), r.Notes, r.LinkURL)
}

// CoreFingerprint digests only title, authors, and year. Export compares it
// against a per-row checkpoint to warn before pushing edits to the fields
// users rarely intend to change, independent of notes/status/theme edits.
func (r Reference) CoreFingerprint() string {
	return fingerprint.Digest(r.Title, r.Authors, r.Year)
}

// Label is the human-readable name used in reports and snapshots:
// "Title (Year)", falling back to the bare title and finally to the key.
func (r Reference) Label() string {
	if r.Title == "" {
		return r.Key
	}
	if r.Year == "" {
		return r.Title
	}
	return r.Title + " (" + r.Year + ")"
}
