package notes

import "strings"

// Class is the reconciliation state of one library note.
type Class int

const (
	// Native notes are library-authored and have not been imported yet.
	Native Class = iota
	// Imported notes were already folded into the sheet's notes column.
	Imported
	// Origin is the single note export maintains from the sheet's notes.
	Origin
)

// String returns the lowercase name of the class.
func (c Class) String() string {
	switch c {
	case Imported:
		return "imported"
	case Origin:
		return "origin"
	default:
		return "native"
	}
}

const (
	// OriginMarker inside a note body marks it as the sheet-origin note.
	OriginMarker = "<!--refsheet:origin-->"

	// ImportedMarker inside a note body marks it as already imported.
	ImportedMarker = "<!--refsheet:imported-->"

	// LegacyOriginTag is the pre-marker tag that identified the origin note.
	LegacyOriginTag = "sheet-origin"

	// LegacyImportedTag is the pre-marker tag that identified imported notes.
	LegacyImportedTag = "imported-to-sheet"

	// OriginHeader is the phrase the origin note's rendered text starts with.
	// It doubles as the oldest generation of origin evidence.
	OriginHeader = "Reading sheet notes"
)

// IsInternalTag reports whether tag is one of the legacy note-classification
// tags. These never count as themes and are stripped by Migrate.
func IsInternalTag(tag string) bool {
	return strings.EqualFold(tag, LegacyOriginTag) || strings.EqualFold(tag, LegacyImportedTag)
}

// Classify determines a note's class from its raw HTML body and tag set.
// Origin evidence (marker, legacy tag, or header phrase) wins over imported
// evidence; a note with neither is native.
func Classify(body string, tags []string) Class {
	if strings.Contains(body, OriginMarker) || hasTag(tags, LegacyOriginTag) ||
		strings.HasPrefix(RenderText(body), OriginHeader) {
		return Origin
	}
	if strings.Contains(body, ImportedMarker) || hasTag(tags, LegacyImportedTag) {
		return Imported
	}
	return Native
}

// Migrate rewrites legacy classification evidence to marker form: the class
// marker is prepended to the body if absent, and legacy internal tags are
// removed from the tag set. The note's user-visible content is untouched.
//
// Migrate is idempotent: a note already in marker form with a clean tag set
// comes back unchanged with changed=false. Native notes are never touched.
func Migrate(body string, tags []string) (newBody string, newTags []string, changed bool) {
	newBody = body
	newTags = tags

	switch Classify(body, tags) {
	case Origin:
		if !strings.Contains(body, OriginMarker) {
			newBody = OriginMarker + body
			changed = true
		}
	case Imported:
		if !strings.Contains(body, ImportedMarker) {
			newBody = ImportedMarker + body
			changed = true
		}
	default:
		return body, tags, false
	}

	if stripped, removed := stripInternalTags(tags); removed {
		newTags = stripped
		changed = true
	}
	return newBody, newTags, changed
}

func hasTag(tags []string, want string) bool {
	for _, t := range tags {
		if strings.EqualFold(strings.TrimSpace(t), want) {
			return true
		}
	}
	return false
}

// stripInternalTags returns tags without the legacy classification tags.
// The returned slice is the original when nothing was removed.
func stripInternalTags(tags []string) ([]string, bool) {
	kept := tags[:0:0]
	removed := false
	for _, t := range tags {
		if IsInternalTag(strings.TrimSpace(t)) {
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
