package refs

import (
	"regexp"
	"sort"
	"strings"

	"refsheet/internal/linknorm"
	"refsheet/internal/notes"
	"refsheet/internal/zotero"
)

// yearRe finds the first standalone 4-digit token in a free-form date.
var yearRe = regexp.MustCompile(`\b\d{4}\b`)

// FromItem derives the canonical reference from a raw library item.
// Sheet-owned fields (status, notes) are left empty; they belong to the row.
func FromItem(item zotero.Item, markerTag string) Reference {
	return Reference{
		Key:     item.Key,
		Version: item.Version,
		Title:   strings.TrimSpace(item.Data.Title),
		Authors: FormatCreators(item.Data.Creators),
		Year:    YearFromDate(item.Data.Date),
		Themes:  strings.Join(ThemeTags(item.Data.Tags, markerTag), ", "),
		LinkURL: linknorm.BestAvailableURL(item.Data.URL, item.Data.DOI, item.Data.Extra),
	}
}

// FormatCreators renders creators as a semicolon-joined "Last, First" list.
// Institutional creators carry a single name and are used as-is.
func FormatCreators(creators []zotero.Creator) string {
	parts := make([]string, 0, len(creators))
	for _, c := range creators {
		switch {
		case c.LastName != "" && c.FirstName != "":
			parts = append(parts, c.LastName+", "+c.FirstName)
		case c.LastName != "":
			parts = append(parts, c.LastName)
		case c.Name != "":
			parts = append(parts, c.Name)
		}
	}
	return strings.Join(parts, "; ")
}

// YearFromDate extracts the first 4-digit year from a free-form date string
// ("2021-03-01", "March 2021", "2021"). Returns "" when none is present.
func YearFromDate(date string) string {
	return yearRe.FindString(date)
}

// ThemeTags returns the sorted unique theme names of a tag set: every tag
// except the reading-list marker tag, the status tags, and the internal
// note-classification tags. Duplicates are collapsed case-insensitively,
// keeping the first spelling encountered.
func ThemeTags(tags []zotero.Tag, markerTag string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range tags {
		name := strings.TrimSpace(t.Tag)
		if name == "" {
			continue
		}
		if strings.EqualFold(name, markerTag) {
			continue
		}
		if IsStatusTag(name) {
			continue
		}
		if notes.IsInternalTag(name) {
			continue
		}
		low := strings.ToLower(name)
		if seen[low] {
			continue
		}
		seen[low] = true
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
