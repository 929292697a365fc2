package refs

import "strings"

// Status is the sheet-owned reading state of a reference. The set is closed;
// anything else found in the status cell (including the diagnostic markers
// export writes there) is outside the enum and never pushed as a tag.
type Status string

const (
	StatusNone        Status = ""
	StatusRead        Status = "Read"
	StatusSkimmed     Status = "Skimmed"
	StatusPriority    Status = "Priority"
	StatusNotStarted  Status = "Not started"
	StatusNotFinished Status = "Not finished"
)

// statuses lists every non-empty member of the enum.
var statuses = []Status{StatusRead, StatusSkimmed, StatusPriority, StatusNotStarted, StatusNotFinished}

// ParseStatus matches s against the closed enum, case-insensitively, and
// returns the canonical form. ok is false for anything outside the enum.
// An empty (or blank) string parses to StatusNone.
func ParseStatus(s string) (Status, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return StatusNone, true
	}
	for _, st := range statuses {
		if strings.EqualFold(s, string(st)) {
			return st, true
		}
	}
	return StatusNone, false
}

// IsStatusTag reports whether tag is one of the status tag values export
// pushes to the library. Used to keep status tags out of the theme list.
func IsStatusTag(tag string) bool {
	st, ok := ParseStatus(tag)
	return ok && st != StatusNone
}
