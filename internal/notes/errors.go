package notes

import "fmt"

// NoteSyncError reports a failed operation on one library note. It is always
// recovered at note granularity: logged, counted, and never fatal to the
// parent reference's sync.
type NoteSyncError struct {
	NoteKey string
	Op      string // "list", "migrate", "mark-imported", "update", "delete", "create"
	Err     error
}

func (e *NoteSyncError) Error() string {
	if e.NoteKey == "" {
		return fmt.Sprintf("note %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("note %s: %s failed: %v", e.NoteKey, e.Op, e.Err)
}

func (e *NoteSyncError) Unwrap() error {
	return e.Err
}
