package zotero

import (
	"errors"
	"fmt"
	"net/http"
)

// RemoteConflictError reports a write rejected because the item's version
// changed remotely after it was read. The caller surfaces it per row and
// never retries automatically.
type RemoteConflictError struct {
	Key     string
	Version int64
}

func (e *RemoteConflictError) Error() string {
	return fmt.Sprintf("remote version conflict on item %s (sent version %d)", e.Key, e.Version)
}

// RemoteRequestError reports a non-2xx response other than a version
// conflict.
type RemoteRequestError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *RemoteRequestError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s returned %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s returned %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// IsNotFound reports whether err is a 404 response. Deletion propagation uses
// it to treat an already-gone item as removed.
func IsNotFound(err error) bool {
	var rerr *RemoteRequestError
	return errors.As(err, &rerr) && rerr.StatusCode == http.StatusNotFound
}
