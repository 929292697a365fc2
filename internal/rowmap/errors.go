package rowmap

import "fmt"

// HeaderNotFoundError reports that no row in the scanned region carried all
// of the required column headers. It is fatal and raised before any remote
// call or mutation.
type HeaderNotFoundError struct {
	Sheet   string
	Scanned int // rows scanned
}

func (e *HeaderNotFoundError) Error() string {
	return fmt.Sprintf("no header row with the required columns (Paper, Authors, Year, Theme, Status, Notes) in the first %d rows of sheet %q",
		e.Scanned, e.Sheet)
}
