package sheet

// RichText is a cell's formatted value: the display text plus an optional
// hyperlink. A zero URL on a present rich-text value is meaningful (an
// explicitly removed link), which is why Grid.RichText reports presence
// separately.
type RichText struct {
	Text string
	URL  string
}
