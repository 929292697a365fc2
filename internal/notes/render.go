package notes

import (
	"html"
	"regexp"
	"strings"
)

var (
	// breakRe matches tags that terminate a block of text: explicit line
	// breaks plus the closing tags of block-level elements.
	breakRe = regexp.MustCompile(`(?i)<br\s*/?>|</(?:p|div|li|ul|ol|h[1-6]|blockquote|tr|table)>`)

	// bulletRe matches a list item opening tag.
	bulletRe = regexp.MustCompile(`(?i)<li[^>]*>`)

	// tagRe matches any remaining tag or comment for stripping.
	tagRe = regexp.MustCompile(`<[^>]*>`)

	// blankRunRe matches runs of three or more newlines.
	blankRunRe = regexp.MustCompile(`\n{3,}`)
)

// RenderText converts a note's HTML body to plain text suitable for a sheet
// cell: block boundaries become newlines, list items get a bullet prefix,
// every other tag (markers included) is stripped, the five standard named
// entities are decoded, and runs of blank lines are collapsed.
func RenderText(htmlBody string) string {
	s := strings.ReplaceAll(htmlBody, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = breakRe.ReplaceAllString(s, "\n")
	s = bulletRe.ReplaceAllString(s, "- ")
	s = tagRe.ReplaceAllString(s, "")
	s = decodeEntities(s)
	s = blankRunRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// decodeEntities decodes the five standard named entities (amp, lt, gt, quot,
// apos) plus the numeric apostrophe. &amp; is decoded last so escaped entity
// text stays escaped.
func decodeEntities(s string) string {
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&quot;", `"`)
	s = strings.ReplaceAll(s, "&#39;", "'")
	s = strings.ReplaceAll(s, "&apos;", "'")
	return strings.ReplaceAll(s, "&amp;", "&")
}

// OriginBody renders the sheet's notes text as the origin note's HTML body:
// the origin marker, a fixed bold header, and the escaped text with newlines
// converted to breaks.
func OriginBody(notesText string) string {
	escaped := html.EscapeString(notesText)
	escaped = strings.ReplaceAll(escaped, "\n", "<br>")
	return OriginMarker + "<p><b>" + OriginHeader + "</b></p><p>" + escaped + "</p>"
}

// StripOriginHeader removes the origin header phrase from the start of a
// rendered origin note, so folding its content into the sheet does not
// duplicate the header.
func StripOriginHeader(rendered string) string {
	return strings.TrimSpace(strings.TrimPrefix(rendered, OriginHeader))
}
