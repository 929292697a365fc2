// Package linknorm canonicalizes URLs and DOIs so that equivalent references
// fingerprint identically regardless of how their links were entered.
package linknorm

import (
	"regexp"
	"strings"
)

var (
	// doiRe matches a bare DOI such as 10.1234/abc.def.
	doiRe = regexp.MustCompile(`^10\.\d{4,9}/\S+$`)

	// doiTokenRe finds the first DOI-shaped token inside free text.
	doiTokenRe = regexp.MustCompile(`10\.\d{4,9}/[^\s,;]+`)

	// doiHostRe matches doi.org host variants, any scheme, optional www/dx.
	doiHostRe = regexp.MustCompile(`(?i)^https?://(?:www\.)?(?:dx\.)?doi\.org/`)

	// urlLabelRe finds a "URL:"-labeled token inside free text.
	urlLabelRe = regexp.MustCompile(`(?i)\bURL:\s*(\S+)`)
)

// NormalizeURL returns the canonical absolute form of a raw link value, or ""
// for empty input. Empty is a representable state (explicit link removal),
// never an error. NormalizeURL is idempotent over arbitrary strings: it
// iterates the rewrite to a fixpoint, so degenerate inputs whose trailing
// punctuation unwraps in stages still converge.
func NormalizeURL(raw string) string {
	out := normalizeOnce(raw)
	for {
		next := normalizeOnce(out)
		if next == out {
			return out
		}
		out = next
	}
}

func normalizeOnce(raw string) string {
	s := trimWrapping(raw)
	if s == "" {
		return ""
	}
	if doiRe.MatchString(s) {
		return "https://doi.org/" + strings.TrimSuffix(s, "/")
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	} else if len(s) >= 7 && strings.EqualFold(s[:7], "http://") {
		s = "https://" + s[7:]
	}
	if m := doiHostRe.FindString(s); m != "" {
		s = "https://doi.org/" + s[len(m):]
	}
	return strings.TrimSuffix(s, "/")
}

// ExtractDOI returns the reference's DOI. An explicit DOI field wins; failing
// that, the first DOI-shaped token in the free-text extra field is used.
// Returns "" when neither yields one.
func ExtractDOI(doiField, extraField string) string {
	if doi := cleanDOI(doiField); doi != "" {
		return doi
	}
	if tok := doiTokenRe.FindString(extraField); tok != "" {
		return cleanDOI(tok)
	}
	return ""
}

// BestAvailableURL picks the reference's effective link: the explicit URL
// field, else the DOI rewritten to its doi.org form, else a "URL:"-labeled
// token inside the extra field. Every candidate is normalized; the first
// non-empty result wins.
func BestAvailableURL(urlField, doiField, extraField string) string {
	if u := NormalizeURL(urlField); u != "" {
		return u
	}
	if doi := ExtractDOI(doiField, extraField); doi != "" {
		return NormalizeURL(doi)
	}
	if m := urlLabelRe.FindStringSubmatch(extraField); m != nil {
		return NormalizeURL(m[1])
	}
	return ""
}

// DOIFromURL splits a normalized doi.org link back into its bare DOI. ok is
// false for every other link, including "".
func DOIFromURL(url string) (doi string, ok bool) {
	const prefix = "https://doi.org/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	doi = url[len(prefix):]
	return doi, doi != ""
}

// trimWrapping strips whitespace plus the punctuation that commonly wraps a
// pasted link: angle/square/paren brackets and trailing commas, periods,
// semicolons, and colons.
func trimWrapping(s string) string {
	for {
		next := strings.TrimSpace(s)
		next = strings.TrimLeft(next, "<[(")
		next = strings.TrimRight(next, ">])")
		next = strings.TrimRight(next, ",.;:")
		if next == s {
			return next
		}
		s = next
	}
}

// cleanDOI normalizes a DOI candidate: wrapping punctuation and a trailing
// period are stripped, along with a "doi:" label or doi.org URL prefix.
func cleanDOI(s string) string {
	s = trimWrapping(s)
	if m := doiHostRe.FindString(s); m != "" {
		s = s[len(m):]
	}
	if len(s) >= 4 && strings.EqualFold(s[:4], "doi:") {
		s = strings.TrimSpace(s[4:])
	}
	return strings.TrimSuffix(s, ".")
}
