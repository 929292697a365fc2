// Package fingerprint computes stable content digests over reference fields.
//
// Digests are the basis for all change detection in the sync engine. A row's
// stored digest is compared against the digest recomputed from its live cell
// values; any difference marks the row as carrying an un-synced local edit.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// sep joins fields before hashing. The ASCII unit separator does not occur in
// cell text or library fields, so distinct field tuples hash distinctly.
const sep = "\x1f"

// Digest returns the lowercase hex SHA-256 of the given fields, each trimmed
// of surrounding whitespace and joined with an unprintable separator.
//
// Digest is total: it never fails, and absent fields are passed as empty
// strings so the field count stays fixed per call site.
func Digest(fields ...string) string {
	trimmed := make([]string, len(fields))
	for i, f := range fields {
		trimmed[i] = strings.TrimSpace(f)
	}
	sum := sha256.Sum256([]byte(strings.Join(trimmed, sep)))
	return hex.EncodeToString(sum[:])
}
