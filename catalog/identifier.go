package catalog

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// normalizeName is the canonical form used as the key of every entry
// store. Resolution is case-insensitive, and identifiers that differ
// only in Unicode composition (e.g. a precomposed é versus e + combining
// accent) refer to the same entry.
func normalizeName(name string) string {
	return strings.ToLower(norm.NFC.String(name))
}

// NamesEqual reports whether two identifiers resolve to the same entry.
func NamesEqual(a, b string) bool {
	return normalizeName(a) == normalizeName(b)
}

// JoinNames joins path segments into a dotted name for display. No
// quoting is applied; see ConnectIdentifiersANSI for quoted output.
func JoinNames(parts ...string) string {
	return strings.Join(parts, ".")
}

func QuoteIdentifierANSI(identifier string) string {
	return `"` + strings.ReplaceAll(identifier, `"`, `""`) + `"`
}

func ConnectIdentifiersANSI(identifiers ...string) string {
	quoted := make([]string, len(identifiers))
	for i, id := range identifiers {
		quoted[i] = QuoteIdentifierANSI(id)
	}
	return strings.Join(quoted, ".")
}
