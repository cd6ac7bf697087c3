// Package normalize provides the canonical string forms used for signal
// matching: insight keys, tag slugs, and title/author lookup keys.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	// Matches runs of spaces and underscores.
	spacesAndUnderscores = regexp.MustCompile(`[ _]+`)
	// Matches any non-alphanumeric character.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	// Matches multiple hyphens.
	multipleHyphens = regexp.MustCompile(`-+`)
)

// Key normalizes a profile field value for use in an insight key.
// Lower-cases, trims, and collapses spaces and underscores to hyphens.
// "Early Revenue" -> "early-revenue", "client_acquisition" -> "client-acquisition".
func Key(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return spacesAndUnderscores.ReplaceAllString(s, "-")
}

// Theme normalizes a catalog theme tag. Lower-cases, trims, and hyphenates
// spaces, but keeps underscores so the canon sentinel tags survive intact.
// "Client Acquisition" -> "client-acquisition", "Services_Canon" -> "services_canon".
func Theme(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(s, " ", "-")
}

// Slug converts free-form text to a URL-safe slug, used when ingesting
// catalog categories.
// "Client Acquisition" -> "client-acquisition".
// "Sales/Marketing" -> "sales-marketing".
func Slug(s string) string {
	// Normalize unicode (decompose accented characters).
	s = norm.NFKD.String(s)

	// Remove non-ASCII characters.
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	s = strings.ToLower(s)

	// Replace non-alphanumeric with hyphens, collapse, trim.
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	s = multipleHyphens.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	return s
}

// TitleAuthorKey builds the case-insensitive lookup key used to match
// imported history rows to catalog books.
func TitleAuthorKey(title, author string) string {
	return strings.ToLower(strings.TrimSpace(title)) + "\x00" + strings.ToLower(strings.TrimSpace(author))
}
