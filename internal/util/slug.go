package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	slugMarks     = regexp.MustCompile(`\p{Mn}`)
	slugSpaces    = regexp.MustCompile(`[\s_]+`)
	slugNonWord   = regexp.MustCompile(`[^\p{L}\p{N}.-]+`)
	slugDashRuns  = regexp.MustCompile(`-{2,}`)
	slugDotRuns   = regexp.MustCompile(`\.{2,}`)
	slugEdgeChars = "-."
)

// GenerateSlug converts free text (report names, executor names) into a
// lowercase token that is safe to use as a file name component.
// Letters outside ASCII are kept so Cyrillic names stay readable.
// Example: "Иванов И.И. / ГОСБ 1" -> "иванов-и.и.-госб-1"
func GenerateSlug(title string) string {
	slug := norm.NFKD.String(title)
	slug = slugMarks.ReplaceAllString(slug, "")
	slug = norm.NFC.String(slug)
	slug = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' {
			return ' '
		}
		return unicode.ToLower(r)
	}, slug)
	slug = strings.TrimSpace(slug)
	slug = slugSpaces.ReplaceAllString(slug, "-")
	slug = slugNonWord.ReplaceAllString(slug, "")
	slug = slugDashRuns.ReplaceAllString(slug, "-")
	slug = slugDotRuns.ReplaceAllString(slug, ".")
	return strings.Trim(slug, slugEdgeChars)
}
