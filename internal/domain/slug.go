package domain

import (
	"regexp"
	"strings"
)

var (
	slugInvalidChars   = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespaceRuns = regexp.MustCompile(`\s+`)
	slugHyphenRuns     = regexp.MustCompile(`-+`)
)

// Slugify converts a title into a URL-safe token: lowercase, spaces to
// hyphens, non-word characters stripped, repeated hyphens collapsed.
// Slugify is idempotent: Slugify(Slugify(x)) == Slugify(x).
func Slugify(s string) string {
	slug := strings.ToLower(strings.TrimSpace(s))
	slug = slugInvalidChars.ReplaceAllString(slug, "")
	slug = slugWhitespaceRuns.ReplaceAllString(slug, "-")
	slug = slugHyphenRuns.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
