package service

import (
	"regexp"
	"strings"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespace   = regexp.MustCompile(`\s+`)
	slugHyphens      = regexp.MustCompile(`-+`)
)

// Slugify lower-cases s and reduces it to [a-z0-9-] with single hyphens and no hyphen at either end.
// Slugify(Slugify(s)) == Slugify(s).
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = slugInvalidChars.ReplaceAllString(s, "")
	s = slugWhitespace.ReplaceAllString(s, "-")
	s = slugHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
