package slug

import (
	"regexp"
	"strings"
)

var (
	whitespace   = regexp.MustCompile(`\s+`)
	nonWordChars = regexp.MustCompile(`[^\w-]+`)
	hyphenRuns   = regexp.MustCompile(`--+`)
)

// Make derives a URL-safe identifier from a title. The derivation is lossy:
// characters outside [A-Za-z0-9_-] are dropped and cannot be recovered.
func Make(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = whitespace.ReplaceAllString(s, "-")
	s = strings.ReplaceAll(s, "&", "-and-")
	s = nonWordChars.ReplaceAllString(s, "")
	s = hyphenRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
