// Package blog holds the storage-free blog logic: slug suggestion, hydration of
// flat rows into posts with relations, search, related posts and reading time.
package blog

import (
	"regexp"
	"strings"
)

// slugWhitespace is Unicode whitespace: ASCII \s plus space separators, BOM and
// the line and paragraph separators.
const slugWhitespace = `\s\p{Zs}\x{FEFF}\x{2028}\x{2029}`

var (
	// slugStrip matches anything outside lowercase letters, digits, whitespace and hyphens.
	slugStrip = regexp.MustCompile(`[^a-z0-9` + slugWhitespace + `-]`)
	// slugSpace matches whitespace runs.
	slugSpace = regexp.MustCompile(`[` + slugWhitespace + `]+`)
	// slugEdge matches leading and trailing hyphen runs.
	slugEdge = regexp.MustCompile(`^-+|-+$`)
	// slugPattern is the accepted slug alphabet.
	slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// GenerateSlug suggests a URL slug for a title.
// "Hello, World! 2024" becomes "hello-world-2024". Uniqueness is not checked here.
func GenerateSlug(title string) string {
	s := strings.ToLower(title)
	s = slugStrip.ReplaceAllString(s, "")
	s = slugSpace.ReplaceAllString(s, "-")
	return slugEdge.ReplaceAllString(s, "")
}

// IsValidSlug reports whether s uses only lowercase letters, digits and hyphens.
func IsValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}
