package form

import (
	"regexp"
	"strings"
)

var (
	nonSlugRun  = regexp.MustCompile(`[^a-z0-9]+`)
	slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// GenerateSlug derives a URL slug from free text: lowercase, every run of
// characters outside [a-z0-9] becomes one hyphen, and edge hyphens are trimmed.
//
//	GenerateSlug("Spring Registration Opens!") == "spring-registration-opens"
func GenerateSlug(text string) string {
	s := nonSlugRun.ReplaceAllString(strings.ToLower(text), "-")
	return strings.Trim(s, "-")
}

// ValidSlug reports whether s matches ^[a-z0-9-]+$.
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}
