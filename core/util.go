package core

import (
	"regexp"
	"strings"
)

var spaceRegex = regexp.MustCompile(`\s+`)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// CollapseSpaces replaces every run of whitespace in `s` by a single space and trims it.
func CollapseSpaces(s string) string {
	return strings.TrimSpace(spaceRegex.ReplaceAllString(s, " "))
}
