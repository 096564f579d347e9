// Package htmlsanitize strips markup from free text submitted by clients
// (grievance details) before it is stored.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// StripTags removes every HTML element (and the content of script/style
// elements) from s, returning plain text with entities decoded and
// surrounding whitespace trimmed.
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
