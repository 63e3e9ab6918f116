// Package htmlsanitize cleans user-supplied free text before it is stored.
// Descriptions (hackathons, ideas) may carry a safe subset of HTML; short
// labels such as team names are reduced to plain text.
package htmlsanitize

import (
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richOnce sync.Once
	rich     *bluemonday.Policy

	strict = bluemonday.StrictPolicy()
)

func richPolicy() *bluemonday.Policy {
	richOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowElements("u", "s", "sub", "sup", "mark")
		p.AllowAttrs("class").OnElements("table", "thead", "tbody", "tr", "th", "td")
		p.AllowAttrs("colspan", "rowspan").Matching(regexp.MustCompile(`^[0-9]+$`)).OnElements("th", "td")
		p.AllowStyles("width", "text-align").OnElements("table", "th", "td")
		rich = p
	})
	return rich
}

// Sanitize returns s with every element and attribute outside the rich-text
// allowlist removed.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(richPolicy().Sanitize(s))
}

// StripTags removes all markup and returns trimmed plain text. Entities the
// policy escapes are decoded again, so "Ada's Team" comes back unchanged;
// escaping is the job of whatever renders the value.
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
