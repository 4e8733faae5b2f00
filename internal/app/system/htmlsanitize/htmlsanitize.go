// Package htmlsanitize cleans user-supplied rich text before storage and
// display. Community posts and report fields accept limited HTML; anything
// outside the allow-list is stripped.
package htmlsanitize

import (
	"html"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = buildPolicy()

func buildPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()

	// Table support beyond the UGC defaults.
	p.AllowAttrs("colspan", "rowspan").OnElements("td", "th")
	p.AllowAttrs("class").OnElements("table", "thead", "tbody", "tr", "td", "th")
	p.AllowAttrs("style").OnElements("table", "tr", "td", "th")

	// Extra inline formatting used by the post editor.
	p.AllowElements("u", "s", "sub", "sup", "mark", "hr")

	return p
}

// Sanitize strips unsafe HTML from user content, keeping the formatting
// tags the post editor produces.
func Sanitize(input string) string {
	if input == "" {
		return ""
	}
	return strings.TrimSpace(policy.Sanitize(input))
}

// IsPlainText reports whether content contains no HTML markup. Text with
// only a bare > (e.g. "5 > 3") still counts as plain.
func IsPlainText(s string) bool {
	return !strings.Contains(s, "<")
}

// PlainTextToHTML converts plain text to a paragraph with <br> line
// breaks, escaping any HTML entities.
func PlainTextToHTML(s string) string {
	if s == "" {
		return ""
	}
	escaped := html.EscapeString(s)
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
	escaped = strings.ReplaceAll(escaped, "\n", "<br>")
	return "<p>" + escaped + "</p>"
}

// PrepareForDisplay converts stored content to renderable HTML. Plain text
// is wrapped and escaped; HTML is sanitized. The result is safe to emit
// without further escaping.
func PrepareForDisplay(s string) template.HTML {
	if s == "" {
		return ""
	}
	if IsPlainText(s) {
		return template.HTML(PlainTextToHTML(s))
	}
	return template.HTML(Sanitize(s))
}
