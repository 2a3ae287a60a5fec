package dto

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var ugcPolicy = newContentPolicy()
var stripPolicy = bluemonday.StrictPolicy()

func newContentPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	// Mastodon marks up mentions, hashtags and shortened links with these
	p.AllowAttrs("class").OnElements("a", "span")
	p.AllowAttrs("target").Matching(bluemonday.SpaceSeparatedTokens).OnElements("a")
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// SanitizeHtml keeps the markup servers legitimately send in content, notes and descriptions.
func SanitizeHtml(s string) string {
	if s == "" {
		return ""
	}
	return ugcPolicy.Sanitize(s)
}

// StripHtml reduces markup to plain text with entities decoded.
func StripHtml(s string) string {
	res := stripPolicy.Sanitize(s)
	res = html.UnescapeString(res)
	return strings.TrimSpace(res)
}
