package logic

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"ghostodon/dto"
)

// HtmlToText renders status HTML as readable plain text: paragraphs become
// blank-line separated, and Mastodon's hidden URL fragments are dropped.
func HtmlToText(htm string) string {
	if htm == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htm))
	if err != nil {
		return dto.StripHtml(htm)
	}
	doc.Find("span.invisible").Remove()
	doc.Find("span.ellipsis").Each(func(_ int, s *goquery.Selection) {
		s.SetText(s.Text() + "…")
	})
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		s.SetText(s.Text() + "\n\n")
	})
	return strings.TrimSpace(doc.Text())
}

// FilterStatuses keeps statuses whose author or text contains needle, case-insensitively.
// Boosts are matched on the boosted post.
func FilterStatuses(items []dto.Status, needle string) []dto.Status {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return items
	}
	res := make([]dto.Status, 0, len(items))
	for i := range items {
		base := items[i].Base()
		accountText := strings.ToLower(base.Account.DisplayName + " " + base.Account.Acct)
		contentText := strings.ToLower(HtmlToText(base.ContentHtml))
		if strings.Contains(accountText, needle) || strings.Contains(contentText, needle) {
			res = append(res, items[i])
		}
	}
	return res
}
