package fetch

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractLinks pulls every anchor target out of the markup, resolving
// relative references against baseURL. Links come back deduplicated in
// first-seen order; non-web schemes (mailto:, tel:, javascript:) are dropped.
func ExtractLinks(html, baseURL string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		base = nil
	}

	seen := make(map[string]bool)
	var links []string

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" {
			return
		}

		resolved := href
		if !strings.HasPrefix(href, "http://") && !strings.HasPrefix(href, "https://") {
			if base == nil {
				return
			}
			ref, err := url.Parse(href)
			if err != nil {
				return
			}
			u := base.ResolveReference(ref)
			if u.Scheme != "http" && u.Scheme != "https" {
				return
			}
			resolved = u.String()
		}

		if !seen[resolved] {
			seen[resolved] = true
			links = append(links, resolved)
		}
	})

	return links
}
