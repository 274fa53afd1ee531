package fetch

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
)

var (
	spaceRe = regexp.MustCompile(`[ \t]+`)
	nlRe    = regexp.MustCompile(`\n{3,}`)
)

// HTMLToText converts markup into readable plaintext. Anchor targets are kept
// inline as "text (href)" so social and contact links embedded in the page
// survive the conversion — the email scanner and the disambiguator both work
// on this text, not on raw markup.
func HTMLToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", eris.Wrap(err, "htmltext: parse")
	}

	doc.Find("script, style, noscript, nav, footer").Remove()

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		text := strings.TrimSpace(s.Text())
		switch {
		case href == "" || strings.HasPrefix(href, "javascript:"):
		case text == "":
			s.SetText(href)
		default:
			s.SetText(text + " (" + href + ")")
		}
	})

	// Block-level elements become line breaks so the text keeps some shape.
	doc.Find("p, div, li, br, h1, h2, h3, h4, h5, h6, tr").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	body := doc.Find("body")
	var text string
	if body.Length() > 0 {
		text = body.Text()
	} else {
		text = doc.Text()
	}

	text = spaceRe.ReplaceAllString(text, " ")
	text = nlRe.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text), nil
}
