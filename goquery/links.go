// Package goquery implements HTML inspection with github.com/PuerkitoBio/goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/schedulelua/luabot"
)

// Ensure LinkExtractor implements luabot.LinkExtractor at compile time.
var _ luabot.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor collects anchor hrefs from HTML pages.
type LinkExtractor struct{}

// NewLinkExtractor creates a new LinkExtractor.
func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{}
}

// Links returns the raw href of every anchor in document order, including
// duplicates. Resolving and filtering is left to luabot.NormalizeLink.
func (e *LinkExtractor) Links(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, luabot.WrapError(luabot.EPARSE, err, "failed to parse HTML")
	}

	var links []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		links = append(links, href)
	})
	return links, nil
}

// Title returns the trimmed text of the document's <title> element.
func Title(doc *goquery.Document) string {
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// MainHTML returns the inner HTML of the first <main> element, falling back
// to <body> and then the whole document.
func MainHTML(doc *goquery.Document) (string, error) {
	for _, sel := range []string{"main", "body"} {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			return s.Html()
		}
	}
	return doc.Html()
}
