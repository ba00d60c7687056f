// Package htmltomarkdown implements luabot.Converter with
// github.com/JohannesKaufmann/html-to-markdown. It keeps document structure
// (paragraphs, tables, multi-line code) that the rule-based converter
// flattens.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
	"github.com/schedulelua/luabot"
	luagoquery "github.com/schedulelua/luabot/goquery"
)

// Ensure Converter implements luabot.Converter at compile time.
var _ luabot.Converter = (*Converter)(nil)

// Converter selects the main content of a page and renders it as markdown.
type Converter struct {
	conv      *converter.Converter
	extractor luabot.Extractor
}

// NewConverter creates a new Converter. When extractor is nil the page's
// <main> element is used as the content.
func NewConverter(extractor luabot.Extractor) *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv, extractor: extractor}
}

// Convert transforms an HTML page into a titled markdown page.
func (c *Converter) Convert(html string) (*luabot.Page, error) {
	if strings.TrimSpace(html) == "" {
		return nil, luabot.Errorf(luabot.EINVALID, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, luabot.WrapError(luabot.EPARSE, err, "failed to parse HTML")
	}
	title := luagoquery.Title(doc)

	var content string
	if c.extractor != nil {
		result, err := c.extractor.Extract(html)
		if err != nil {
			return nil, err
		}
		if result.Title != "" {
			title = result.Title
		}
		content = result.ContentHTML
	} else {
		content, err = luagoquery.MainHTML(doc)
		if err != nil {
			return nil, luabot.WrapError(luabot.EPARSE, err, "failed to select content")
		}
	}

	md, err := c.conv.ConvertString(content)
	if err != nil {
		return nil, luabot.WrapError(luabot.EPARSE, err, "failed to convert HTML")
	}

	return &luabot.Page{Title: title, Content: strings.TrimSpace(md)}, nil
}
