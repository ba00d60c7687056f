// Package readability implements luabot.Extractor with go-readability.
package readability

import (
	"strings"

	"github.com/go-shiori/go-readability"
	"github.com/schedulelua/luabot"
)

// Ensure Extractor implements luabot.Extractor at compile time.
var _ luabot.Extractor = (*Extractor)(nil)

// Extractor applies Mozilla's Readability heuristics to a page.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the article title and cleaned content HTML.
func (e *Extractor) Extract(rawHTML string) (*luabot.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, luabot.Errorf(luabot.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, luabot.WrapError(luabot.EPARSE, err, "extracting article")
	}

	return &luabot.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
