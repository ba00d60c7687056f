// Package trafilatura implements luabot.Extractor with go-trafilatura.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/markusmobius/go-trafilatura"
	"github.com/schedulelua/luabot"
	"golang.org/x/net/html"
)

// Ensure Extractor implements luabot.Extractor at compile time.
var _ luabot.Extractor = (*Extractor)(nil)

// Extractor finds the article body of documentation pages.
type Extractor struct {
	opts trafilatura.Options
}

// NewExtractor creates a new Extractor. Fallback extraction is enabled so
// short reference pages still yield content.
func NewExtractor() *Extractor {
	return &Extractor{opts: trafilatura.Options{EnableFallback: true}}
}

// Extract returns the page title and the main content as HTML.
func (e *Extractor) Extract(rawHTML string) (*luabot.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, luabot.Errorf(luabot.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), e.opts)
	if err != nil {
		return nil, luabot.WrapError(luabot.EPARSE, err, "extracting main content")
	}

	out := &luabot.ExtractResult{Title: result.Metadata.Title}
	if result.ContentNode != nil {
		var buf bytes.Buffer
		if err := html.Render(&buf, result.ContentNode); err != nil {
			return nil, luabot.WrapError(luabot.EPARSE, err, "rendering main content")
		}
		out.ContentHTML = buf.String()
	}
	return out, nil
}
