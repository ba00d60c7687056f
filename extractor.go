package luabot

// ExtractResult holds the main content found in an HTML page.
type ExtractResult struct {
	Title       string
	ContentHTML string
}

// Extractor strips navigation, sidebars and footers from an HTML page so
// only the article body reaches the Converter.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}
