package luabot

// Converter converts a fetched HTML page into a titled markdown page.
type Converter interface {
	// Convert extracts the page title and renders the page body as markdown.
	// The returned Page has no URL; callers fill it in.
	Convert(html string) (*Page, error)
}
