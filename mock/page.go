package mock

import (
	"context"

	"github.com/schedulelua/luabot"
)

var (
	_ luabot.URLSource     = (*URLSource)(nil)
	_ luabot.LinkExtractor = (*LinkExtractor)(nil)
)

// URLSource is a mock implementation of luabot.URLSource.
type URLSource struct {
	DiscoverFn func(ctx context.Context, baseURL string, opts luabot.CrawlOptions) ([]string, error)
}

func (s *URLSource) Discover(ctx context.Context, baseURL string, opts luabot.CrawlOptions) ([]string, error) {
	return s.DiscoverFn(ctx, baseURL, opts)
}

// LinkExtractor is a mock implementation of luabot.LinkExtractor.
type LinkExtractor struct {
	LinksFn func(html string) ([]string, error)
}

func (e *LinkExtractor) Links(html string) ([]string, error) {
	return e.LinksFn(html)
}
