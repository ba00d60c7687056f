// Package crawl discovers documentation pages by following links and
// scrapes them into the knowledge base.
package crawl

import (
	"context"
	"log/slog"
	"sort"

	"github.com/schedulelua/luabot"
	"github.com/schedulelua/luabot/bloom"
)

var _ luabot.URLSource = (*Crawler)(nil)

// Crawler explores a single documentation site one page at a time.
type Crawler struct {
	Fetcher luabot.Fetcher
	Links   luabot.LinkExtractor
	Logger  *slog.Logger
}

// state is the bookkeeping of one Discover call.
// found is always a subset of visited plus frontier.
type state struct {
	visited  *bloom.URLSet
	frontier map[string]struct{}
	found    map[string]struct{}
}

func newState(maxPages int) *state {
	return &state{
		visited:  bloom.NewURLSet(uint(maxPages) * 2),
		frontier: make(map[string]struct{}),
		found:    make(map[string]struct{}),
	}
}

// pop removes an arbitrary URL from the frontier.
func (s *state) pop() string {
	for u := range s.frontier {
		delete(s.frontier, u)
		return u
	}
	return ""
}

func (s *state) discover(u string) {
	s.frontier[u] = struct{}{}
	s.found[u] = struct{}{}
}

func (s *state) sorted() []string {
	urls := make([]string, 0, len(s.found))
	for u := range s.found {
		urls = append(urls, u)
	}
	sort.Strings(urls)
	return urls
}

// Discover follows links from baseURL and returns the sorted URLs found
// under it. The seed itself is only reported when another page links back
// to it. An unreachable seed yields an empty list; failures on other pages
// are logged and skipped.
func (c *Crawler) Discover(ctx context.Context, baseURL string, opts luabot.CrawlOptions) ([]string, error) {
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = luabot.DefaultMaxPages
	}

	s := newState(maxPages)
	s.frontier[baseURL] = struct{}{}

	for len(s.frontier) > 0 && len(s.found) < maxPages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pageURL := s.pop()
		if !s.visited.Add(pageURL) {
			continue
		}

		html, err := c.Fetcher.Fetch(ctx, pageURL)
		if err != nil {
			if pageURL == baseURL {
				logger.Error("base URL unreachable", "url", baseURL, "err", err)
				return []string{}, nil
			}
			logger.Warn("skipping page", "url", pageURL, "err", err)
			continue
		}

		hrefs, err := c.Links.Links(html)
		if err != nil {
			logger.Warn("skipping page links", "url", pageURL, "err", err)
			continue
		}

		for _, href := range hrefs {
			if len(s.found) >= maxPages {
				break
			}
			u, ok := luabot.NormalizeLink(baseURL, pageURL, href, opts.AllowedPrefixes)
			if !ok || s.visited.Contains(u) {
				continue
			}
			s.discover(u)
		}
		logger.Debug("crawled page", "url", pageURL, "links", len(hrefs), "found", len(s.found))
	}

	return s.sorted(), nil
}
