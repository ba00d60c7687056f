package http

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/beevik/etree"
	"github.com/schedulelua/luabot"
)

// Ensure SitemapSource implements luabot.URLSource at compile time.
var _ luabot.URLSource = (*SitemapSource)(nil)

// SitemapSource discovers pages from the sitemap.xml published at the root
// of a documentation site, following one level of sitemap index.
type SitemapSource struct {
	fetcher luabot.Fetcher
	logger  *slog.Logger
}

// NewSitemapSource creates a SitemapSource that reads sitemaps with fetcher.
func NewSitemapSource(fetcher luabot.Fetcher, logger *slog.Logger) *SitemapSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &SitemapSource{fetcher: fetcher, logger: logger}
}

// Discover returns the sorted sitemap URLs that pass the same link rules
// as the crawler. A missing or malformed sitemap yields an empty list.
func (s *SitemapSource) Discover(ctx context.Context, baseURL string, opts luabot.CrawlOptions) ([]string, error) {
	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = luabot.DefaultMaxPages
	}

	sitemapURL := strings.TrimSuffix(baseURL, "/") + "/sitemap.xml"
	locs, err := s.read(ctx, sitemapURL, true)
	if err != nil {
		s.logger.Warn("sitemap unavailable", "url", sitemapURL, "err", err)
		return []string{}, nil
	}

	seen := make(map[string]struct{})
	urls := []string{}
	for _, loc := range locs {
		if len(urls) >= maxPages {
			break
		}
		u, ok := luabot.NormalizeLink(baseURL, baseURL, loc, opts.AllowedPrefixes)
		if !ok {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}

	sort.Strings(urls)
	return urls, nil
}

func (s *SitemapSource) read(ctx context.Context, sitemapURL string, followIndex bool) ([]string, error) {
	body, err := s.fetcher.Fetch(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(body); err != nil {
		return nil, luabot.WrapError(luabot.EPARSE, err, "parsing sitemap %s", sitemapURL)
	}
	root := doc.Root()
	if root == nil {
		return nil, luabot.Errorf(luabot.EPARSE, "empty sitemap %s", sitemapURL)
	}

	if root.Tag != "sitemapindex" {
		return locs(root, "url"), nil
	}

	var all []string
	for _, child := range locs(root, "sitemap") {
		if !followIndex {
			break
		}
		urls, err := s.read(ctx, child, false)
		if err != nil {
			s.logger.Warn("skipping child sitemap", "url", child, "err", err)
			continue
		}
		all = append(all, urls...)
	}
	return all, nil
}

func locs(root *etree.Element, tag string) []string {
	var out []string
	for _, el := range root.SelectElements(tag) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if u := strings.TrimSpace(loc.Text()); u != "" {
			out = append(out, u)
		}
	}
	return out
}
