package crawl_test

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/schedulelua/luabot"
	"github.com/schedulelua/luabot/crawl"
	"github.com/schedulelua/luabot/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const docsBase = "https://docs.example.com"

// site serves pages as newline-separated hrefs so the link extractor can
// split them back out.
func site(pages map[string][]string) (*mock.Fetcher, *mock.LinkExtractor) {
	fetcher := &mock.Fetcher{
		FetchFn: func(_ context.Context, u string) (string, error) {
			links, ok := pages[u]
			if !ok {
				return "", luabot.Errorf(luabot.EFETCH, "HTTP 404 for %s", u)
			}
			return strings.Join(links, "\n"), nil
		},
	}
	links := &mock.LinkExtractor{
		LinksFn: func(html string) ([]string, error) {
			if html == "" {
				return nil, nil
			}
			return strings.Split(html, "\n"), nil
		},
	}
	return fetcher, links
}

func TestCrawler_Discover(t *testing.T) {
	t.Parallel()

	t.Run("unreachable seed returns empty list without error", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) (string, error) {
				return "", errors.New("connection refused")
			},
		}
		c := &crawl.Crawler{Fetcher: fetcher, Links: &mock.LinkExtractor{}}

		urls, err := c.Discover(context.Background(), docsBase, luabot.CrawlOptions{})

		require.NoError(t, err)
		assert.NotNil(t, urls)
		assert.Empty(t, urls)
	})

	t.Run("follows internal links and returns them sorted", func(t *testing.T) {
		t.Parallel()

		fetcher, links := site(map[string][]string{
			docsBase: {"/guide/intro.html", "https://other.example.com/x", "javascript:void(0)", ""},
			docsBase + "/guide/intro.html": {"setup.html", "#top"},
			docsBase + "/guide/setup.html": {"/api/", "/guide/intro.html"},
			docsBase + "/api/":              {},
		})
		c := &crawl.Crawler{Fetcher: fetcher, Links: links}

		urls, err := c.Discover(context.Background(), docsBase, luabot.CrawlOptions{})

		require.NoError(t, err)
		assert.Equal(t, []string{
			docsBase + "/api/",
			docsBase + "/guide/intro.html",
			docsBase + "/guide/setup.html",
		}, urls)
	})

	t.Run("seed is not reported when pages link back to it", func(t *testing.T) {
		t.Parallel()

		fetcher, links := site(map[string][]string{
			docsBase:              {"/a.html"},
			docsBase + "/a.html": {docsBase},
		})
		c := &crawl.Crawler{Fetcher: fetcher, Links: links}

		urls, err := c.Discover(context.Background(), docsBase, luabot.CrawlOptions{})

		require.NoError(t, err)
		assert.Equal(t, []string{docsBase + "/a.html"}, urls)
	})

	t.Run("discovered URLs satisfy link rules", func(t *testing.T) {
		t.Parallel()

		fetcher, links := site(map[string][]string{
			docsBase: {
				"/guide/a.html?x=1",
				"/guide/b.html#section",
				"/guide/image.png",
				"/blog/post.html",
				"/guide/dir/",
				"/guide/readme.md",
			},
		})
		c := &crawl.Crawler{Fetcher: fetcher, Links: links}

		urls, err := c.Discover(context.Background(), docsBase, luabot.CrawlOptions{
			AllowedPrefixes: []string{"/guide"},
		})

		require.NoError(t, err)
		require.NotEmpty(t, urls)
		for _, u := range urls {
			assert.True(t, strings.HasPrefix(u, docsBase), u)
			assert.NotContains(t, u, "#")
			assert.NotContains(t, u, "?")
			parsed, err := url.Parse(u)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(parsed.Path, "/guide"), u)
		}
		assert.NotContains(t, urls, docsBase+"/guide/image.png")
	})

	t.Run("stops at max pages", func(t *testing.T) {
		t.Parallel()

		var hrefs []string
		for _, c := range "abcdefghij" {
			hrefs = append(hrefs, "/"+string(c)+".html")
		}
		fetcher, links := site(map[string][]string{docsBase: hrefs})
		c := &crawl.Crawler{Fetcher: fetcher, Links: links}

		urls, err := c.Discover(context.Background(), docsBase, luabot.CrawlOptions{MaxPages: 4})

		require.NoError(t, err)
		assert.Len(t, urls, 4)
	})

	t.Run("skips pages that fail to fetch", func(t *testing.T) {
		t.Parallel()

		fetcher, links := site(map[string][]string{
			docsBase:              {"/missing.html", "/ok.html"},
			docsBase + "/ok.html": {"/deeper.html"},
			docsBase + "/deeper.html": {},
		})
		c := &crawl.Crawler{Fetcher: fetcher, Links: links}

		urls, err := c.Discover(context.Background(), docsBase, luabot.CrawlOptions{})

		require.NoError(t, err)
		assert.Equal(t, []string{
			docsBase + "/deeper.html",
			docsBase + "/missing.html",
			docsBase + "/ok.html",
		}, urls)
	})

	t.Run("returns context error when canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		fetcher, links := site(map[string][]string{docsBase: {}})
		c := &crawl.Crawler{Fetcher: fetcher, Links: links}

		_, err := c.Discover(ctx, docsBase, luabot.CrawlOptions{})

		require.ErrorIs(t, err, context.Canceled)
	})
}
