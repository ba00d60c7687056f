package luabot

import (
	"context"
	"net/url"
	"path"
	"strings"
)

// DefaultMaxPages caps the number of URLs a crawl discovers.
const DefaultMaxPages = 50

// MinPageLength is the shortest fetched body worth converting.
// Shorter bodies are treated as empty or error pages.
const MinPageLength = 50

// AllowedExtensions lists the file extensions a crawled link may carry.
// Links without an extension, or ending in "/", are always allowed.
var AllowedExtensions = []string{".html", ".htm", ".php", ".asp", ".aspx", ".jsp", ".md"}

// Page represents a documentation page converted to markdown.
type Page struct {
	URL     string
	Title   string
	Content string
}

// CrawlOptions restricts which links a URLSource reports.
type CrawlOptions struct {
	// AllowedPrefixes keeps only URLs whose path starts with one of the
	// prefixes. Empty means no restriction.
	AllowedPrefixes []string

	// MaxPages is the ceiling on discovered URLs. Zero means DefaultMaxPages.
	MaxPages int
}

// URLSource discovers documentation page URLs under a base URL.
type URLSource interface {
	// Discover returns the sorted list of discovered URLs. An unreachable
	// base URL yields an empty list rather than an error.
	Discover(ctx context.Context, baseURL string, opts CrawlOptions) ([]string, error)
}

// LinkExtractor returns the raw href values of every anchor in a page.
type LinkExtractor interface {
	Links(html string) ([]string, error)
}

// NormalizeLink turns an href found on pageURL into an absolute crawlable
// URL under baseURL. It reports false when the link must be dropped.
func NormalizeLink(baseURL, pageURL, href string, allowedPrefixes []string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return "", false
	}

	var abs string
	switch {
	case strings.HasPrefix(href, "http"):
		if !strings.HasPrefix(href, baseURL) {
			return "", false
		}
		abs = href
	case strings.HasPrefix(href, "/"):
		abs = resolveReference(baseURL, href)
	default:
		abs = resolveReference(pageURL, href)
	}
	if abs == "" {
		return "", false
	}

	abs, _, _ = strings.Cut(abs, "#")
	abs, _, _ = strings.Cut(abs, "?")

	u, err := url.Parse(abs)
	if err != nil {
		return "", false
	}

	if len(allowedPrefixes) > 0 && !hasAnyPrefix(u.Path, allowedPrefixes) {
		return "", false
	}

	if !strings.HasSuffix(abs, "/") && !AllowedExtension(u.Path) {
		return "", false
	}

	if !strings.HasPrefix(abs, baseURL) {
		return "", false
	}
	return abs, true
}

// AllowedExtension reports whether the final segment of p has no extension
// or one of AllowedExtensions.
func AllowedExtension(p string) bool {
	ext := strings.ToLower(path.Ext(p))
	if ext == "" {
		return true
	}
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func resolveReference(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return b.ResolveReference(r).String()
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
