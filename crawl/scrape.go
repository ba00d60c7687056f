package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/schedulelua/luabot"
)

// ReadmeFilename is the knowledge-base name the project README is saved under.
const ReadmeFilename = "readme.md"

// DefaultPages are the guide pages scraped when discovery is switched off.
var DefaultPages = []string{
	"guide/installation.html",
	"guide/getting-started.html",
	"guide/development-status.html",
	"guide/script-structure.html",
	"guide/lifecycle-hooks.html",
	"guide/best-practices.html",
	"guide/limitations.html",
	"guide/reporting-issues.html",
	"guide/mod-system.html",
	"guide/mod-functions.html",
	"guide/mod-deployment.html",
}

// Scraper fetches documentation pages, converts them to markdown and saves
// them to the knowledge base one page at a time.
type Scraper struct {
	Source       luabot.URLSource
	Fetcher      luabot.Fetcher
	Converter    luabot.Converter
	Documents    luabot.KnowledgeBase
	RateLimiter  luabot.RateLimiter
	TokenCounter luabot.TokenCounter
	RetryDelays  []time.Duration
	Logger       *slog.Logger
}

// Request describes what a Scrape call collects.
type Request struct {
	// ReadmeURL is saved verbatim as ReadmeFilename when set.
	ReadmeURL string

	// BaseURL is the documentation site root.
	BaseURL string

	// Pages, when set, replaces discovery with these paths relative to BaseURL.
	Pages []string

	// Options restrict discovery.
	Options luabot.CrawlOptions
}

// Result holds the outcome of a scrape.
type Result struct {
	Added     int
	Unchanged int
	Skipped   int
	Errors    int
	Bytes     int
	Tokens    int
}

// Summary is the one-line report shown to users.
func (r *Result) Summary() string {
	return fmt.Sprintf("Added %d files. Encountered %d errors.", r.Added, r.Errors)
}

// ProgressEvent reports progress during a scrape.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Filename  string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressSaved
	ProgressSkipped
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting scrape progress.
type ProgressFunc func(event ProgressEvent)

// Scrape saves the README and every discovered page. Per-page failures are
// counted and logged; only a failing discovery or a canceled context
// aborts the scrape.
func (s *Scraper) Scrape(ctx context.Context, req Request, progress ProgressFunc) (*Result, error) {
	if progress == nil {
		progress = func(ProgressEvent) {}
	}
	logger := s.logger()
	r := &run{result: &Result{}, hashes: make(map[uint64]struct{})}

	if req.ReadmeURL != "" {
		if err := s.saveReadme(ctx, req.ReadmeURL, r); err != nil {
			logger.Error("scraping README", "url", req.ReadmeURL, "err", err)
			r.result.Errors++
		}
	}

	urls, err := s.urls(ctx, req)
	if err != nil {
		return r.result, err
	}

	progress(ProgressEvent{Type: ProgressStarted, Total: len(urls)})

	for i, u := range urls {
		if err := ctx.Err(); err != nil {
			return r.result, err
		}

		if s.RateLimiter != nil {
			if err := s.RateLimiter.Wait(ctx, hostOf(u)); err != nil {
				return r.result, err
			}
		}

		filename, status, err := s.scrapePage(ctx, u, r)
		event := ProgressEvent{Completed: i + 1, Total: len(urls), URL: u, Filename: filename, Error: err}
		switch {
		case err != nil:
			logger.Error("scraping page", "url", u, "err", err)
			r.result.Errors++
			event.Type = ProgressFailed
		case status == pageSkipped:
			r.result.Skipped++
			event.Type = ProgressSkipped
		case status == pageUnchanged:
			r.result.Unchanged++
			event.Type = ProgressSaved
		default:
			logger.Info("saved page", "url", u, "file", filename)
			r.result.Added++
			event.Type = ProgressSaved
		}
		progress(event)
	}

	progress(ProgressEvent{Type: ProgressFinished, Completed: len(urls), Total: len(urls)})
	return r.result, nil
}

// run is the state of one Scrape call.
type run struct {
	result *Result
	hashes map[uint64]struct{}
}

type pageStatus int

const (
	pageAdded pageStatus = iota
	pageUnchanged
	pageSkipped
)

func (s *Scraper) scrapePage(ctx context.Context, pageURL string, r *run) (string, pageStatus, error) {
	body, err := s.fetch(ctx, pageURL)
	if err != nil {
		return "", pageSkipped, err
	}
	if len(strings.TrimSpace(body)) < luabot.MinPageLength {
		return "", pageSkipped, nil
	}

	// Sites often serve one page under several URLs (dir/ and dir/index.html).
	h := xxhash.Sum64String(body)
	if _, dup := r.hashes[h]; dup {
		return "", pageSkipped, nil
	}
	r.hashes[h] = struct{}{}

	page, err := s.Converter.Convert(body)
	if err != nil {
		return "", pageSkipped, err
	}

	title := page.Title
	if title == "" {
		title = titleFromURL(pageURL)
	}
	filename := luabot.DocumentFilename(title)
	content := "# " + title + "\n\n" + page.Content

	status, err := s.save(ctx, filename, content, r)
	return filename, status, err
}

func (s *Scraper) saveReadme(ctx context.Context, readmeURL string, r *run) error {
	body, err := s.fetch(ctx, readmeURL)
	if err != nil {
		return err
	}
	status, err := s.save(ctx, ReadmeFilename, body, r)
	if err != nil {
		return err
	}
	if status == pageAdded {
		r.result.Added++
	} else {
		r.result.Unchanged++
	}
	return nil
}

// save writes content unless the stored document is already identical.
func (s *Scraper) save(ctx context.Context, filename, content string, r *run) (pageStatus, error) {
	existing, err := s.Documents.FindDocument(ctx, filename)
	if err == nil && sameContent(existing, content) {
		return pageUnchanged, nil
	} else if err != nil && luabot.ErrorCode(err) != luabot.ENOTFOUND {
		return pageSkipped, err
	}

	if _, err := s.Documents.SaveDocument(ctx, filename, content); err != nil {
		return pageSkipped, err
	}

	r.result.Bytes += len(content)
	if s.TokenCounter != nil {
		if n, err := s.TokenCounter.CountTokens(ctx, content); err == nil {
			r.result.Tokens += n
		}
	}
	return pageAdded, nil
}

// sameContent compares by hash when the store records one.
func sameContent(doc *luabot.Document, content string) bool {
	if doc.ContentHash != "" {
		return doc.ContentHash == luabot.ContentHash(content)
	}
	return doc.Content == content
}

func (s *Scraper) fetch(ctx context.Context, u string) (string, error) {
	return FetchWithRetryDelays(ctx, u, s.Fetcher.Fetch, s.logger(), s.RetryDelays)
}

func (s *Scraper) urls(ctx context.Context, req Request) ([]string, error) {
	if len(req.Pages) == 0 {
		return s.Source.Discover(ctx, req.BaseURL, req.Options)
	}
	base := strings.TrimSuffix(req.BaseURL, "/")
	urls := make([]string, 0, len(req.Pages))
	for _, p := range req.Pages {
		urls = append(urls, base+"/"+strings.TrimPrefix(p, "/"))
	}
	return urls, nil
}

func (s *Scraper) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// titleFromURL names a page after the last path segment of its URL.
func titleFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	base := path.Base(strings.TrimSuffix(u.Path, "/"))
	if base == "." || base == "/" || base == "" {
		return u.Host
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Host
}
