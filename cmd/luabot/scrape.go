package main

import (
	"fmt"
	"time"

	"github.com/schedulelua/luabot"
	"github.com/schedulelua/luabot/crawl"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies, g *Globals) error {
	if c.Retry > 0 {
		deps.Scraper.RetryDelays = []time.Duration{c.Retry}
	}

	req := scrapeRequest(g, c.MaxPages, c.Prefix)
	result, err := deps.Scraper.Scrape(deps.Ctx, req, func(e crawl.ProgressEvent) {
		switch e.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Scraping %d pages from %s\n", e.Total, req.BaseURL)
		case crawl.ProgressSaved:
			fmt.Fprintf(deps.Stdout, "[%d/%d] %s -> %s\n", e.Completed, e.Total, e.URL, e.Filename)
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "[%d/%d] %s: %s\n", e.Completed, e.Total, e.URL, luabot.ErrorMessage(e.Error))
		}
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", luabot.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, result.Summary())
	if result.Unchanged > 0 || result.Skipped > 0 {
		fmt.Fprintf(deps.Stdout, "%d unchanged, %d skipped.\n", result.Unchanged, result.Skipped)
	}
	if result.Tokens > 0 {
		fmt.Fprintf(deps.Stdout, "%d bytes, %d tokens.\n", result.Bytes, result.Tokens)
	}
	return nil
}
