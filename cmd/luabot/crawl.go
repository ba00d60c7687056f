package main

import (
	"fmt"

	"github.com/schedulelua/luabot"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies, g *Globals) error {
	baseURL := c.URL
	if baseURL == "" {
		baseURL = g.DocsURL
	}

	urls, err := deps.Source.Discover(deps.Ctx, baseURL, luabot.CrawlOptions{
		AllowedPrefixes: c.Prefix,
		MaxPages:        c.MaxPages,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", luabot.ErrorMessage(err))
		return err
	}

	if len(urls) == 0 {
		fmt.Fprintf(deps.Stdout, "No pages found under %s.\n", baseURL)
		return nil
	}
	for _, u := range urls {
		fmt.Fprintln(deps.Stdout, u)
	}
	return nil
}
