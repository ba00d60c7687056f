//go:build integration

package rod_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/schedulelua/luabot/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Integration_ScheduleLuaDocs(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fetcher, err := rod.NewFetcher()
	require.NoError(t, err)
	defer fetcher.Close()

	html, err := fetcher.Fetch(ctx, "https://ifbars.github.io/ScheduleLua-Docs/guide/getting-started.html")
	require.NoError(t, err)

	lower := strings.ToLower(strings.TrimSpace(html))
	assert.True(t, strings.HasPrefix(lower, "<!doctype html>") || strings.HasPrefix(lower, "<html"),
		"expected valid HTML document start")
	assert.Contains(t, html, "</body>", "expected closing body tag")

	// VitePress renders the sidebar client-side.
	assert.Contains(t, html, "ScheduleLua", "expected rendered documentation content")
	t.Logf("Fetched %d bytes", len(html))
}
