package regexp_test

import (
	"testing"

	"github.com/schedulelua/luabot"
	luaregexp "github.com/schedulelua/luabot/regexp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Converter implements luabot.Converter at compile time.
var _ luabot.Converter = (*luaregexp.Converter)(nil)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("extracts title and main content", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>Installation | ScheduleLua</title></head>
<body><nav>Sidebar link</nav><main><h1>Installation</h1><p>Drop the DLL in Mods.</p></main></body></html>`

		page, err := luaregexp.NewConverter().Convert(html)

		require.NoError(t, err)
		assert.Equal(t, "Installation | ScheduleLua", page.Title)
		assert.Equal(t, "# Installation Drop the DLL in Mods.", page.Content)
		assert.NotContains(t, page.Content, "Sidebar")
	})

	t.Run("uses body when there is no main element", func(t *testing.T) {
		t.Parallel()

		page, err := luaregexp.NewConverter().Convert(`<html><head><title>T</title></head><body><p>Body text</p></body></html>`)

		require.NoError(t, err)
		assert.Equal(t, "Body text", page.Content)
	})

	t.Run("rewrites headings links and list items", func(t *testing.T) {
		t.Parallel()

		html := `<main><h2>Events</h2><h3 id="x">OnDayStart</h3><ul><li>See <a class="l" href="/api/time.html">time</a></li></ul></main>`

		page, err := luaregexp.NewConverter().Convert(html)

		require.NoError(t, err)
		assert.Equal(t, "## Events ### OnDayStart * See [time](/api/time.html)", page.Content)
	})

	t.Run("fences single-line code blocks", func(t *testing.T) {
		t.Parallel()

		page, err := luaregexp.NewConverter().Convert(`<main><pre><code class="lua">Log("hi")</code></pre></main>`)

		require.NoError(t, err)
		assert.Equal(t, "``` Log(\"hi\") ```", page.Content)
	})

	t.Run("unescapes entities", func(t *testing.T) {
		t.Parallel()

		page, err := luaregexp.NewConverter().Convert(`<title>Q&amp;A</title><main><p>a &lt; b</p></main>`)

		require.NoError(t, err)
		assert.Equal(t, "Q&A", page.Title)
		assert.Equal(t, "a < b", page.Content)
	})

	t.Run("collapses whitespace from decoded entities", func(t *testing.T) {
		t.Parallel()

		page, err := luaregexp.NewConverter().Convert("<main><p>Install&nbsp;&nbsp;the&#32;&#32;mod&#10;now</p></main>")

		require.NoError(t, err)
		assert.Equal(t, "Install the mod now", page.Content)
	})

	t.Run("keeps escaped tags as text", func(t *testing.T) {
		t.Parallel()

		page, err := luaregexp.NewConverter().Convert(`<main><p>Use &lt;b&gt; for bold</p></main>`)

		require.NoError(t, err)
		assert.Equal(t, "Use <b> for bold", page.Content)
	})

	t.Run("returns error for empty input", func(t *testing.T) {
		t.Parallel()

		_, err := luaregexp.NewConverter().Convert("  ")

		assert.Equal(t, luabot.EINVALID, luabot.ErrorCode(err))
	})
}
