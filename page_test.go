package luabot_test

import (
	"testing"

	"github.com/schedulelua/luabot"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeLink(t *testing.T) {
	t.Parallel()

	const base = "https://ifbars.github.io/ScheduleLua-Docs/"
	const page = "https://ifbars.github.io/ScheduleLua-Docs/guide/installation.html"

	tests := []struct {
		name     string
		href     string
		prefixes []string
		want     string
		ok       bool
	}{
		{name: "page-relative link", href: "getting-started.html", want: base + "guide/getting-started.html", ok: true},
		{name: "parent-relative link with query", href: "../index.html?x=1", want: base + "index.html", ok: true},
		{name: "site-relative link with fragment", href: "/ScheduleLua-Docs/api/player.html#methods", want: base + "api/player.html", ok: true},
		{name: "absolute link under base", href: base + "api/ui.md", want: base + "api/ui.md", ok: true},
		{name: "directory link", href: "/ScheduleLua-Docs/examples/", want: base + "examples/", ok: true},
		{name: "extensionless link", href: "events", want: base + "guide/events", ok: true},
		{name: "site-relative link outside base", href: "/other/page.html"},
		{name: "absolute link to another site", href: "https://github.com/ifbars/ScheduleLua"},
		{name: "javascript link", href: "javascript:void(0)"},
		{name: "empty link", href: "  "},
		{name: "mail link", href: "mailto:team@example.com"},
		{name: "disallowed extension", href: "logo.png"},
		{name: "outside allowed prefix", href: "getting-started.html", prefixes: []string{"/ScheduleLua-Docs/api/"}},
		{name: "inside allowed prefix", href: "/ScheduleLua-Docs/api/npc.html", prefixes: []string{"/ScheduleLua-Docs/api/"}, want: base + "api/npc.html", ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := luabot.NormalizeLink(base, page, tt.href, tt.prefixes)

			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAllowedExtension(t *testing.T) {
	t.Parallel()

	assert.True(t, luabot.AllowedExtension("/docs/page.HTML"))
	assert.True(t, luabot.AllowedExtension("/docs/readme.md"))
	assert.True(t, luabot.AllowedExtension("/docs/page"))
	assert.False(t, luabot.AllowedExtension("/docs/archive.zip"))
}
