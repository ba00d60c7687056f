// Package regexp implements luabot.Converter as a fixed sequence of regular
// expression rewrites. The conversion is lossy and order-dependent: each
// rule sees the output of the rules before it.
package regexp

import (
	"html"
	"regexp"
	"strings"

	"github.com/schedulelua/luabot"
)

// Ensure Converter implements luabot.Converter at compile time.
var _ luabot.Converter = (*Converter)(nil)

var (
	titleRe = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	mainRe  = regexp.MustCompile(`(?is)<main[^>]*>(.*?)</main>`)
	bodyRe  = regexp.MustCompile(`(?is)<body[^>]*>(.*?)</body>`)

	// spaceRe also matches the no-break space that &nbsp; decodes to.
	spaceRe = regexp.MustCompile(`[\s\p{Zs}]+`)
)

// rule is one rewrite step.
type rule struct {
	re   *regexp.Regexp
	repl string
}

// rules are applied in order, before entities are decoded and whitespace
// is collapsed.
var rules = []rule{
	{regexp.MustCompile(`(?is)<h1[^>]*>(.*?)</h1>`), "\n# $1\n"},
	{regexp.MustCompile(`(?is)<h2[^>]*>(.*?)</h2>`), "\n## $1\n"},
	{regexp.MustCompile(`(?is)<h3[^>]*>(.*?)</h3>`), "\n### $1\n"},
	{regexp.MustCompile(`(?is)<a[^>]*\shref=["']([^"']*)["'][^>]*>(.*?)</a>`), "[$2]($1)"},
	{regexp.MustCompile(`(?is)<li[^>]*>(.*?)</li>`), "\n* $1"},
	{regexp.MustCompile(`(?i)<pre[^>]*>\s*<code[^>]*>(.*?)</code>\s*</pre>`), "\n```\n$1\n```\n"},
	{regexp.MustCompile(`(?s)<[^>]+>`), " "},
}

// Converter rewrites HTML into markdown with fixed rules.
type Converter struct{}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	return &Converter{}
}

// Convert extracts the <title>, selects the <main> element (or the body,
// or the whole input) and rewrites it into a single line of markdown.
func (c *Converter) Convert(input string) (*luabot.Page, error) {
	if strings.TrimSpace(input) == "" {
		return nil, luabot.Errorf(luabot.EINVALID, "empty HTML input")
	}

	var title string
	if m := titleRe.FindStringSubmatch(input); m != nil {
		title = strings.TrimSpace(html.UnescapeString(m[1]))
	}

	content := input
	if m := mainRe.FindStringSubmatch(input); m != nil {
		content = m[1]
	} else if m := bodyRe.FindStringSubmatch(input); m != nil {
		content = m[1]
	}

	for _, r := range rules {
		content = r.re.ReplaceAllString(content, r.repl)
	}
	content = html.UnescapeString(content)
	content = strings.TrimSpace(spaceRe.ReplaceAllString(content, " "))

	return &luabot.Page{Title: title, Content: content}, nil
}
