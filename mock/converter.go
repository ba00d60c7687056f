package mock

import "github.com/schedulelua/luabot"

var _ luabot.Converter = (*Converter)(nil)

// Converter is a mock implementation of luabot.Converter.
type Converter struct {
	ConvertFn func(html string) (*luabot.Page, error)
}

func (c *Converter) Convert(html string) (*luabot.Page, error) {
	return c.ConvertFn(html)
}
