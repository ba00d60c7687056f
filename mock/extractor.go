package mock

import "github.com/schedulelua/luabot"

var _ luabot.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of luabot.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*luabot.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*luabot.ExtractResult, error) {
	return e.ExtractFn(html)
}
