package mock

import (
	"context"

	"github.com/schedulelua/luabot"
)

var _ luabot.Asker = (*Asker)(nil)

// Asker is a mock implementation of luabot.Asker.
type Asker struct {
	AskFn func(ctx context.Context, question string) (string, error)
}

func (a *Asker) Ask(ctx context.Context, question string) (string, error) {
	return a.AskFn(ctx, question)
}
