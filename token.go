package luabot

import "context"

// TokenCounter counts model tokens in text. Used for scrape statistics.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}
