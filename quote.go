package luabot

import "context"

// QuoteService returns quotes for the quote command.
type QuoteService interface {
	// ListQuotes returns every quote. An empty list is not an error.
	ListQuotes(ctx context.Context) ([]string, error)
}
