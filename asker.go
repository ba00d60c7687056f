package luabot

import "context"

// Asker answers questions about ScheduleLua using the knowledge base.
type Asker interface {
	// Ask returns an answer short enough to post as a single chat message.
	// Returns EINVALID for an empty question.
	Ask(ctx context.Context, question string) (string, error)
}
