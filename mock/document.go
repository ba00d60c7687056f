package mock

import (
	"context"

	"github.com/schedulelua/luabot"
)

var (
	_ luabot.KnowledgeBase = (*KnowledgeBase)(nil)
	_ luabot.Ranker        = (*Ranker)(nil)
)

// KnowledgeBase is a mock implementation of luabot.KnowledgeBase.
type KnowledgeBase struct {
	ListDocumentsFn  func(ctx context.Context) ([]*luabot.Document, error)
	FindDocumentFn   func(ctx context.Context, filename string) (*luabot.Document, error)
	SaveDocumentFn   func(ctx context.Context, filename, content string) (*luabot.Document, error)
	RemoveDocumentFn func(ctx context.Context, filename string) error
}

func (kb *KnowledgeBase) ListDocuments(ctx context.Context) ([]*luabot.Document, error) {
	return kb.ListDocumentsFn(ctx)
}

func (kb *KnowledgeBase) FindDocument(ctx context.Context, filename string) (*luabot.Document, error) {
	return kb.FindDocumentFn(ctx, filename)
}

func (kb *KnowledgeBase) SaveDocument(ctx context.Context, filename, content string) (*luabot.Document, error) {
	return kb.SaveDocumentFn(ctx, filename, content)
}

func (kb *KnowledgeBase) RemoveDocument(ctx context.Context, filename string) error {
	return kb.RemoveDocumentFn(ctx, filename)
}

// Ranker is a mock implementation of luabot.Ranker.
type Ranker struct {
	RankFn func(ctx context.Context, query string, k int) ([]*luabot.Document, error)
}

func (r *Ranker) Rank(ctx context.Context, query string, k int) ([]*luabot.Document, error) {
	return r.RankFn(ctx, query, k)
}
