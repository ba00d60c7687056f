package mock

import (
	"context"

	"github.com/schedulelua/luabot"
)

var (
	_ luabot.AutoResponseService = (*AutoResponseService)(nil)
	_ luabot.RuleService         = (*RuleService)(nil)
	_ luabot.QuoteService        = (*QuoteService)(nil)
)

// AutoResponseService is a mock implementation of luabot.AutoResponseService.
type AutoResponseService struct {
	ListAutoResponsesFn  func(ctx context.Context) ([]*luabot.AutoResponse, error)
	SaveAutoResponseFn   func(ctx context.Context, a *luabot.AutoResponse) error
	DeleteAutoResponseFn func(ctx context.Context, name string) error
}

func (s *AutoResponseService) ListAutoResponses(ctx context.Context) ([]*luabot.AutoResponse, error) {
	return s.ListAutoResponsesFn(ctx)
}

func (s *AutoResponseService) SaveAutoResponse(ctx context.Context, a *luabot.AutoResponse) error {
	return s.SaveAutoResponseFn(ctx, a)
}

func (s *AutoResponseService) DeleteAutoResponse(ctx context.Context, name string) error {
	return s.DeleteAutoResponseFn(ctx, name)
}

// RuleService is a mock implementation of luabot.RuleService.
type RuleService struct {
	ListRulesFn   func(ctx context.Context) ([]*luabot.Rule, error)
	SetRuleFn     func(ctx context.Context, number int, rule *luabot.Rule) error
	ReplaceRuleFn func(ctx context.Context, number int, rule *luabot.Rule) (*luabot.Rule, error)
	DeleteRuleFn  func(ctx context.Context, number int) (*luabot.Rule, error)
}

func (s *RuleService) ListRules(ctx context.Context) ([]*luabot.Rule, error) {
	return s.ListRulesFn(ctx)
}

func (s *RuleService) SetRule(ctx context.Context, number int, rule *luabot.Rule) error {
	return s.SetRuleFn(ctx, number, rule)
}

func (s *RuleService) ReplaceRule(ctx context.Context, number int, rule *luabot.Rule) (*luabot.Rule, error) {
	return s.ReplaceRuleFn(ctx, number, rule)
}

func (s *RuleService) DeleteRule(ctx context.Context, number int) (*luabot.Rule, error) {
	return s.DeleteRuleFn(ctx, number)
}

// QuoteService is a mock implementation of luabot.QuoteService.
type QuoteService struct {
	ListQuotesFn func(ctx context.Context) ([]string, error)
}

func (s *QuoteService) ListQuotes(ctx context.Context) ([]string, error) {
	return s.ListQuotesFn(ctx)
}
