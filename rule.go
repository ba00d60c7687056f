package luabot

import "context"

// Placeholder values for rules created to fill gaps.
const (
	PlaceholderRuleTitle       = "New Rule"
	PlaceholderRuleDescription = "No description"
)

// Rule is a numbered server rule.
type Rule struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// RuleService manages the ordered list of server rules. Rule numbers are
// 1-based.
type RuleService interface {
	// ListRules returns the rules in order.
	ListRules(ctx context.Context) ([]*Rule, error)

	// SetRule stores rule at number, filling any gap before it with
	// placeholder rules. Returns EINVALID for numbers below 1.
	SetRule(ctx context.Context, number int, rule *Rule) error

	// ReplaceRule overwrites an existing rule and returns the previous one.
	// Returns ENOTFOUND if number is out of range.
	ReplaceRule(ctx context.Context, number int, rule *Rule) (*Rule, error)

	// DeleteRule removes a rule and returns it.
	// Returns ENOTFOUND if number is out of range.
	DeleteRule(ctx context.Context, number int) (*Rule, error)
}

// SetRuleAt returns rules with rule stored at number, padding with
// placeholders as needed.
func SetRuleAt(rules []*Rule, number int, rule *Rule) ([]*Rule, error) {
	if number < 1 {
		return nil, Errorf(EINVALID, "Rule number must be 1 or greater.")
	}
	for len(rules) < number {
		rules = append(rules, &Rule{Title: PlaceholderRuleTitle, Description: PlaceholderRuleDescription})
	}
	rules[number-1] = rule
	return rules, nil
}

// ReplaceRuleAt overwrites the rule at number and returns the previous rule.
func ReplaceRuleAt(rules []*Rule, number int, rule *Rule) (*Rule, error) {
	if err := checkRuleNumber(rules, number); err != nil {
		return nil, err
	}
	prev := rules[number-1]
	rules[number-1] = rule
	return prev, nil
}

// RemoveRuleAt returns rules without the rule at number, and the removed rule.
func RemoveRuleAt(rules []*Rule, number int) ([]*Rule, *Rule, error) {
	if err := checkRuleNumber(rules, number); err != nil {
		return nil, nil, err
	}
	removed := rules[number-1]
	return append(rules[:number-1:number-1], rules[number:]...), removed, nil
}

func checkRuleNumber(rules []*Rule, number int) error {
	if number < 1 || number > len(rules) {
		return Errorf(ENOTFOUND, "Invalid rule number. Valid range: 1-%d.", len(rules))
	}
	return nil
}

// DefaultRules returns the rules a new store is seeded with.
func DefaultRules() []*Rule {
	return []*Rule{
		{Title: "Be Respectful", Description: "Treat all members with respect. No harassment, hate speech, or excessive profanity."},
		{Title: "Stay On Topic", Description: "Keep discussions related to ScheduleLua, Lua scripting, and Schedule 1 modding."},
		{Title: "No Spamming", Description: "Avoid excessive posting of the same content or message."},
		{Title: "Report Bugs Properly", Description: "Use GitHub Issues to report bugs with proper details and logs."},
		{Title: "Share Code Properly", Description: "When sharing code, use code blocks (``` ```). For longer code, use GitHub Gists or Pastebin."},
	}
}
