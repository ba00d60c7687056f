package sqlite

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/schedulelua/luabot"
)

// Compile-time interface verification.
var _ luabot.RuleService = (*RuleService)(nil)

// RuleService implements luabot.RuleService using SQLite. Each mutation
// loads the ordered list, applies the change and rewrites the table in one
// transaction.
type RuleService struct {
	db *DB
}

// NewRuleService creates a new RuleService.
func NewRuleService(db *DB) *RuleService {
	return &RuleService{db: db}
}

// ListRules returns the rules ordered by position.
func (s *RuleService) ListRules(ctx context.Context) ([]*luabot.Rule, error) {
	var rules []*luabot.Rule
	err := s.update(ctx, func(current []*luabot.Rule) ([]*luabot.Rule, error) {
		rules = current
		return nil, nil
	})
	return rules, err
}

// SetRule stores rule at number, padding any gap with placeholders.
func (s *RuleService) SetRule(ctx context.Context, number int, rule *luabot.Rule) error {
	return s.update(ctx, func(rules []*luabot.Rule) ([]*luabot.Rule, error) {
		return luabot.SetRuleAt(rules, number, rule)
	})
}

// ReplaceRule overwrites the rule at number and returns the previous one.
func (s *RuleService) ReplaceRule(ctx context.Context, number int, rule *luabot.Rule) (*luabot.Rule, error) {
	var prev *luabot.Rule
	err := s.update(ctx, func(rules []*luabot.Rule) ([]*luabot.Rule, error) {
		var err error
		prev, err = luabot.ReplaceRuleAt(rules, number, rule)
		return rules, err
	})
	if err != nil {
		return nil, err
	}
	return prev, nil
}

// DeleteRule removes the rule at number and returns it.
func (s *RuleService) DeleteRule(ctx context.Context, number int) (*luabot.Rule, error) {
	var removed *luabot.Rule
	err := s.update(ctx, func(rules []*luabot.Rule) ([]*luabot.Rule, error) {
		var err error
		rules, removed, err = luabot.RemoveRuleAt(rules, number)
		return rules, err
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

// update runs fn over the current rules. A nil result leaves the table
// untouched.
func (s *RuleService) update(ctx context.Context, fn func(rules []*luabot.Rule) ([]*luabot.Rule, error)) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = seedOnce(ctx, tx, "rules", func() error {
		return writeRules(ctx, tx, luabot.DefaultRules())
	})
	if err != nil {
		return err
	}

	rules, err := readRules(ctx, tx)
	if err != nil {
		return err
	}

	next, err := fn(rules)
	if err != nil {
		return err
	}
	if next != nil {
		if err := writeRules(ctx, tx, next); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func readRules(ctx context.Context, tx *sql.Tx) ([]*luabot.Rule, error) {
	rows, err := tx.QueryContext(ctx, "SELECT title, description FROM rules ORDER BY position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rules := []*luabot.Rule{}
	for rows.Next() {
		var r luabot.Rule
		if err := rows.Scan(&r.Title, &r.Description); err != nil {
			return nil, err
		}
		rules = append(rules, &r)
	}
	return rules, rows.Err()
}

func writeRules(ctx context.Context, tx *sql.Tx, rules []*luabot.Rule) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM rules"); err != nil {
		return err
	}
	for i, r := range rules {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO rules (id, position, title, description) VALUES (?, ?, ?, ?)
		`, uuid.New().String(), i+1, r.Title, r.Description); err != nil {
			return err
		}
	}
	return nil
}
