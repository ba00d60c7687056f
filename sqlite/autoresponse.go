package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/schedulelua/luabot"
)

// Compile-time interface verification.
var _ luabot.AutoResponseService = (*AutoResponseService)(nil)

// AutoResponseService implements luabot.AutoResponseService using SQLite.
// Triggers are stored as a JSON array. The table is seeded with
// luabot.DefaultAutoResponses on first use.
type AutoResponseService struct {
	db *DB
}

// NewAutoResponseService creates a new AutoResponseService.
func NewAutoResponseService(db *DB) *AutoResponseService {
	return &AutoResponseService{db: db}
}

// ListAutoResponses returns all auto-responses ordered by name.
func (s *AutoResponseService) ListAutoResponses(ctx context.Context) ([]*luabot.AutoResponse, error) {
	if err := s.seed(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, triggers, response, embed FROM auto_responses ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []*luabot.AutoResponse{}
	for rows.Next() {
		var a luabot.AutoResponse
		var triggers string
		if err := rows.Scan(&a.Name, &triggers, &a.Response, &a.Embed); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(triggers), &a.Triggers); err != nil {
			return nil, fmt.Errorf("failed to parse triggers of %s: %w", a.Name, err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// SaveAutoResponse creates or replaces an auto-response.
func (s *AutoResponseService) SaveAutoResponse(ctx context.Context, a *luabot.AutoResponse) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if err := s.seed(ctx); err != nil {
		return err
	}

	triggers, err := json.Marshal(a.Triggers)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO auto_responses (name, triggers, response, embed, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			triggers = excluded.triggers,
			response = excluded.response,
			embed = excluded.embed,
			updated_at = excluded.updated_at
	`, a.Name, string(triggers), a.Response, a.Embed, time.Now().UTC().Format(time.RFC3339))
	return err
}

// DeleteAutoResponse removes an auto-response by name.
func (s *AutoResponseService) DeleteAutoResponse(ctx context.Context, name string) error {
	if err := s.seed(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM auto_responses WHERE name = ?", name)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return luabot.Errorf(luabot.ENOTFOUND, "Auto-response '%s' not found.", name)
	}

	return nil
}

func (s *AutoResponseService) seed(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = seedOnce(ctx, tx, "auto_responses", func() error {
		now := time.Now().UTC().Format(time.RFC3339)
		for _, a := range luabot.DefaultAutoResponses() {
			triggers, err := json.Marshal(a.Triggers)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT OR IGNORE INTO auto_responses (name, triggers, response, embed, updated_at) VALUES (?, ?, ?, ?, ?)
			`, a.Name, string(triggers), a.Response, a.Embed, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return tx.Commit()
}
