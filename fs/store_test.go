package fs_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/schedulelua/luabot"
	"github.com/schedulelua/luabot/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionStore(t *testing.T) {
	t.Parallel()

	t.Run("returns empty record when file is missing", func(t *testing.T) {
		t.Parallel()

		s := fs.NewVersionStore(t.TempDir())

		rec, err := s.LoadVersionRecord(context.Background())

		require.NoError(t, err)
		assert.Empty(t, rec.LastVersion)
		assert.True(t, rec.LastChecked.IsZero())
	})

	t.Run("round trips a record", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		s := fs.NewVersionStore(dir)
		ctx := context.Background()
		checked := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)

		err := s.SaveVersionRecord(ctx, &luabot.VersionRecord{LastVersion: "2.0.0", LastChecked: checked})
		require.NoError(t, err)

		rec, err := fs.NewVersionStore(dir).LoadVersionRecord(ctx)
		require.NoError(t, err)
		assert.Equal(t, "2.0.0", rec.LastVersion)
		assert.True(t, checked.Equal(rec.LastChecked))
	})

	t.Run("reads null fields", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, fs.VersionFile),
			[]byte(`{"last_version": null, "last_checked": null}`), 0644))

		rec, err := fs.NewVersionStore(dir).LoadVersionRecord(context.Background())

		require.NoError(t, err)
		assert.Empty(t, rec.LastVersion)
	})

	t.Run("reads a zone-less last checked time", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, fs.VersionFile),
			[]byte(`{"last_version": "1.9.0", "last_checked": "2025-04-05T12:34:56.789012"}`), 0644))

		rec, err := fs.NewVersionStore(dir).LoadVersionRecord(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "1.9.0", rec.LastVersion)
		assert.True(t, time.Date(2025, 4, 5, 12, 34, 56, 789012000, time.Local).Equal(rec.LastChecked))
	})

	t.Run("returns empty record and logs for corrupt file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, fs.VersionFile), []byte(`{`), 0644))
		var logs bytes.Buffer
		s := fs.NewVersionStore(dir)
		s.Logger = slog.New(slog.NewTextHandler(&logs, nil))

		rec, err := s.LoadVersionRecord(context.Background())

		require.NoError(t, err)
		assert.Empty(t, rec.LastVersion)
		assert.True(t, rec.LastChecked.IsZero())
		assert.Contains(t, logs.String(), "ignoring version record")
	})
}

func TestAutoResponseService(t *testing.T) {
	t.Parallel()

	t.Run("seeds defaults on first use", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		s := fs.NewAutoResponseService(dir)

		list, err := s.ListAutoResponses(context.Background())

		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "getting_started", list[0].Name)
		assert.Equal(t, "install", list[1].Name)
		assert.FileExists(t, filepath.Join(dir, fs.AutoResponsesFile))
	})

	t.Run("stores responses keyed by name", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		s := fs.NewAutoResponseService(dir)
		ctx := context.Background()

		err := s.SaveAutoResponse(ctx, &luabot.AutoResponse{
			Name:     "docs",
			Triggers: []string{"documentation"},
			Response: "See the docs.",
		})
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(dir, fs.AutoResponsesFile))
		require.NoError(t, err)
		var raw map[string]map[string]any
		require.NoError(t, json.Unmarshal(data, &raw))
		assert.Contains(t, raw, "docs")
		assert.Equal(t, "See the docs.", raw["docs"]["response"])
		assert.NotContains(t, raw["docs"], "Name")
	})

	t.Run("rejects invalid response", func(t *testing.T) {
		t.Parallel()

		s := fs.NewAutoResponseService(t.TempDir())

		err := s.SaveAutoResponse(context.Background(), &luabot.AutoResponse{Name: "x"})

		assert.Equal(t, luabot.EINVALID, luabot.ErrorCode(err))
	})

	t.Run("deletes response", func(t *testing.T) {
		t.Parallel()

		s := fs.NewAutoResponseService(t.TempDir())
		ctx := context.Background()

		require.NoError(t, s.DeleteAutoResponse(ctx, "install"))

		list, err := s.ListAutoResponses(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "getting_started", list[0].Name)
	})

	t.Run("returns ENOTFOUND deleting unknown response", func(t *testing.T) {
		t.Parallel()

		s := fs.NewAutoResponseService(t.TempDir())

		err := s.DeleteAutoResponse(context.Background(), "nope")

		assert.Equal(t, luabot.ENOTFOUND, luabot.ErrorCode(err))
	})
}

func TestRuleService(t *testing.T) {
	t.Parallel()

	t.Run("seeds default rules", func(t *testing.T) {
		t.Parallel()

		s := fs.NewRuleService(t.TempDir())

		rules, err := s.ListRules(context.Background())

		require.NoError(t, err)
		assert.Equal(t, luabot.DefaultRules(), rules)
	})

	t.Run("sets rule beyond the end with placeholders", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		s := fs.NewRuleService(dir)
		ctx := context.Background()

		err := s.SetRule(ctx, 7, &luabot.Rule{Title: "No Piracy", Description: "Buy the game."})
		require.NoError(t, err)

		rules, err := fs.NewRuleService(dir).ListRules(ctx)
		require.NoError(t, err)
		require.Len(t, rules, 7)
		assert.Equal(t, luabot.PlaceholderRuleTitle, rules[5].Title)
		assert.Equal(t, "No Piracy", rules[6].Title)
	})

	t.Run("replaces rule and returns previous", func(t *testing.T) {
		t.Parallel()

		s := fs.NewRuleService(t.TempDir())
		ctx := context.Background()

		prev, err := s.ReplaceRule(ctx, 1, &luabot.Rule{Title: "Be Kind", Description: "Please."})

		require.NoError(t, err)
		assert.Equal(t, "Be Respectful", prev.Title)
		rules, err := s.ListRules(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Be Kind", rules[0].Title)
	})

	t.Run("deletes rule", func(t *testing.T) {
		t.Parallel()

		s := fs.NewRuleService(t.TempDir())
		ctx := context.Background()

		removed, err := s.DeleteRule(ctx, 2)

		require.NoError(t, err)
		assert.Equal(t, "Stay On Topic", removed.Title)
		rules, err := s.ListRules(ctx)
		require.NoError(t, err)
		assert.Len(t, rules, 4)
		assert.Equal(t, "No Spamming", rules[1].Title)
	})

	t.Run("returns ENOTFOUND for out of range number", func(t *testing.T) {
		t.Parallel()

		s := fs.NewRuleService(t.TempDir())

		_, err := s.DeleteRule(context.Background(), 9)

		assert.Equal(t, luabot.ENOTFOUND, luabot.ErrorCode(err))
		assert.Equal(t, "Invalid rule number. Valid range: 1-5.", luabot.ErrorMessage(err))
	})
}

func TestQuoteService(t *testing.T) {
	t.Parallel()

	t.Run("returns ENOTFOUND when file is missing", func(t *testing.T) {
		t.Parallel()

		_, err := fs.NewQuoteService(t.TempDir()).ListQuotes(context.Background())

		assert.Equal(t, luabot.ENOTFOUND, luabot.ErrorCode(err))
	})

	t.Run("reads quotes", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, fs.QuotesFile),
			[]byte(`{"quotes": ["one", "two"]}`), 0644))

		quotes, err := fs.NewQuoteService(dir).ListQuotes(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []string{"one", "two"}, quotes)
	})
}
