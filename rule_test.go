package luabot_test

import (
	"testing"

	"github.com/schedulelua/luabot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetRuleAt(t *testing.T) {
	t.Parallel()

	t.Run("pads missing rules with placeholders", func(t *testing.T) {
		t.Parallel()

		rules, err := luabot.SetRuleAt(nil, 3, &luabot.Rule{Title: "Third", Description: "d"})

		require.NoError(t, err)
		require.Len(t, rules, 3)
		assert.Equal(t, luabot.PlaceholderRuleTitle, rules[0].Title)
		assert.Equal(t, luabot.PlaceholderRuleDescription, rules[1].Description)
		assert.Equal(t, "Third", rules[2].Title)
	})

	t.Run("rejects numbers below one", func(t *testing.T) {
		t.Parallel()

		_, err := luabot.SetRuleAt(nil, 0, &luabot.Rule{})

		assert.Equal(t, luabot.EINVALID, luabot.ErrorCode(err))
	})
}

func TestReplaceRuleAt(t *testing.T) {
	t.Parallel()

	rules := luabot.DefaultRules()
	prev, err := luabot.ReplaceRuleAt(rules, 2, &luabot.Rule{Title: "Stay Focused"})

	require.NoError(t, err)
	assert.Equal(t, "Stay On Topic", prev.Title)
	assert.Equal(t, "Stay Focused", rules[1].Title)

	_, err = luabot.ReplaceRuleAt(rules, 6, &luabot.Rule{})
	assert.Equal(t, luabot.ENOTFOUND, luabot.ErrorCode(err))
}

func TestRemoveRuleAt(t *testing.T) {
	t.Parallel()

	rules := luabot.DefaultRules()
	remaining, removed, err := luabot.RemoveRuleAt(rules, 1)

	require.NoError(t, err)
	assert.Equal(t, "Be Respectful", removed.Title)
	require.Len(t, remaining, 4)
	assert.Equal(t, "Stay On Topic", remaining[0].Title)
	assert.Equal(t, "Be Respectful", rules[0].Title)

	_, _, err = luabot.RemoveRuleAt(rules, 0)
	assert.Equal(t, luabot.ENOTFOUND, luabot.ErrorCode(err))
}
