//go:build integration

package gemini_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/schedulelua/luabot"
	"github.com/schedulelua/luabot/gemini"
	"github.com/schedulelua/luabot/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestAsker_Integration_ReturnsAnswer(t *testing.T) {
	t.Parallel()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("GEMINI_API_KEY not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	require.NoError(t, err)

	ranker := &mock.Ranker{
		RankFn: func(context.Context, string, int) ([]*luabot.Document, error) {
			return []*luabot.Document{
				{
					Title:   "installation",
					Content: "ScheduleLua is installed by copying ScheduleLua.dll into the Mods folder of a MelonLoader install.",
				},
			}, nil
		},
	}

	asker := gemini.NewAsker(client, ranker, "")

	answer, err := asker.Ask(ctx, "How do I install ScheduleLua?")

	require.NoError(t, err)
	assert.NotEmpty(t, answer)
	assert.Contains(t, answer, "Mods")
}
