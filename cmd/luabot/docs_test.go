package main_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/schedulelua/luabot"
	main "github.com/schedulelua/luabot/cmd/luabot"
	"github.com/schedulelua/luabot/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocsListCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists path, size and title", func(t *testing.T) {
		t.Parallel()

		docs := &mock.KnowledgeBase{
			ListDocumentsFn: func(context.Context) ([]*luabot.Document, error) {
				return []*luabot.Document{
					{Path: "guide/hooks.md", Size: 42, Content: "# Hooks\n\nOnUpdate."},
					{Path: "notes.md", Size: 7, Title: "notes", Content: "no title"},
				}, nil
			},
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Documents: docs}

		require.NoError(t, (&main.DocsListCmd{}).Run(deps))

		assert.Equal(t, "guide/hooks.md  42 bytes  Hooks\nnotes.md  7 bytes  notes\nTotal files: 2\n", stdout.String())
	})

	t.Run("reports store errors", func(t *testing.T) {
		t.Parallel()

		docs := &mock.KnowledgeBase{
			ListDocumentsFn: func(context.Context) ([]*luabot.Document, error) {
				return nil, luabot.Errorf(luabot.EINTERNAL, "disk unavailable")
			},
		}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: stderr, Documents: docs}

		err := (&main.DocsListCmd{}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, "error: disk unavailable\n", stderr.String())
	})
}

func TestDocsAddCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("saves under the sanitized title", func(t *testing.T) {
		t.Parallel()

		var savedName, savedContent string
		docs := &mock.KnowledgeBase{
			SaveDocumentFn: func(_ context.Context, filename, content string) (*luabot.Document, error) {
				savedName, savedContent = filename, content
				return &luabot.Document{Path: filename, Content: content}, nil
			},
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Documents: docs}

		err := (&main.DocsAddCmd{Title: "UI & Events", Content: "# UI\n"}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "ui___events.md", savedName)
		assert.Equal(t, "# UI\n", savedContent)
		assert.Contains(t, stdout.String(), "added successfully")
	})

	t.Run("rejects empty content", func(t *testing.T) {
		t.Parallel()

		docs := &mock.KnowledgeBase{
			SaveDocumentFn: func(context.Context, string, string) (*luabot.Document, error) {
				t.Fatal("SaveDocument should not be called")
				return nil, nil
			},
		}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: stderr, Documents: docs}

		err := (&main.DocsAddCmd{Title: "Empty", Content: "  "}).Run(deps)

		assert.Equal(t, luabot.EINVALID, luabot.ErrorCode(err))
		assert.Contains(t, stderr.String(), "Document content is required.")
	})
}

func TestAskCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints the answer", func(t *testing.T) {
		t.Parallel()

		asker := &mock.Asker{
			AskFn: func(_ context.Context, question string) (string, error) {
				assert.Equal(t, "How do hooks work?", question)
				return "Register them in OnLoad.", nil
			},
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Asker: asker}

		require.NoError(t, (&main.AskCmd{Question: "How do hooks work?"}).Run(deps))
		assert.Equal(t, "Register them in OnLoad.\n", stdout.String())
	})

	t.Run("prints the error message", func(t *testing.T) {
		t.Parallel()

		asker := &mock.Asker{
			AskFn: func(context.Context, string) (string, error) {
				return "", errors.New("quota exceeded")
			},
		}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: stderr, Asker: asker}

		require.Error(t, (&main.AskCmd{Question: "q"}).Run(deps))
		assert.Equal(t, "error: quota exceeded\n", stderr.String())
	})
}
