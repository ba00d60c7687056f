package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/schedulelua/luabot"
	"github.com/schedulelua/luabot/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnowledgeBase_ImplementsInterfaces(t *testing.T) {
	t.Parallel()

	var _ luabot.KnowledgeBase = &fs.KnowledgeBase{}
	var _ luabot.Ranker = &fs.KnowledgeBase{}
}

func TestKnowledgeBase_SaveDocument(t *testing.T) {
	t.Parallel()

	t.Run("writes file and returns document", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		kb := fs.NewKnowledgeBase(dir)

		doc, err := kb.SaveDocument(context.Background(), "installation.md", "# Installation\n\nRun it.")

		require.NoError(t, err)
		assert.Equal(t, "installation", doc.Title)
		assert.Equal(t, "installation.md", doc.Path)
		assert.Equal(t, int64(len("# Installation\n\nRun it.")), doc.Size)
		assert.Len(t, doc.ContentHash, 16)

		content, err := os.ReadFile(filepath.Join(dir, "installation.md"))
		require.NoError(t, err)
		assert.Equal(t, "# Installation\n\nRun it.", string(content))
	})

	t.Run("creates missing directory", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "data", "docs")
		kb := fs.NewKnowledgeBase(dir)

		_, err := kb.SaveDocument(context.Background(), "a.md", "a")

		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(dir, "a.md"))
	})

	t.Run("overwrites existing file", func(t *testing.T) {
		t.Parallel()

		kb := fs.NewKnowledgeBase(t.TempDir())
		ctx := context.Background()

		_, err := kb.SaveDocument(ctx, "a.md", "first")
		require.NoError(t, err)
		_, err = kb.SaveDocument(ctx, "a.md", "second")
		require.NoError(t, err)

		doc, err := kb.FindDocument(ctx, "a.md")
		require.NoError(t, err)
		assert.Equal(t, "second", doc.Content)
	})

	t.Run("rejects names outside the directory", func(t *testing.T) {
		t.Parallel()

		kb := fs.NewKnowledgeBase(t.TempDir())

		for _, name := range []string{"../escape.md", "/etc/passwd", ""} {
			_, err := kb.SaveDocument(context.Background(), name, "x")
			assert.Equal(t, luabot.EINVALID, luabot.ErrorCode(err), name)
		}
	})
}

func TestKnowledgeBase_FindDocument(t *testing.T) {
	t.Parallel()

	t.Run("returns ENOTFOUND for missing file", func(t *testing.T) {
		t.Parallel()

		kb := fs.NewKnowledgeBase(t.TempDir())

		_, err := kb.FindDocument(context.Background(), "missing.md")

		assert.Equal(t, luabot.ENOTFOUND, luabot.ErrorCode(err))
		assert.Equal(t, "File 'missing.md' not found.", luabot.ErrorMessage(err))
	})

	t.Run("same content has same hash", func(t *testing.T) {
		t.Parallel()

		kb := fs.NewKnowledgeBase(t.TempDir())
		ctx := context.Background()

		saved, err := kb.SaveDocument(ctx, "a.md", "hello")
		require.NoError(t, err)
		found, err := kb.FindDocument(ctx, "a.md")
		require.NoError(t, err)

		assert.Equal(t, saved.ContentHash, found.ContentHash)
	})
}

func TestKnowledgeBase_ListDocuments(t *testing.T) {
	t.Parallel()

	t.Run("returns empty list when directory is missing", func(t *testing.T) {
		t.Parallel()

		kb := fs.NewKnowledgeBase(filepath.Join(t.TempDir(), "nope"))

		docs, err := kb.ListDocuments(context.Background())

		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("lists markdown files recursively in path order", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "guide"), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "b.md"), []byte("b"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("a"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "guide", "c.md"), []byte("c"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
		kb := fs.NewKnowledgeBase(dir)

		docs, err := kb.ListDocuments(context.Background())

		require.NoError(t, err)
		require.Len(t, docs, 3)
		assert.Equal(t, "a.md", docs[0].Path)
		assert.Equal(t, "b.md", docs[1].Path)
		assert.Equal(t, "guide/c.md", docs[2].Path)
		assert.Equal(t, "c", docs[2].Title)
	})
}

func TestKnowledgeBase_RemoveDocument(t *testing.T) {
	t.Parallel()

	t.Run("removes existing file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		kb := fs.NewKnowledgeBase(dir)
		ctx := context.Background()
		_, err := kb.SaveDocument(ctx, "a.md", "a")
		require.NoError(t, err)

		err = kb.RemoveDocument(ctx, "a.md")

		require.NoError(t, err)
		assert.NoFileExists(t, filepath.Join(dir, "a.md"))
	})

	t.Run("returns ENOTFOUND for missing file", func(t *testing.T) {
		t.Parallel()

		kb := fs.NewKnowledgeBase(t.TempDir())

		err := kb.RemoveDocument(context.Background(), "missing.md")

		assert.Equal(t, luabot.ENOTFOUND, luabot.ErrorCode(err))
	})
}

func TestKnowledgeBase_Rank(t *testing.T) {
	t.Parallel()

	t.Run("ranks documents by matched tokens", func(t *testing.T) {
		t.Parallel()

		kb := fs.NewKnowledgeBase(t.TempDir())
		ctx := context.Background()
		for name, content := range map[string]string{
			"install.md": "How to install ScheduleLua with MelonLoader.",
			"hooks.md":   "Lifecycle hooks for ScheduleLua scripts.",
			"misc.md":    "Unrelated notes.",
		} {
			_, err := kb.SaveDocument(ctx, name, content)
			require.NoError(t, err)
		}

		docs, err := kb.Rank(ctx, "install schedulelua", 3)

		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "install.md", docs[0].Path)
		assert.Equal(t, 2, docs[0].Score)
		assert.Equal(t, 1, docs[1].Score)
	})

	t.Run("returns empty list when nothing matches", func(t *testing.T) {
		t.Parallel()

		kb := fs.NewKnowledgeBase(t.TempDir())
		ctx := context.Background()
		_, err := kb.SaveDocument(ctx, "a.md", "alpha")
		require.NoError(t, err)

		docs, err := kb.Rank(ctx, "zeta", 3)

		require.NoError(t, err)
		assert.Empty(t, docs)
	})
}
