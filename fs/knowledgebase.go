package fs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/schedulelua/luabot"
)

// Ensure KnowledgeBase implements luabot.KnowledgeBase at compile time.
var (
	_ luabot.KnowledgeBase = (*KnowledgeBase)(nil)
	_ luabot.Ranker        = (*KnowledgeBase)(nil)
)

// KnowledgeBase stores documents as markdown files under a directory.
// Nested directories are read but documents are always written at the top
// level.
type KnowledgeBase struct {
	dir string
}

// NewKnowledgeBase returns a KnowledgeBase rooted at dir.
func NewKnowledgeBase(dir string) *KnowledgeBase {
	return &KnowledgeBase{dir: dir}
}

// Dir returns the directory the knowledge base lives in.
func (kb *KnowledgeBase) Dir() string {
	return kb.dir
}

// ListDocuments walks the directory and loads every .md file.
func (kb *KnowledgeBase) ListDocuments(ctx context.Context) ([]*luabot.Document, error) {
	var docs []*luabot.Document
	err := filepath.WalkDir(kb.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == kb.dir && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".md") {
			return nil
		}

		rel, err := filepath.Rel(kb.dir, path)
		if err != nil {
			return err
		}
		doc, err := kb.load(rel)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []*luabot.Document{}
	}
	return docs, nil
}

// FindDocument loads a single document.
func (kb *KnowledgeBase) FindDocument(ctx context.Context, filename string) (*luabot.Document, error) {
	rel, err := cleanFilename(filename)
	if err != nil {
		return nil, err
	}
	doc, err := kb.load(rel)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, luabot.Errorf(luabot.ENOTFOUND, "File '%s' not found.", filename)
	}
	return doc, err
}

// SaveDocument writes content to filename, replacing any existing file.
func (kb *KnowledgeBase) SaveDocument(ctx context.Context, filename, content string) (*luabot.Document, error) {
	rel, err := cleanFilename(filename)
	if err != nil {
		return nil, err
	}
	if err := writeFileAtomic(filepath.Join(kb.dir, rel), []byte(content)); err != nil {
		return nil, err
	}
	return newDocument(rel, content), nil
}

// RemoveDocument deletes filename.
func (kb *KnowledgeBase) RemoveDocument(ctx context.Context, filename string) error {
	rel, err := cleanFilename(filename)
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(kb.dir, rel))
	if errors.Is(err, fs.ErrNotExist) {
		return luabot.Errorf(luabot.ENOTFOUND, "File '%s' not found.", filename)
	}
	return err
}

// Rank reads every document fresh and scores it against query.
func (kb *KnowledgeBase) Rank(ctx context.Context, query string, k int) ([]*luabot.Document, error) {
	docs, err := kb.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}
	return luabot.RankDocuments(docs, query, k), nil
}

func (kb *KnowledgeBase) load(rel string) (*luabot.Document, error) {
	data, err := os.ReadFile(filepath.Join(kb.dir, rel))
	if err != nil {
		return nil, err
	}
	return newDocument(rel, string(data)), nil
}

func newDocument(rel, content string) *luabot.Document {
	rel = filepath.ToSlash(rel)
	return &luabot.Document{
		Title:       strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel)),
		Content:     content,
		Path:        rel,
		Size:        int64(len(content)),
		ContentHash: luabot.ContentHash(content),
	}
}

// cleanFilename rejects names that would resolve outside the directory.
func cleanFilename(filename string) (string, error) {
	if strings.TrimSpace(filename) == "" {
		return "", luabot.Errorf(luabot.EINVALID, "Filename required.")
	}
	rel := filepath.Clean(filepath.FromSlash(filename))
	if filepath.IsAbs(rel) || !filepath.IsLocal(rel) {
		return "", luabot.Errorf(luabot.EINVALID, "Invalid filename '%s'.", filename)
	}
	return rel, nil
}
