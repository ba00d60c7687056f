package luabot

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// DefaultTopK is the number of documents returned by a ranking query when
// the caller does not ask for a specific count.
const DefaultTopK = 3

// Document represents a markdown file in the knowledge base.
// Score is computed per query by a Ranker and is never persisted.
type Document struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	Path        string `json:"path"`
	Size        int64  `json:"size"`
	ContentHash string `json:"contentHash,omitempty"`
	Score       int    `json:"score,omitempty"`
}

// ContentHash returns the hex xxhash64 of content, as stored in
// Document.ContentHash.
func ContentHash(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}

// KnowledgeBase represents the directory of markdown documents used as
// retrieval context for the chat assistant.
type KnowledgeBase interface {
	// ListDocuments returns every document ordered by path.
	ListDocuments(ctx context.Context) ([]*Document, error)

	// FindDocument returns the document stored under filename.
	// Returns ENOTFOUND if the document does not exist.
	FindDocument(ctx context.Context, filename string) (*Document, error)

	// SaveDocument writes content under filename, overwriting any
	// existing document with the same name.
	SaveDocument(ctx context.Context, filename, content string) (*Document, error)

	// RemoveDocument deletes the document stored under filename.
	// Returns ENOTFOUND if the document does not exist.
	RemoveDocument(ctx context.Context, filename string) error
}

// Ranker scores knowledge-base documents against a free-text query.
type Ranker interface {
	// Rank returns at most k documents with a positive score, best first.
	// A k of zero or less means DefaultTopK.
	Rank(ctx context.Context, query string, k int) ([]*Document, error)
}

var (
	wordPattern     = regexp.MustCompile(`[\p{L}\p{N}_]+`)
	filenamePattern = regexp.MustCompile(`[^A-Za-z0-9_.-]`)
)

// Tokenize splits a query into its distinct lowercase word tokens in order
// of first appearance.
func Tokenize(query string) []string {
	words := wordPattern.FindAllString(strings.ToLower(query), -1)
	seen := make(map[string]struct{}, len(words))
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		tokens = append(tokens, w)
	}
	return tokens
}

// ScoreDocument counts how many tokens occur anywhere in content.
// Each token counts once regardless of how often it appears.
func ScoreDocument(tokens []string, content string) int {
	lower := strings.ToLower(content)
	score := 0
	for _, t := range tokens {
		if strings.Contains(lower, t) {
			score++
		}
	}
	return score
}

// RankDocuments scores docs against query and returns the top k documents
// with a positive score. Ties keep the order of docs.
func RankDocuments(docs []*Document, query string, k int) []*Document {
	if k <= 0 {
		k = DefaultTopK
	}

	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return []*Document{}
	}

	ranked := make([]*Document, 0, len(docs))
	for _, doc := range docs {
		score := ScoreDocument(tokens, doc.Content)
		if score == 0 {
			continue
		}
		scored := *doc
		scored.Score = score
		ranked = append(ranked, &scored)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

// DocumentFilename derives the knowledge-base filename for a page title.
// Different titles may map to the same filename.
func DocumentFilename(title string) string {
	name := strings.ToLower(title)
	name = strings.ReplaceAll(name, " ", "_")
	name = filenamePattern.ReplaceAllString(name, "_")
	return name + ".md"
}

// DocumentTitle returns the text of the first level-one heading in content,
// or fallback when there is none.
func DocumentTitle(content, fallback string) string {
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return fallback
}
