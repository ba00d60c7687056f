// Package gemini answers questions about ScheduleLua with Google Gemini,
// grounded in the knowledge base.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/schedulelua/luabot"
	"google.golang.org/genai"
)

// DefaultModel is the generation model used when none is configured.
const DefaultModel = "gemini-2.0-flash"

// DocsURL is the public documentation site answers should link to.
const DocsURL = "https://ifbars.github.io/ScheduleLua-Docs/"

// MaxAnswerLength keeps answers inside a single Discord message.
const MaxAnswerLength = 1950

// maxOutputTokens is roughly 1600-2000 characters of output.
const maxOutputTokens = 800

// Ensure Asker implements luabot.Asker at compile time.
var _ luabot.Asker = (*Asker)(nil)

// Asker implements luabot.Asker using Google Gemini.
type Asker struct {
	client *genai.Client
	ranker luabot.Ranker
	model  string
}

// NewAsker creates a new Asker. An empty model means DefaultModel.
func NewAsker(client *genai.Client, ranker luabot.Ranker, model string) *Asker {
	if model == "" {
		model = DefaultModel
	}
	return &Asker{client: client, ranker: ranker, model: model}
}

// Ask answers a question using the best matching knowledge-base documents
// as context. The answer is cut to MaxAnswerLength.
func (a *Asker) Ask(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", luabot.Errorf(luabot.EINVALID, "question required")
	}

	docs, err := a.ranker.Rank(ctx, question, luabot.DefaultTopK)
	if err != nil {
		return "", err
	}

	prompt := BuildUserPrompt(docs, question)
	config := BuildConfig()

	result, err := a.client.Models.GenerateContent(ctx, a.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", luabot.Errorf(luabot.EINTERNAL, "gemini returned nil result")
	}

	return TruncateAnswer(result.Text()), nil
}

// TruncateAnswer cuts an answer to MaxAnswerLength characters.
func TruncateAnswer(s string) string {
	return luabot.Truncate(s, MaxAnswerLength)
}

const systemInstruction = `You are ScheduleLuaBot, a helpful AI assistant specialized in ScheduleLua, a Lua modding framework for Schedule 1.
You help users with questions about ScheduleLua's installation, usage, scripting, and troubleshooting.

When responding:
1. Provide accurate information about ScheduleLua based on documentation
2. Share code examples when appropriate, using proper formatting
3. Link to relevant documentation when available
4. Be friendly and supportive to users of all experience levels
5. If you're unsure about something, acknowledge it and suggest checking the official documentation

ScheduleLua documentation: ` + DocsURL + `

ScheduleLua loads two kinds of scripts:
1. Individual scripts: single .lua files placed in the Scripts folder
2. Lua mods: folders with a manifest.json (name, author, version, dependencies), an init.lua entry point and further .lua files listed in the manifest

Mods cooperate through ExportFunction(), ImportFunction() and GetMod(). The mod system resolves dependencies, load order and initialization.

Always link to the public documentation site (` + DocsURL + `) and never mention local markdown files or internal file paths.

You MUST keep responses under 2000 characters so they fit in a single Discord message.
Be concise. If you include code examples, keep them short and focused on the essential parts.`

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.4)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
		Temperature:     &temp,
		MaxOutputTokens: maxOutputTokens,
	}
}

// BuildUserPrompt builds the user prompt. Without documents the prompt is
// the bare question.
func BuildUserPrompt(docs []*luabot.Document, question string) string {
	if len(docs) == 0 {
		return question
	}

	var sb strings.Builder
	sb.WriteString("Information from ScheduleLua documentation:\n\n")
	for i, doc := range docs {
		fmt.Fprintf(&sb, "Document %d: %s\n", i+1, doc.Title)
		fmt.Fprintf(&sb, "%s\n\n", doc.Content)
	}
	fmt.Fprintf(&sb, "\nUser question: %s\n", question)
	fmt.Fprintf(&sb, "Please answer based on the provided documentation. Do NOT mention these context documents or any local files in your response, only reference the public documentation website (%s):", DocsURL)
	return sb.String()
}
