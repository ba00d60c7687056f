package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/schedulelua/luabot"
)

// maxEmbedFields is the number of fields Discord accepts in one embed.
const maxEmbedFields = 25

func (b *Bot) documentCommands() []*Command {
	return []*Command{
		{
			Definition: &discordgo.ApplicationCommand{
				Name:        "chat",
				Description: "Chat with the AI assistant about ScheduleLua",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "question",
						Description: "Your question or message about ScheduleLua",
						Required:    true,
					},
				},
			},
			Policy: Public,
			Handle: b.chat,
		},
		{
			Definition: &discordgo.ApplicationCommand{
				Name:                     "add_doc",
				Description:              "Add a documentation file to the knowledge base",
				DefaultMemberPermissions: &adminPermission,
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "title",
						Description: "Document title (will be used as filename)",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "content",
						Description: "Markdown content of the documentation",
						Required:    true,
					},
				},
			},
			Policy: Owner,
			Handle: b.addDocument,
		},
		{
			Definition: &discordgo.ApplicationCommand{
				Name:                     "list_docs",
				Description:              "List all documentation files in the knowledge base",
				DefaultMemberPermissions: &adminPermission,
			},
			Policy: Owner,
			Handle: b.listDocuments,
		},
		{
			Definition: &discordgo.ApplicationCommand{
				Name:                     "remove_doc",
				Description:              "Remove a documentation file from the knowledge base",
				DefaultMemberPermissions: &adminPermission,
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "filename",
						Description: "The filename to remove (see /list_docs)",
						Required:    true,
					},
				},
			},
			Policy: Owner,
			Handle: b.removeDocument,
		},
		{
			Definition: &discordgo.ApplicationCommand{
				Name:                     "scrape_documentation",
				Description:              "Scrape ScheduleLua documentation and save as markdown files",
				DefaultMemberPermissions: &adminPermission,
			},
			Policy: Owner,
			Handle: b.scrapeDocumentation,
		},
	}
}

func (b *Bot) chat(ctx context.Context, r *request) error {
	if b.Asker == nil {
		return luabot.Errorf(luabot.EINVALID, "The chat assistant is not configured.")
	}
	if err := r.deferReply(false); err != nil {
		return err
	}
	answer, err := b.Asker.Ask(ctx, r.options.String("question"))
	if err != nil {
		return err
	}
	return r.reply(answer, false)
}

func (b *Bot) addDocument(ctx context.Context, r *request) error {
	if err := r.deferReply(true); err != nil {
		return err
	}
	title := r.options.String("title")
	if _, err := b.Documents.SaveDocument(ctx, luabot.DocumentFilename(title), r.options.String("content")); err != nil {
		return err
	}
	return r.reply(fmt.Sprintf("Documentation file '%s' added successfully.", title), true)
}

func (b *Bot) listDocuments(ctx context.Context, r *request) error {
	docs, err := b.Documents.ListDocuments(ctx)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return r.reply("No documentation files found.", true)
	}
	return r.replyEmbed(DocumentsEmbed(docs), true)
}

// DocumentsEmbed lists knowledge-base documents with their title, path and
// size. Only the first 25 documents get a field.
func DocumentsEmbed(docs []*luabot.Document) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "Documentation Files",
		Description: fmt.Sprintf("Total files: %d", len(docs)),
		Color:       ColorBlue,
	}
	for i, doc := range docs {
		if i == maxEmbedFields {
			break
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("%d. %s", i+1, luabot.DocumentTitle(doc.Content, doc.Title)),
			Value: fmt.Sprintf("Path: %s\nSize: %d bytes", doc.Path, doc.Size),
		})
	}
	return embed
}

func (b *Bot) removeDocument(ctx context.Context, r *request) error {
	filename := r.options.String("filename")
	if err := b.Documents.RemoveDocument(ctx, filename); err != nil {
		return err
	}
	return r.reply(fmt.Sprintf("File '%s' removed successfully.", filename), true)
}

func (b *Bot) scrapeDocumentation(ctx context.Context, r *request) error {
	if b.Scraper == nil {
		return luabot.Errorf(luabot.EINVALID, "Documentation scraping is not configured.")
	}
	if err := r.deferReply(true); err != nil {
		return err
	}
	res, err := b.Scraper.Scrape(ctx, b.ScrapeRequest, nil)
	if err != nil {
		return err
	}
	return r.reply("Documentation scraping complete. "+res.Summary(), true)
}
