package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/schedulelua/luabot"
)

// Embed colors.
const (
	ColorBlue       = 0x3498db
	ColorGreen      = 0x2ecc71
	ColorGold       = 0xf1c40f
	ColorBrandGreen = 0x57f287
)

// DefaultDocsURL is the public documentation site linked from /docs.
const DefaultDocsURL = "https://ifbars.github.io/ScheduleLua-Docs"

const (
	repoURL   = "https://github.com/ScheduleLua/ScheduleLua-Framework"
	issuesURL = repoURL + "/issues"
	logoURL   = repoURL + "/raw/main/logo.png"
)

var adminPermission int64 = discordgo.PermissionAdministrator

func (b *Bot) infoCommands() []*Command {
	return []*Command{
		{
			Definition: &discordgo.ApplicationCommand{Name: "about", Description: "Get information about ScheduleLua"},
			Policy:     Public,
			Handle:     b.about,
		},
		{
			Definition: &discordgo.ApplicationCommand{Name: "docs", Description: "Get links to ScheduleLua documentation"},
			Policy:     Public,
			Handle:     b.docs,
		},
		{
			Definition: &discordgo.ApplicationCommand{Name: "report", Description: "Get information on how to report bugs or request features"},
			Policy:     Public,
			Handle:     b.report,
		},
		{
			Definition: &discordgo.ApplicationCommand{Name: "quote", Description: "Get a random John Lua quote"},
			Policy:     Public,
			Handle:     b.quote,
		},
		{
			Definition: &discordgo.ApplicationCommand{Name: "help", Description: "Get help with ScheduleLua commands"},
			Policy:     Public,
			Handle:     b.help,
		},
		{
			Definition: &discordgo.ApplicationCommand{
				Name:                     "sync",
				Description:              "Sync application commands",
				DefaultMemberPermissions: &adminPermission,
			},
			Policy: Owner,
			Handle: b.sync,
		},
		{
			Definition: &discordgo.ApplicationCommand{
				Name:                     "shutdown",
				Description:              "Shut down the bot",
				DefaultMemberPermissions: &adminPermission,
			},
			Policy: Owner,
			Handle: b.shutdown,
		},
	}
}

func (b *Bot) about(_ context.Context, r *request) error {
	return r.replyEmbed(&discordgo.MessageEmbed{
		Title:       "About ScheduleLua",
		Description: "ScheduleLua is a Lua modding framework for Schedule 1, allowing you to create custom scripts and mods using Lua.",
		Color:       ColorBlue,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Documentation", Value: fmt.Sprintf("[ScheduleLua Docs](%s/)", b.docsURL()), Inline: true},
			{Name: "GitHub Repository", Value: fmt.Sprintf("[GitHub](%s)", repoURL), Inline: true},
			{Name: "Report Bugs", Value: fmt.Sprintf("[GitHub Issues](%s)", issuesURL), Inline: true},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "ScheduleLua - Enhancing Schedule 1 with Lua scripting"},
		Thumbnail: &discordgo.MessageEmbedThumbnail{URL: logoURL},
	}, false)
}

func (b *Bot) docs(_ context.Context, r *request) error {
	base := b.docsURL()
	return r.replyEmbed(&discordgo.MessageEmbed{
		Title:       "ScheduleLua Documentation",
		Description: "Here are the main documentation resources for ScheduleLua:",
		Color:       ColorBlue,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  "Getting Started",
				Value: fmt.Sprintf("[Installation Guide](%[1]s/guide/installation.html)\n[Getting Started](%[1]s/guide/getting-started.html)", base),
			},
			{Name: "API Reference", Value: fmt.Sprintf("[API Documentation](%s/api/)", base)},
			{Name: "Examples", Value: fmt.Sprintf("[Example Scripts](%s/examples/)", base)},
			{Name: "Contributing", Value: fmt.Sprintf("[Contributing Guide](%s/guide/contributing.html)", base)},
		},
	}, false)
}

func (b *Bot) report(_ context.Context, r *request) error {
	steps := func(kind, detail string) string {
		return fmt.Sprintf("1. Go to [GitHub Issues](%s)\n2. Click 'New Issue'\n3. Select '%s'\n4. %s\n5. Submit the issue", issuesURL, kind, detail)
	}
	return r.replyEmbed(&discordgo.MessageEmbed{
		Title:       "Report Bugs & Request Features",
		Description: "Help improve ScheduleLua by reporting bugs and requesting new features:",
		Color:       ColorBlue,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Report Bugs", Value: steps("Bug Report", "Fill in the template with details about the bug")},
			{Name: "Request Features", Value: steps("Feature Request", "Describe the feature you'd like to see")},
			{
				Name: "What to Include",
				Value: "- Clear description of the bug/feature\n- Steps to reproduce (for bugs)\n" +
					"- Expected vs. actual behavior\n- System information\n- Screenshots if applicable",
			},
		},
	}, false)
}

func (b *Bot) quote(ctx context.Context, r *request) error {
	quotes, err := b.Quotes.ListQuotes(ctx)
	if err != nil {
		return luabot.WrapError(luabot.EINTERNAL, err, "Failed to retrieve a quote.")
	}
	if len(quotes) == 0 {
		return r.reply("No quotes found in the quotes file.", true)
	}
	return r.replyEmbed(&discordgo.MessageEmbed{
		Title:       "John Lua Says...",
		Description: fmt.Sprintf("*\"%s\"*", quotes[b.randN(len(quotes))]),
		Color:       ColorGold,
	}, false)
}

var publicHelp = []string{
	"/about - Get information about ScheduleLua",
	"/docs - Get documentation links",
	"/report - Learn how to report bugs or request features",
	"/help - Show this help message",
	"/chat - Chat with the AI assistant about ScheduleLua",
	"/quote - Get a random John Lua quote",
}

var adminHelp = []string{
	"/sync - Sync application commands",
	"/shutdown - Shut down the bot",
	"/send_rules - Send rules to the rules channel",
	"/add_rule - Add a new rule",
	"/edit_rule - Edit an existing rule",
	"/remove_rule - Remove a rule",
	"/list_rules - List all rules",
	"/autoresponse_add - Add or edit an auto-response",
	"/autoresponse_list - List all auto-responses",
	"/autoresponse_remove - Remove an auto-response",
	"/add_doc - Add a documentation file",
	"/scrape_documentation - Scrape ScheduleLua documentation",
	"/list_docs - List all documentation files",
	"/remove_doc - Remove a documentation file",
	"/updates_channel - Set the update notification channel",
	"/check_updates - Check for ScheduleLua updates now",
}

func (b *Bot) help(_ context.Context, r *request) error {
	embed := &discordgo.MessageEmbed{
		Title:       "ScheduleLua Bot Commands",
		Description: "Here are the available commands:",
		Color:       ColorBlue,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Information", Value: strings.Join(publicHelp, "\n")},
		},
	}
	if b.IsOwner(interactionUserID(r.interaction)) {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Administration (Owner Only)",
			Value: strings.Join(adminHelp, "\n"),
		})
	}
	return r.replyEmbed(embed, true)
}

func (b *Bot) sync(_ context.Context, r *request) error {
	if err := b.RegisterCommands(); err != nil {
		return err
	}
	return r.reply("Commands synced successfully!", true)
}

func (b *Bot) shutdown(_ context.Context, r *request) error {
	if err := r.reply("Shutting down...", true); err != nil {
		return err
	}
	r.logger.Info("shutdown requested")
	if b.Shutdown != nil {
		b.Shutdown()
	}
	return nil
}

func (b *Bot) docsURL() string {
	if b.DocsURL != "" {
		return strings.TrimSuffix(b.DocsURL, "/")
	}
	return DefaultDocsURL
}
