package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/schedulelua/luabot"
)

// AutoResponseTitle is the title of embedded auto-responses.
const AutoResponseTitle = "ScheduleLua Help"

// HandleMessage posts the first auto-response triggered by m. Messages
// from bots, messages starting with "!", and channels still cooling down
// are ignored.
func (b *Bot) HandleMessage(ctx context.Context, m *discordgo.Message) {
	if m.Author == nil || m.Author.Bot || strings.HasPrefix(m.Content, "!") {
		return
	}
	now := b.now()
	if b.Cooldowns != nil && b.Cooldowns.Active(m.ChannelID, now) {
		return
	}

	logger := b.logger().With("channel", m.ChannelID)
	responses, err := b.AutoResponses.ListAutoResponses(ctx)
	if err != nil {
		logger.Error("listing auto-responses", "err", err)
		return
	}
	a := luabot.MatchAutoResponse(responses, m.Content)
	if a == nil {
		return
	}
	if b.Cooldowns != nil && !b.Cooldowns.Allow(m.ChannelID, now) {
		return
	}

	if a.Embed {
		_, err = b.Session.ChannelMessageSendEmbed(m.ChannelID, &discordgo.MessageEmbed{
			Title:       AutoResponseTitle,
			Description: a.Response,
			Color:       ColorBlue,
		}, discordgo.WithContext(ctx))
	} else {
		_, err = b.Session.ChannelMessageSend(m.ChannelID, a.Response, discordgo.WithContext(ctx))
	}
	if err != nil {
		logger.Error("sending auto-response", "name", a.Name, "err", err)
		return
	}
	logger.Info("auto-response triggered", "name", a.Name)
}

func (b *Bot) autoResponseCommands() []*Command {
	return []*Command{
		{
			Definition: &discordgo.ApplicationCommand{
				Name:                     "autoresponse_add",
				Description:              "Add or edit an auto-response",
				DefaultMemberPermissions: &adminPermission,
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "name",
						Description: "A unique name for this auto-response",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "trigger",
						Description: "The trigger phrase (separate multiple with |)",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "response",
						Description: "The response message",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionBoolean,
						Name:        "use_embed",
						Description: "Whether to send the response as an embed",
					},
				},
			},
			Policy: AdminOrOwner,
			Handle: b.addAutoResponse,
		},
		{
			Definition: &discordgo.ApplicationCommand{
				Name:                     "autoresponse_list",
				Description:              "List all auto-responses",
				DefaultMemberPermissions: &adminPermission,
			},
			Policy: AdminOrOwner,
			Handle: b.listAutoResponses,
		},
		{
			Definition: &discordgo.ApplicationCommand{
				Name:                     "autoresponse_remove",
				Description:              "Remove an auto-response",
				DefaultMemberPermissions: &adminPermission,
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "name",
						Description: "The name of the auto-response to remove",
						Required:    true,
					},
				},
			},
			Policy: AdminOrOwner,
			Handle: b.removeAutoResponse,
		},
	}
}

func (b *Bot) addAutoResponse(ctx context.Context, r *request) error {
	a := &luabot.AutoResponse{
		Name:     r.options.String("name"),
		Triggers: luabot.ParseTriggers(r.options.String("trigger")),
		Response: r.options.String("response"),
		Embed:    r.options.Bool("use_embed", true),
	}
	if err := b.AutoResponses.SaveAutoResponse(ctx, a); err != nil {
		return err
	}
	return r.reply(fmt.Sprintf("Auto-response `%s` has been added/updated with %d triggers.", a.Name, len(a.Triggers)), true)
}

func (b *Bot) listAutoResponses(ctx context.Context, r *request) error {
	responses, err := b.AutoResponses.ListAutoResponses(ctx)
	if err != nil {
		return err
	}
	if len(responses) == 0 {
		return r.reply("No auto-responses configured.", true)
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Auto-Responses",
		Description: fmt.Sprintf("Total auto-responses: %d", len(responses)),
		Color:       ColorBlue,
	}
	for i, a := range responses {
		if i == maxEmbedFields {
			break
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  a.Name,
			Value: fmt.Sprintf("Triggers: %s\nEmbed: %t", strings.Join(a.Triggers, ", "), a.Embed),
		})
	}
	return r.replyEmbed(embed, true)
}

func (b *Bot) removeAutoResponse(ctx context.Context, r *request) error {
	name := r.options.String("name")
	if err := b.AutoResponses.DeleteAutoResponse(ctx, name); err != nil {
		return err
	}
	return r.reply(fmt.Sprintf("Auto-response `%s` has been removed.", name), true)
}
