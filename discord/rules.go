package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/schedulelua/luabot"
)

// RulesAcknowledgeEmoji is added to the posted rules so members can
// acknowledge them.
const RulesAcknowledgeEmoji = "✅"

func (b *Bot) ruleCommands() []*Command {
	number := func(desc string) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "index",
			Description: desc,
			Required:    true,
		}
	}
	text := func(name, desc string, required bool) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        name,
			Description: desc,
			Required:    required,
		}
	}

	return []*Command{
		{
			Definition: &discordgo.ApplicationCommand{
				Name:                     "send_rules",
				Description:              "Send the server rules to the rules channel",
				DefaultMemberPermissions: &adminPermission,
			},
			Policy: AdminOrOwner,
			Handle: b.sendRules,
		},
		{
			Definition: &discordgo.ApplicationCommand{
				Name:                     "add_rule",
				Description:              "Add a new rule or edit an existing one",
				DefaultMemberPermissions: &adminPermission,
				Options: []*discordgo.ApplicationCommandOption{
					number("Rule number (1-based, use existing number to edit)"),
					text("title", "The rule title", true),
					text("description", "The rule description", true),
				},
			},
			Policy: AdminOrOwner,
			Handle: b.addRule,
		},
		{
			Definition: &discordgo.ApplicationCommand{
				Name:                     "edit_rule",
				Description:              "Edit an existing rule",
				DefaultMemberPermissions: &adminPermission,
				Options: []*discordgo.ApplicationCommandOption{
					number("Rule number to edit (1-based)"),
					text("title", "The new rule title", false),
					text("description", "The new rule description", false),
				},
			},
			Policy: AdminOrOwner,
			Handle: b.editRule,
		},
		{
			Definition: &discordgo.ApplicationCommand{
				Name:                     "remove_rule",
				Description:              "Remove a rule",
				DefaultMemberPermissions: &adminPermission,
				Options: []*discordgo.ApplicationCommandOption{
					number("Rule number to remove (1-based)"),
				},
			},
			Policy: AdminOrOwner,
			Handle: b.removeRule,
		},
		{
			Definition: &discordgo.ApplicationCommand{
				Name:                     "list_rules",
				Description:              "List all rules",
				DefaultMemberPermissions: &adminPermission,
			},
			Policy: AdminOrOwner,
			Handle: b.listRules,
		},
	}
}

// RulesEmbed is the public rules announcement.
func RulesEmbed(rules []*luabot.Rule) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "ScheduleLua Community Rules",
		Description: "Welcome to the ScheduleLua community! Please review and follow these rules to ensure a positive environment for everyone.",
		Color:       ColorBlue,
		Fields:      ruleFields(rules),
		Footer:      &discordgo.MessageEmbedFooter{Text: "By participating in this server, you agree to follow these rules."},
	}
}

func ruleFields(rules []*luabot.Rule) []*discordgo.MessageEmbedField {
	var fields []*discordgo.MessageEmbedField
	for i, rule := range rules {
		if i == maxEmbedFields {
			break
		}
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("%d. %s", i+1, rule.Title),
			Value: rule.Description,
		})
	}
	return fields
}

func (b *Bot) sendRules(ctx context.Context, r *request) error {
	if b.RulesChannelID == "" {
		return luabot.Errorf(luabot.EINVALID, "Rules channel ID not configured.")
	}
	rules, err := b.Rules.ListRules(ctx)
	if err != nil {
		return err
	}
	if err := r.reply("Sending rules to the designated channel...", true); err != nil {
		return err
	}

	msg, err := b.Session.ChannelMessageSendEmbed(b.RulesChannelID, RulesEmbed(rules), discordgo.WithContext(ctx))
	if err != nil {
		return luabot.WrapError(luabot.EFETCH, err, "Could not send rules to channel %s.", b.RulesChannelID)
	}
	if err := b.Session.MessageReactionAdd(b.RulesChannelID, msg.ID, RulesAcknowledgeEmoji, discordgo.WithContext(ctx)); err != nil {
		r.logger.Warn("adding rules reaction", "err", err)
	}
	r.logger.Info("rules sent", "channel", b.RulesChannelID)
	return nil
}

func (b *Bot) addRule(ctx context.Context, r *request) error {
	n, _ := r.options.Int("index")
	rule := &luabot.Rule{
		Title:       r.options.String("title"),
		Description: r.options.String("description"),
	}
	if err := b.Rules.SetRule(ctx, n, rule); err != nil {
		return err
	}
	return r.reply(fmt.Sprintf("Rule %d has been added/updated.", n), true)
}

func (b *Bot) editRule(ctx context.Context, r *request) error {
	n, _ := r.options.Int("index")
	rules, err := b.Rules.ListRules(ctx)
	if err != nil {
		return err
	}
	if n < 1 || n > len(rules) {
		return luabot.Errorf(luabot.ENOTFOUND, "Invalid rule number. Valid range: 1-%d.", len(rules))
	}

	rule := *rules[n-1]
	if title := r.options.String("title"); title != "" {
		rule.Title = title
	}
	if desc := r.options.String("description"); desc != "" {
		rule.Description = desc
	}
	prev, err := b.Rules.ReplaceRule(ctx, n, &rule)
	if err != nil {
		return err
	}

	return r.replyEmbed(&discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Rule %d Updated", n),
		Description: "The rule has been updated successfully.",
		Color:       ColorGreen,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Original Title", Value: prev.Title, Inline: true},
			{Name: "New Title", Value: rule.Title, Inline: true},
			{Name: "Original Description", Value: prev.Description},
			{Name: "New Description", Value: rule.Description},
		},
	}, true)
}

func (b *Bot) removeRule(ctx context.Context, r *request) error {
	n, _ := r.options.Int("index")
	removed, err := b.Rules.DeleteRule(ctx, n)
	if err != nil {
		return err
	}
	return r.reply(fmt.Sprintf("Rule %d (%s) has been removed.", n, removed.Title), true)
}

func (b *Bot) listRules(ctx context.Context, r *request) error {
	rules, err := b.Rules.ListRules(ctx)
	if err != nil {
		return err
	}
	if len(rules) == 0 {
		return r.reply("No rules configured.", true)
	}
	return r.replyEmbed(&discordgo.MessageEmbed{
		Title:       "Server Rules",
		Description: fmt.Sprintf("Total rules: %d", len(rules)),
		Color:       ColorBlue,
		Fields:      ruleFields(rules),
	}, true)
}
