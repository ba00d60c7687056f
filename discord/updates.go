package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/schedulelua/luabot"
)

func (b *Bot) updateCommands() []*Command {
	return []*Command{
		{
			Definition: &discordgo.ApplicationCommand{
				Name:                     "updates_channel",
				Description:              "Set the channel for ScheduleLua update notifications",
				DefaultMemberPermissions: &adminPermission,
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:         discordgo.ApplicationCommandOptionChannel,
						Name:         "channel",
						Description:  "Channel that receives release announcements",
						ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
						Required:     true,
					},
				},
			},
			Policy: AdminOrOwner,
			Handle: b.setUpdatesChannel,
		},
		{
			Definition: &discordgo.ApplicationCommand{
				Name:                     "check_updates",
				Description:              "Manually check for ScheduleLua updates",
				DefaultMemberPermissions: &adminPermission,
			},
			Policy: AdminOrOwner,
			Handle: b.checkUpdates,
		},
	}
}

func (b *Bot) setUpdatesChannel(_ context.Context, r *request) error {
	if b.Notifier == nil {
		return luabot.Errorf(luabot.EINVALID, "Update notifications are not configured.")
	}
	channelID := r.options.String("channel")
	b.Notifier.SetChannel(channelID)

	if err := r.reply(fmt.Sprintf(
		"Update notifications will now be sent to <#%[1]s>.\nTo make this permanent, add `UPDATES_CHANNEL_ID=%[1]s` to your .env file.",
		channelID,
	), true); err != nil {
		return err
	}

	if b.Poller != nil && !b.Poller.Running() {
		ctx := b.backgroundContext()
		go func() {
			if err := b.Poller.Run(ctx); err != nil && ctx.Err() == nil {
				b.logger().Error("update poller stopped", "err", err)
			}
		}()
		r.logger.Info("started update poller", "channel", channelID)
	}
	return nil
}

func (b *Bot) checkUpdates(ctx context.Context, r *request) error {
	if b.Poller == nil || b.Notifier == nil || b.Notifier.ChannelID() == "" {
		return luabot.Errorf(luabot.EINVALID, "Update channel not configured. Use `/updates_channel` first.")
	}
	if err := r.reply("Checking for ScheduleLua updates...", true); err != nil {
		return err
	}
	res, err := b.Poller.Check(ctx)
	if err != nil {
		return luabot.WrapError(luabot.ErrorCode(err), err, "Error checking for updates: %s", luabot.ErrorMessage(err))
	}
	r.logger.Info("manual update check", "outcome", res.Outcome, "version", res.Version)
	return r.reply("Update check completed!", true)
}
