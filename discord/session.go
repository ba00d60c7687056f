// Package discord runs the ScheduleLua community bot on Discord using
// discordgo. It registers a static set of slash commands, checks each
// command's authorization policy before dispatch, posts auto-responses,
// and announces releases.
package discord

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Intents requested when identifying with the gateway. Message content is
// needed for auto-responses and members for permission checks.
const Intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsMessageContent |
	discordgo.IntentsGuildMembers

// Session is the subset of *discordgo.Session used by the bot.
type Session interface {
	// Open creates a websocket connection to Discord.
	Open() error

	// Close closes the websocket connection to Discord.
	Close() error

	// AddHandler adds a gateway event handler and returns a func that
	// removes it.
	AddHandler(handler any) func()

	// UpdateWatchStatus sets a "Watching" activity.
	UpdateWatchStatus(idle int, name string) error

	// ApplicationCommandBulkOverwrite replaces the registered application
	// commands. An empty guildID registers global commands.
	ApplicationCommandBulkOverwrite(
		appID string,
		guildID string,
		commands []*discordgo.ApplicationCommand,
		options ...discordgo.RequestOption,
	) ([]*discordgo.ApplicationCommand, error)

	// InteractionRespond sends the initial response to an interaction.
	InteractionRespond(
		interaction *discordgo.Interaction,
		resp *discordgo.InteractionResponse,
		options ...discordgo.RequestOption,
	) error

	// FollowupMessageCreate sends a followup message after the initial
	// response.
	FollowupMessageCreate(
		interaction *discordgo.Interaction,
		wait bool,
		data *discordgo.WebhookParams,
		options ...discordgo.RequestOption,
	) (*discordgo.Message, error)

	// ChannelMessageSend posts a plain text message to a channel.
	ChannelMessageSend(
		channelID string,
		content string,
		options ...discordgo.RequestOption,
	) (*discordgo.Message, error)

	// ChannelMessageSendEmbed posts an embed to a channel.
	ChannelMessageSendEmbed(
		channelID string,
		embed *discordgo.MessageEmbed,
		options ...discordgo.RequestOption,
	) (*discordgo.Message, error)

	// MessageReactionAdd reacts to a message with an emoji.
	MessageReactionAdd(
		channelID string,
		messageID string,
		emojiID string,
		options ...discordgo.RequestOption,
	) error
}

var _ Session = (*discordgo.Session)(nil)

// NewSession returns a bot session for token with Intents set.
func NewSession(token string) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	s.Identify.Intents = Intents
	return s, nil
}

var discordgoLogLevels = map[int]slog.Level{
	discordgo.LogDebug:         slog.LevelDebug,
	discordgo.LogError:         slog.LevelError,
	discordgo.LogWarning:       slog.LevelWarn,
	discordgo.LogInformational: slog.LevelInfo,
}

// LoggerFunc returns a function suitable for discordgo.Logger that writes
// discordgo's log lines to logger at the matching level.
func LoggerFunc(ctx context.Context, logger *slog.Logger) func(msgL, caller int, format string, args ...any) {
	return func(msgL, _ int, format string, args ...any) {
		level, ok := discordgoLogLevels[msgL]
		if !ok {
			level = slog.LevelInfo
		}
		logger.LogAttrs(
			ctx,
			level,
			strings.ReplaceAll(fmt.Sprintf(format, args...), "\n", ""),
		)
	}
}
