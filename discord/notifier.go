package discord

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/schedulelua/luabot"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Notifier posts release announcements to a channel that can be changed
// while the bot runs.
type Notifier struct {
	Session Session

	// Now returns the embed timestamp. Defaults to time.Now.
	Now func() time.Time

	mu        sync.RWMutex
	channelID string
}

var _ luabot.Notifier = (*Notifier)(nil)

// NewNotifier returns a Notifier posting to channelID, which may be empty
// until SetChannel is called.
func NewNotifier(s Session, channelID string) *Notifier {
	return &Notifier{Session: s, channelID: channelID}
}

// SetChannel changes the announcement channel.
func (n *Notifier) SetChannel(channelID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.channelID = channelID
}

// ChannelID returns the announcement channel.
func (n *Notifier) ChannelID() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.channelID
}

// Notify posts the release embed. When Discord rejects it, a plain
// announcement is tried before giving up.
func (n *Notifier) Notify(ctx context.Context, release *luabot.Release) error {
	channelID := n.ChannelID()
	if channelID == "" {
		return luabot.Errorf(luabot.ENOTFOUND, "Update channel not configured.")
	}

	now := time.Now()
	if n.Now != nil {
		now = n.Now()
	}
	_, err := n.Session.ChannelMessageSendEmbed(channelID, ReleaseEmbed(release, now), discordgo.WithContext(ctx))
	if err == nil {
		return nil
	}
	if _, ferr := n.Session.ChannelMessageSendEmbed(channelID, FallbackReleaseEmbed(release), discordgo.WithContext(ctx)); ferr != nil {
		return luabot.WrapError(luabot.EFETCH, err, "Failed to send update notification.")
	}
	return nil
}

var numbers = message.NewPrinter(language.English)

// ReleaseEmbed builds the rich announcement for release.
func ReleaseEmbed(release *luabot.Release, now time.Time) *discordgo.MessageEmbed {
	desc := release.Description
	if desc == "" {
		desc = "A new version of ScheduleLua is available!"
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🚀 ScheduleLua Update v%s", release.Version),
		Description: desc,
		URL:         fmt.Sprintf("https://thunderstore.io/c/schedule-i/p/%s/%s/", release.Namespace, release.Name),
		Color:       ColorBrandGreen,
		Timestamp:   now.Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("ScheduleLua • %s/%s", release.Namespace, release.Name),
		},
	}

	embed.Fields = append(embed.Fields,
		&discordgo.MessageEmbedField{Name: "📅 Released", Value: release.Released, Inline: true},
		&discordgo.MessageEmbedField{Name: "⬇️ Downloads", Value: numbers.Sprintf("%d", release.Downloads), Inline: true},
	)
	if len(release.Tags) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "🏷️ Tags", Value: strings.Join(release.Tags, ", "), Inline: true,
		})
	}
	if len(release.KeyFeatures) > 0 {
		lines := make([]string, len(release.KeyFeatures))
		for i, f := range release.KeyFeatures {
			lines[i] = luabot.Bullet + " " + f
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "✨ Key Features", Value: strings.Join(lines, "\n"),
		})
	}

	links := []string{fmt.Sprintf("[Download](%s)", release.DownloadURL)}
	if release.WebsiteURL != "" {
		links = append(links, fmt.Sprintf("[Website](%s)", release.WebsiteURL))
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name: "🔗 Links", Value: strings.Join(links, " • "),
	})

	if release.Changelog != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "📋 Changelog", Value: release.Changelog,
		})
	}
	if release.IconURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: release.IconURL}
	}
	return embed
}

// FallbackReleaseEmbed is the minimal announcement used when the rich one
// is rejected.
func FallbackReleaseEmbed(release *luabot.Release) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "ScheduleLua Update Available",
		Description: fmt.Sprintf("Version %s has been released.", release.Version),
		Color:       ColorGreen,
	}
}
