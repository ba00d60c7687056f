package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/schedulelua/luabot"
	"github.com/schedulelua/luabot/discord"
	"github.com/schedulelua/luabot/poll"
	luaslog "github.com/schedulelua/luabot/slog"
	"golang.org/x/sync/errgroup"
)

// Run executes the run command. It blocks until the process is
// interrupted or /shutdown is used.
func (c *RunCmd) Run(deps *Dependencies, g *Globals) error {
	if c.Token == "" || c.ApplicationID == "" {
		err := luabot.Errorf(luabot.EINVALID, "DISCORD_TOKEN and APPLICATION_ID must be set.")
		fmt.Fprintf(deps.Stderr, "error: %s\n", luabot.ErrorMessage(err))
		return err
	}

	ctx, stop := signal.NotifyContext(deps.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	session, err := discord.NewSession(c.Token)
	if err != nil {
		return fmt.Errorf("failed to create Discord session: %w", err)
	}
	discordgo.Logger = discord.LoggerFunc(ctx, deps.Logger.With("component", "discordgo"))

	notifier := discord.NewNotifier(session, c.UpdatesChannelID)
	poller := &poll.Poller{
		Registry: deps.Registry,
		Versions: deps.Versions,
		Notifier: luaslog.NewLoggingNotifier(notifier, deps.Logger),
		Interval: checkInterval(g),
		Logger:   deps.Logger.With("component", "poller"),
	}

	bot := &discord.Bot{
		Session:        session,
		AppID:          c.ApplicationID,
		GuildID:        c.GuildID,
		OwnerID:        c.OwnerID,
		RulesChannelID: c.RulesChannelID,
		DocsURL:        g.DocsURL,
		Asker:          deps.Asker,
		Documents:      deps.Documents,
		AutoResponses:  deps.AutoResponses,
		Rules:          deps.Rules,
		Quotes:         deps.Quotes,
		Scraper:        deps.Scraper,
		ScrapeRequest:  scrapeRequest(g, c.MaxPages, nil),
		Poller:         poller,
		Notifier:       notifier,
		Cooldowns:      luabot.NewCooldowns(time.Duration(c.Cooldown) * time.Second),
		Shutdown:       cancel,
		Logger:         deps.Logger.With("component", "bot"),
	}
	if c.OwnerID == "" {
		deps.Logger.Warn("OWNER_ID not set, owner commands are disabled")
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return bot.Run(ctx)
	})
	if c.UpdatesChannelID != "" {
		eg.Go(func() error {
			return poller.Run(ctx)
		})
	} else {
		deps.Logger.Info("UPDATES_CHANNEL_ID not set, update checks start after /updates_channel")
	}

	deps.Logger.Info("bot starting", "data_dir", g.DataDir, "store", g.Store)
	err = eg.Wait()
	if errors.Is(err, context.Canceled) {
		deps.Logger.Info("bot stopped")
		return nil
	}
	if err != nil {
		logError(deps.Logger, "bot stopped", err)
		fmt.Fprintf(deps.Stderr, "error: %s\n", luabot.ErrorMessage(err))
	}
	return err
}
