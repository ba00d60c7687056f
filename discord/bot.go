package discord

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/schedulelua/luabot"
	"github.com/schedulelua/luabot/crawl"
	"github.com/schedulelua/luabot/poll"
)

// Presence is the "Watching" activity shown once the bot is ready.
const Presence = "ScheduleLua | /help"

// Policy names who may run a command.
type Policy int

const (
	// Public commands can be run by anyone.
	Public Policy = iota
	// Owner commands can only be run by the configured owner.
	Owner
	// AdminOrOwner commands can be run by server administrators and the owner.
	AdminOrOwner
)

// Command is a slash command with its authorization policy and handler.
type Command struct {
	Definition *discordgo.ApplicationCommand
	Policy     Policy
	Handle     func(ctx context.Context, r *request) error
}

// Bot dispatches slash commands and auto-responses for one guild.
type Bot struct {
	Session Session

	AppID          string
	GuildID        string
	OwnerID        string
	RulesChannelID string
	DocsURL        string

	Asker         luabot.Asker
	Documents     luabot.KnowledgeBase
	AutoResponses luabot.AutoResponseService
	Rules         luabot.RuleService
	Quotes        luabot.QuoteService

	// Scraper and ScrapeRequest back /scrape_documentation.
	Scraper       *crawl.Scraper
	ScrapeRequest crawl.Request

	// Poller and Notifier back the update commands. Poller may be nil when
	// the registry is not configured.
	Poller   *poll.Poller
	Notifier *Notifier

	// Cooldowns limits auto-responses per channel.
	Cooldowns *luabot.Cooldowns

	// Shutdown is called by /shutdown to stop the process.
	Shutdown func()

	Logger *slog.Logger

	// Rand returns a random int in [0, n). Defaults to rand.IntN.
	Rand func(n int) int
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	ctx          context.Context
	commandsOnce sync.Once
	commands     map[string]*Command
	removers     []func()
}

// Open registers event handlers, connects to the gateway, and overwrites
// the application commands. ctx bounds background work started by
// commands, such as the poller.
func (b *Bot) Open(ctx context.Context) error {
	b.ctx = ctx
	// Handlers run on gateway goroutines as soon as the session opens.
	b.registry()
	b.removers = append(b.removers,
		b.Session.AddHandler(func(_ *discordgo.Session, e *discordgo.Ready) {
			b.handleReady(e)
		}),
		b.Session.AddHandler(func(_ *discordgo.Session, e *discordgo.InteractionCreate) {
			b.HandleInteraction(ctx, e.Interaction)
		}),
		b.Session.AddHandler(func(_ *discordgo.Session, e *discordgo.MessageCreate) {
			b.HandleMessage(ctx, e.Message)
		}),
	)

	if err := b.Session.Open(); err != nil {
		return luabot.WrapError(luabot.EFETCH, err, "Failed to connect to Discord.")
	}
	return b.RegisterCommands()
}

// Close removes the event handlers and disconnects from the gateway.
func (b *Bot) Close() error {
	for _, remove := range b.removers {
		remove()
	}
	b.removers = nil
	return b.Session.Close()
}

// Run opens the bot and blocks until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.Open(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	if err := b.Close(); err != nil {
		b.logger().Warn("closing discord session", "err", err)
	}
	return ctx.Err()
}

// Commands returns the registered commands ordered by name.
func (b *Bot) Commands() []*Command {
	m := b.registry()
	cmds := make([]*Command, 0, len(m))
	for _, c := range m {
		cmds = append(cmds, c)
	}
	sort.Slice(cmds, func(i, j int) bool {
		return cmds[i].Definition.Name < cmds[j].Definition.Name
	})
	return cmds
}

// RegisterCommands overwrites the application's commands with the static
// command set, scoped to GuildID when it is set.
func (b *Bot) RegisterCommands() error {
	cmds := b.Commands()
	defs := make([]*discordgo.ApplicationCommand, len(cmds))
	for i, c := range cmds {
		defs[i] = c.Definition
	}
	if _, err := b.Session.ApplicationCommandBulkOverwrite(b.AppID, b.GuildID, defs); err != nil {
		return luabot.WrapError(luabot.EFETCH, err, "Error syncing commands: %v", err)
	}
	b.logger().Info("registered commands", "count", len(defs), "guild", b.GuildID)
	return nil
}

// IsOwner reports whether userID is the configured owner.
func (b *Bot) IsOwner(userID string) bool {
	return b.OwnerID != "" && userID == b.OwnerID
}

// IsAdmin reports whether member has the administrator permission.
func IsAdmin(member *discordgo.Member) bool {
	return member != nil && member.Permissions&discordgo.PermissionAdministrator != 0
}

// Authorize reports whether the user behind i may run a command with
// policy.
func (b *Bot) Authorize(policy Policy, i *discordgo.Interaction) bool {
	switch policy {
	case Public:
		return true
	case Owner:
		return b.IsOwner(interactionUserID(i))
	case AdminOrOwner:
		return b.IsOwner(interactionUserID(i)) || IsAdmin(i.Member)
	}
	return false
}

// HandleInteraction runs the slash command carried by i.
func (b *Bot) HandleInteraction(ctx context.Context, i *discordgo.Interaction) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	data := i.ApplicationCommandData()
	logger := b.logger().With(
		"interaction_id", uuid.NewString(),
		"command", data.Name,
		"user", interactionUserID(i),
	)

	cmd, ok := b.registry()[data.Name]
	if !ok {
		logger.Warn("unknown command")
		return
	}

	r := &request{
		session:     b.Session,
		interaction: i,
		options:     newOptions(data.Options),
		logger:      logger,
	}
	if !b.Authorize(cmd.Policy, i) {
		logger.Warn("command denied")
		if err := r.reply(denialMessage(cmd.Policy), true); err != nil {
			logger.Error("sending denial", "err", err)
		}
		return
	}

	start := time.Now()
	err := cmd.Handle(ctx, r)
	if err != nil {
		logger.Error("command failed", "err", err, "duration", time.Since(start))
		r.fail(err)
		return
	}
	logger.Info("command handled", "duration", time.Since(start))
}

func (b *Bot) handleReady(e *discordgo.Ready) {
	logger := b.logger()
	if e.User != nil {
		logger = logger.With("user", e.User.Username, "id", e.User.ID)
	}
	logger.Info("logged in")
	if err := b.Session.UpdateWatchStatus(0, Presence); err != nil {
		logger.Warn("setting presence", "err", err)
	}
}

// registry returns the command table, building it on first use.
func (b *Bot) registry() map[string]*Command {
	b.commandsOnce.Do(func() {
		b.commands = make(map[string]*Command)
		for _, c := range b.commandSet() {
			b.commands[c.Definition.Name] = c
		}
	})
	return b.commands
}

func (b *Bot) commandSet() []*Command {
	var cmds []*Command
	cmds = append(cmds, b.infoCommands()...)
	cmds = append(cmds, b.documentCommands()...)
	cmds = append(cmds, b.autoResponseCommands()...)
	cmds = append(cmds, b.ruleCommands()...)
	cmds = append(cmds, b.updateCommands()...)
	return cmds
}

func (b *Bot) backgroundContext() context.Context {
	if b.ctx != nil {
		return b.ctx
	}
	return context.Background()
}

func (b *Bot) logger() *slog.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return slog.Default()
}

func (b *Bot) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

func (b *Bot) randN(n int) int {
	if b.Rand != nil {
		return b.Rand(n)
	}
	return rand.IntN(n)
}

func denialMessage(policy Policy) string {
	if policy == Owner {
		return "Only the bot owner can use this command."
	}
	return "You don't have permission to use this command."
}

func interactionUserID(i *discordgo.Interaction) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
