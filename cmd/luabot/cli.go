package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/alecthomas/kong"
	"github.com/schedulelua/luabot"
	"github.com/schedulelua/luabot/crawl"
	"github.com/schedulelua/luabot/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	DB     *sqlite.DB

	Documents     luabot.KnowledgeBase
	Ranker        luabot.Ranker
	Versions      luabot.VersionStore
	AutoResponses luabot.AutoResponseService
	Rules         luabot.RuleService
	Quotes        luabot.QuoteService

	Fetcher  luabot.Fetcher
	Source   luabot.URLSource
	Scraper  *crawl.Scraper
	Asker    luabot.Asker
	Registry luabot.PackageRegistry
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Globals

	Config kong.ConfigFlag `help:"Load configuration from this YAML file (luabot.yaml is read when present)"`

	Run          RunCmd          `cmd:"" help:"Run the Discord bot and the update poller"`
	Scrape       ScrapeCmd       `cmd:"" help:"Scrape the README and documentation site into the knowledge base"`
	Crawl        CrawlCmd        `cmd:"" help:"Print the documentation URLs discovered under a site"`
	Ask          AskCmd          `cmd:"" help:"Answer a question from the knowledge base"`
	Docs         DocsCmd         `cmd:"" help:"Manage knowledge-base documents"`
	CheckUpdates CheckUpdatesCmd `cmd:"" name:"check-updates" help:"Check the package registry once and print any new release"`
}

// Globals are flags shared by every command.
type Globals struct {
	DataDir  string `name:"data-dir" env:"LUABOT_DATA_DIR" default:"data" help:"Directory holding the knowledge base and bot state"`
	Store    string `env:"LUABOT_STORE" enum:"json,sqlite" default:"json" help:"State store (json, sqlite)"`
	LogLevel string `name:"log-level" env:"LOG_LEVEL" enum:"debug,info,warn,error" default:"info" help:"Minimum log level"`
	LogFile  string `name:"log-file" env:"LOG_FILE" help:"Also write JSON logs to this file (run defaults to bot.log in the data dir)"`
	NoColor  bool   `name:"no-color" env:"NO_COLOR" help:"Disable colored log output"`

	Converter  string `env:"LUABOT_CONVERTER" enum:"rules,library" default:"rules" help:"HTML to Markdown converter (rules, library)"`
	Extractor  string `env:"LUABOT_EXTRACTOR" enum:"main,trafilatura,readability" default:"main" help:"Main-content extractor for the library converter"`
	Fetcher    string `env:"LUABOT_FETCHER" enum:"http,rod" default:"http" help:"Page fetcher (http, rod)"`
	BrowserBin string `name:"browser-bin" env:"LUABOT_BROWSER_BIN" help:"Chrome binary for the rod fetcher (looked up when empty)"`
	Discovery  string `env:"LUABOT_DISCOVERY" enum:"crawl,sitemap,pages" default:"crawl" help:"How documentation pages are found"`

	PageInterval time.Duration `name:"page-interval" env:"LUABOT_PAGE_INTERVAL" default:"5s" help:"Spacing between page fetches on one host while scraping"`

	DocsURL   string `name:"docs-url" env:"SCHEDULELUA_DOCS_URL" default:"https://ifbars.github.io/ScheduleLua-Docs/" help:"Documentation site"`
	ReadmeURL string `name:"readme-url" env:"SCHEDULELUA_README_URL" default:"https://raw.githubusercontent.com/ifBars/ScheduleLua/refs/heads/main/README.md" help:"Raw README URL"`

	GeminiAPIKey string `name:"gemini-api-key" env:"GEMINI_API_KEY" help:"Gemini API key"`
	GeminiModel  string `name:"gemini-model" env:"GEMINI_MODEL" default:"gemini-2.0-flash" help:"Gemini model used for answers"`

	ThunderstoreURL       string `name:"thunderstore-url" env:"THUNDERSTORE_API_URL" default:"https://thunderstore.io/api/experimental" help:"Thunderstore API base URL"`
	ThunderstoreNamespace string `name:"thunderstore-namespace" env:"THUNDERSTORE_NAMESPACE" default:"ScheduleLua" help:"Package namespace"`
	ThunderstorePackage   string `name:"thunderstore-package" env:"THUNDERSTORE_PACKAGE_NAME" default:"ScheduleLua" help:"Package name"`
	ThunderstoreFullPath  string `name:"thunderstore-full-path" env:"THUNDERSTORE_FULL_PATH" help:"namespace/name, overrides the namespace and package flags"`
	CheckInterval         int    `name:"check-interval" env:"THUNDERSTORE_CHECK_INTERVAL" default:"30" help:"Minutes between update checks"`
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	Token            string `env:"DISCORD_TOKEN" help:"Discord bot token"`
	OwnerID          string `name:"owner-id" env:"OWNER_ID" help:"User ID of the bot owner"`
	ApplicationID    string `name:"application-id" env:"APPLICATION_ID" help:"Discord application ID"`
	GuildID          string `name:"guild-id" env:"GUILD_ID" help:"Guild the commands are registered in (global when empty)"`
	UpdatesChannelID string `name:"updates-channel" env:"UPDATES_CHANNEL_ID" help:"Channel for release announcements"`
	RulesChannelID   string `name:"rules-channel" env:"RULES_CHANNEL_ID" help:"Channel /send_rules posts to"`
	Cooldown         int    `env:"AUTO_RESPONSE_COOLDOWN" default:"60" help:"Seconds between auto-responses in one channel"`
	MaxPages         int    `name:"max-pages" default:"50" help:"Page ceiling for /scrape_documentation"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	MaxPages int           `name:"max-pages" short:"n" default:"50" help:"Maximum pages to discover"`
	Prefix   []string      `short:"p" help:"Only follow URLs under these prefixes (repeatable)"`
	Retry    time.Duration `help:"Retry a failed fetch once after this delay (0 disables)"`
	Tokens   bool          `help:"Count Gemini tokens in the saved pages"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	URL      string   `arg:"" optional:"" help:"Site to crawl (defaults to the docs URL)"`
	MaxPages int      `name:"max-pages" short:"n" default:"50" help:"Maximum pages to discover"`
	Prefix   []string `short:"p" help:"Only follow URLs under these prefixes (repeatable)"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Question string `arg:"" help:"Question to ask about ScheduleLua"`
}

// DocsCmd groups the knowledge-base subcommands.
type DocsCmd struct {
	List   DocsListCmd   `cmd:"" help:"List documents"`
	Add    DocsAddCmd    `cmd:"" help:"Add a document"`
	Remove DocsRemoveCmd `cmd:"" help:"Remove a document"`
}

// DocsListCmd is the "docs list" subcommand.
type DocsListCmd struct{}

// DocsAddCmd is the "docs add" subcommand.
type DocsAddCmd struct {
	Title   string `arg:"" help:"Document title"`
	Content string `arg:"" optional:"" help:"Markdown content"`
	File    string `short:"f" type:"existingfile" help:"Read the content from this file"`
}

// DocsRemoveCmd is the "docs remove" subcommand.
type DocsRemoveCmd struct {
	Filename string `arg:"" help:"Document filename, as shown by docs list"`
}

// CheckUpdatesCmd is the "check-updates" subcommand.
type CheckUpdatesCmd struct{}
