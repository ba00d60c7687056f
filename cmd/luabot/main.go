package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/schedulelua/luabot"
	"github.com/schedulelua/luabot/crawl"
	"github.com/schedulelua/luabot/fs"
	"github.com/schedulelua/luabot/gemini"
	"github.com/schedulelua/luabot/goquery"
	"github.com/schedulelua/luabot/htmltomarkdown"
	luahttp "github.com/schedulelua/luabot/http"
	"github.com/schedulelua/luabot/readability"
	luaregexp "github.com/schedulelua/luabot/regexp"
	"github.com/schedulelua/luabot/rod"
	luaslog "github.com/schedulelua/luabot/slog"
	"github.com/schedulelua/luabot/sqlite"
	"github.com/schedulelua/luabot/thunderstore"
	"github.com/schedulelua/luabot/trafilatura"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()

	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	m := NewMain()
	defer m.Close()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		m.Close()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// ConfigPaths are YAML configuration files read when present.
	ConfigPaths []string

	// SQLite database, opened when the sqlite store is selected.
	DB *sqlite.DB

	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		ConfigPaths: []string{configFile},
	}
}

// Close releases everything Run opened. It is safe to call more than once.
func (m *Main) Close() error {
	var firstErr error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.closers = nil
	m.DB = nil
	return firstErr
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("luabot"),
		kong.Description("ScheduleLua community bot: Discord assistant, documentation scraper and release announcer."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Configuration(YAML, m.ConfigPaths...),
		kong.Bind(deps, &cli.Globals),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'luabot --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]
	g := &cli.Globals

	if err := m.openLogger(g, cmd, deps); err != nil {
		return err
	}
	if err := m.openStores(g, deps); err != nil {
		return err
	}

	switch cmd {
	case "run", "scrape", "crawl":
		if err := m.openScraper(g, deps); err != nil {
			return err
		}
	}

	switch cmd {
	case "run", "check-updates":
		registry, err := newRegistry(g)
		if err != nil {
			fmt.Fprintf(stderr, "error: %s\n", luabot.ErrorMessage(err))
			return err
		}
		deps.Registry = luaslog.NewLoggingPackageRegistry(registry, deps.Logger)
	}

	if cmd == "scrape" && cli.Scrape.Tokens {
		counter, err := gemini.NewTokenCounter(g.GeminiModel)
		if err != nil {
			return fmt.Errorf("failed to create token counter: %w", err)
		}
		deps.Scraper.TokenCounter = counter
	}

	if cmd == "run" || cmd == "ask" {
		if g.GeminiAPIKey == "" {
			if cmd == "ask" {
				fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
				return fmt.Errorf("GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
			}
			deps.Logger.Warn("GEMINI_API_KEY not set, /chat is disabled")
		} else {
			client, err := genai.NewClient(ctx, &genai.ClientConfig{
				APIKey:  g.GeminiAPIKey,
				Backend: genai.BackendGeminiAPI,
			})
			if err != nil {
				fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
				return fmt.Errorf("failed to connect to Gemini API: %w", err)
			}
			deps.Asker = luaslog.NewLoggingAsker(gemini.NewAsker(client, deps.Ranker, g.GeminiModel), deps.Logger)
		}
	}

	return kongCtx.Run(deps)
}

// openLogger installs the tint handler, plus a JSON file sink when a log
// file is configured. The bot always logs to bot.log in the data dir
// unless told otherwise.
func (m *Main) openLogger(g *Globals, cmd string, deps *Dependencies) error {
	path := g.LogFile
	if path == "" && cmd == "run" {
		path = filepath.Join(g.DataDir, "bot.log")
	}

	var file io.Writer
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file %q: %w", path, err)
		}
		m.closers = append(m.closers, f)
		file = f
	}

	deps.Logger = newLogger(deps.Stderr, file, parseLevel(g.LogLevel), g.NoColor)
	return nil
}

// openStores wires the knowledge base and the selected state store.
func (m *Main) openStores(g *Globals, deps *Dependencies) error {
	kb := fs.NewKnowledgeBase(filepath.Join(g.DataDir, fs.DocsDir))
	deps.Documents = kb
	deps.Ranker = kb
	deps.Quotes = fs.NewQuoteService(g.DataDir)

	if g.Store != "sqlite" {
		versions := fs.NewVersionStore(g.DataDir)
		versions.Logger = deps.Logger
		deps.Versions = versions
		deps.AutoResponses = fs.NewAutoResponseService(g.DataDir)
		deps.Rules = fs.NewRuleService(g.DataDir)
		return nil
	}

	if err := os.MkdirAll(g.DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	path := filepath.Join(g.DataDir, "luabot.db")
	m.DB = sqlite.NewDB(path)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(deps.Stderr, "Hint: Set LUABOT_DATA_DIR to use a different data directory\n")
		return fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	m.closers = append(m.closers, m.DB)

	deps.DB = m.DB
	deps.Versions = sqlite.NewVersionStore(m.DB)
	deps.AutoResponses = sqlite.NewAutoResponseService(m.DB)
	deps.Rules = sqlite.NewRuleService(m.DB)
	return nil
}

// openScraper wires the fetcher, the URL source and the bulk scraper.
func (m *Main) openScraper(g *Globals, deps *Dependencies) error {
	var fetcher luabot.Fetcher
	if g.Fetcher == "rod" {
		f, err := rod.NewFetcher(rod.WithBrowserOptions(
			rod.WithLogger(deps.Logger),
			rod.WithBrowserBin(g.BrowserBin),
		))
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		m.closers = append(m.closers, f)
		fetcher = f
	} else {
		fetcher = luahttp.NewFetcher()
	}
	deps.Fetcher = luaslog.NewLoggingFetcher(fetcher, deps.Logger)

	var source luabot.URLSource
	if g.Discovery == "sitemap" {
		source = luahttp.NewSitemapSource(deps.Fetcher, deps.Logger)
	} else {
		source = &crawl.Crawler{
			Fetcher: deps.Fetcher,
			Links:   goquery.NewLinkExtractor(),
			Logger:  deps.Logger,
		}
	}
	deps.Source = luaslog.NewLoggingURLSource(source, deps.Logger)

	deps.Scraper = &crawl.Scraper{
		Source:      deps.Source,
		Fetcher:     deps.Fetcher,
		Converter:   newConverter(g),
		Documents:   deps.Documents,
		RateLimiter: crawl.NewHostLimiter(g.PageInterval),
		Logger:      deps.Logger,
	}
	return nil
}

func newConverter(g *Globals) luabot.Converter {
	if g.Converter != "library" {
		return luaregexp.NewConverter()
	}
	switch g.Extractor {
	case "trafilatura":
		return htmltomarkdown.NewConverter(trafilatura.NewExtractor())
	case "readability":
		return htmltomarkdown.NewConverter(readability.NewExtractor())
	default:
		return htmltomarkdown.NewConverter(nil)
	}
}

func newRegistry(g *Globals) (*thunderstore.Registry, error) {
	namespace, name := g.ThunderstoreNamespace, g.ThunderstorePackage
	if g.ThunderstoreFullPath != "" {
		var err error
		if namespace, name, err = thunderstore.ParseFullPath(g.ThunderstoreFullPath); err != nil {
			return nil, err
		}
	}
	return thunderstore.NewRegistry(thunderstore.NormalizeBaseURL(g.ThunderstoreURL), namespace, name), nil
}

// scrapeRequest builds the scrape request for the configured discovery mode.
func scrapeRequest(g *Globals, maxPages int, prefixes []string) crawl.Request {
	req := crawl.Request{
		ReadmeURL: g.ReadmeURL,
		BaseURL:   g.DocsURL,
		Options: luabot.CrawlOptions{
			AllowedPrefixes: prefixes,
			MaxPages:        maxPages,
		},
	}
	if g.Discovery == "pages" {
		req.Pages = crawl.DefaultPages
	}
	return req
}

// checkInterval converts the configured minutes to a duration.
func checkInterval(g *Globals) time.Duration {
	if g.CheckInterval <= 0 {
		return 0
	}
	return time.Duration(g.CheckInterval) * time.Minute
}

// logError logs err with the tint error attribute.
func logError(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, tint.Err(err))
}
