package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/schedulelua/luabot"
	"github.com/schedulelua/luabot/poll"
	luaslog "github.com/schedulelua/luabot/slog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Run executes the check-updates command.
func (c *CheckUpdatesCmd) Run(deps *Dependencies, g *Globals) error {
	p := &poll.Poller{
		Registry: deps.Registry,
		Versions: deps.Versions,
		Notifier: luaslog.NewLoggingNotifier(&printNotifier{w: deps.Stdout}, deps.Logger),
		Interval: checkInterval(g),
		Logger:   deps.Logger,
	}

	res, err := p.Check(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", luabot.ErrorMessage(err))
		return err
	}

	if res.Outcome == poll.Unchanged {
		fmt.Fprintf(deps.Stdout, "No new release. Latest version is %s.\n", res.Version)
	}
	return nil
}

// printNotifier writes release announcements as plain text.
type printNotifier struct {
	w io.Writer
}

func (n *printNotifier) Notify(_ context.Context, r *luabot.Release) error {
	p := message.NewPrinter(language.English)
	var b strings.Builder
	fmt.Fprintf(&b, "ScheduleLua Update v%s (%s/%s)\n", r.Version, r.Namespace, r.Name)
	if r.Description != "" {
		fmt.Fprintf(&b, "%s\n", r.Description)
	}
	fmt.Fprintf(&b, "Released: %s\n", r.Released)
	p.Fprintf(&b, "Downloads: %d\n", r.Downloads)
	if len(r.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n", strings.Join(r.Tags, ", "))
	}
	fmt.Fprintf(&b, "Download: %s\n", r.DownloadURL)
	if r.WebsiteURL != "" {
		fmt.Fprintf(&b, "Website: %s\n", r.WebsiteURL)
	}
	if r.Changelog != "" {
		fmt.Fprintf(&b, "\nChangelog:\n%s\n", r.Changelog)
	}
	_, err := io.WriteString(n.w, b.String())
	return err
}
