package discord

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/schedulelua/luabot"
)

// request is one slash command invocation. It remembers whether the
// initial response was sent so later messages become followups.
type request struct {
	session     Session
	interaction *discordgo.Interaction
	options     options
	logger      *slog.Logger

	responded bool
	deferred  bool
}

func (r *request) respond(data *discordgo.InteractionResponseData, ephemeral bool) error {
	if ephemeral {
		data.Flags |= discordgo.MessageFlagsEphemeral
	}
	if r.responded {
		_, err := r.session.FollowupMessageCreate(r.interaction, true, &discordgo.WebhookParams{
			Content: data.Content,
			Embeds:  data.Embeds,
			Flags:   data.Flags,
		})
		return err
	}
	err := r.session.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err == nil {
		r.responded = true
	}
	return err
}

// reply sends a text message, as a followup when a response was already sent.
func (r *request) reply(content string, ephemeral bool) error {
	return r.respond(&discordgo.InteractionResponseData{Content: content}, ephemeral)
}

func (r *request) replyEmbed(embed *discordgo.MessageEmbed, ephemeral bool) error {
	return r.respond(&discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{embed},
	}, ephemeral)
}

// deferReply acknowledges the interaction with a "thinking" state. The
// answer is sent later with reply.
func (r *request) deferReply(ephemeral bool) error {
	data := &discordgo.InteractionResponseData{}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	err := r.session.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: data,
	})
	if err == nil {
		r.responded = true
		r.deferred = true
	}
	return err
}

// fail shows the user-facing message of err.
func (r *request) fail(err error) {
	msg := luabot.ErrorMessage(err)
	if r.deferred {
		msg = "Error: " + msg
	}
	if rerr := r.reply(msg, true); rerr != nil {
		r.logger.Error("sending error reply", "err", rerr)
	}
}

// options indexes command options by name. Values arrive decoded from
// JSON, so integers are float64.
type options map[string]*discordgo.ApplicationCommandInteractionDataOption

func newOptions(opts []*discordgo.ApplicationCommandInteractionDataOption) options {
	m := make(options, len(opts))
	for _, opt := range opts {
		m[opt.Name] = opt
	}
	return m
}

func (o options) String(name string) string {
	opt, ok := o[name]
	if !ok {
		return ""
	}
	s, _ := opt.Value.(string)
	return s
}

func (o options) Int(name string) (int, bool) {
	opt, ok := o[name]
	if !ok {
		return 0, false
	}
	switch v := opt.Value.(type) {
	case float64:
		return int(v), true
	case int64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

func (o options) Bool(name string, def bool) bool {
	opt, ok := o[name]
	if !ok {
		return def
	}
	v, ok := opt.Value.(bool)
	if !ok {
		return def
	}
	return v
}
