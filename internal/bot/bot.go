package bot

import (
	"context"
	"errors"
	"text/template"

	"github.com/sirupsen/logrus"

	"github.com/scoreit/scoreit"
	"github.com/scoreit/scoreit/internal/command"
	"github.com/scoreit/scoreit/internal/discord"
)

var (
	templateBoard = template.Must(template.New("board").Parse(
		`{{ range $entry := . }}{{ $entry.Rank }}. {{ $entry.Name }} - {{ $entry.Points }} points
{{ end }}`))
)

var log = logrus.StandardLogger().WithFields(logrus.Fields{
	"component": "bot",
})

type Session interface {
	SendMessageToChannel(channelID string, msg string) error
	ReactToMessageWithEmoji(channelID, messageID, emojiID string) error
	Messages() <-chan discord.Message
}

// Scoring is the part of the scoring service the bot drives.
type Scoring interface {
	Start(ctx context.Context) (bool, error)
	Stop(ctx context.Context) (bool, error)
	End(ctx context.Context) (scoreit.Board, bool, error)
	Reset(ctx context.Context) error
	State() scoreit.GameState
	Scores(ctx context.Context, limit uint, pivot string) scoreit.Board
}

type CommandRouter interface {
	Route(s string) (args command.ArgParser, remainder string)
}

type Options struct {
	// Admins may change the game state. When empty, anyone may.
	Admins []string
	// TopN bounds the final standings posted when a game ends.
	TopN uint
}

type Bot struct {
	discord Session
	scoring Scoring
	router  CommandRouter
	admins  map[string]struct{}
	topN    uint
}

func New(discord Session, scoring Scoring, router CommandRouter, opts Options) *Bot {
	admins := make(map[string]struct{}, len(opts.Admins))
	for _, id := range opts.Admins {
		admins[id] = struct{}{}
	}

	topN := opts.TopN
	if topN == 0 {
		topN = command.DefaultLimit
	}

	return &Bot{
		discord: discord,
		scoring: scoring,
		router:  router,
		admins:  admins,
		topN:    topN,
	}
}

func (b *Bot) Listen(ctx context.Context) error {
	log.Info("ready to process Discord messages")

	messages := b.discord.Messages()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return errors.New("discord message stream closed")
			}

			cmd, remainder := b.router.Route(msg.Content)

			switch c := cmd.(type) {
			case *command.StateArgs:
				b.handleState(ctx, c, msg, remainder)

			case *command.StatusArgs:
				b.handleStatus(ctx, msg, remainder)

			case *command.ScoresArgs:
				b.handleScores(ctx, c, msg, remainder)
			}
		}
	}
}

func (b *Bot) isAdmin(userID string) bool {
	if len(b.admins) == 0 {
		return true
	}
	_, ok := b.admins[userID]
	return ok
}
