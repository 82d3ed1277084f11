package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/scoreit/scoreit"
	"github.com/scoreit/scoreit/internal/command"
	"github.com/scoreit/scoreit/internal/discord"
)

const (
	msgNotAdmin     = `Only game admins can do that.`
	msgStarted      = `The game has started! Drop your items in the box.`
	msgStopped      = `The game is paused.`
	msgEnded        = `The game is over!`
	msgReset        = `The game has been reset.`
	msgNoScores     = `No one has scored yet.`
	msgInvalidLimit = `Board size must be a positive, non-zero number`
)

func (b *Bot) handleState(ctx context.Context, args *command.StateArgs, msg discord.Message, content string) {
	logger := log.WithFields(logrus.Fields{
		"guild_id":   msg.GuildID,
		"channel_id": msg.ChannelID,
		"author_id":  msg.AuthorID,
		"content":    content,
		"handler":    string(args.Op),
	})

	err := args.ParseArg(content)
	if errors.Is(err, command.ErrInvalidArgument) {
		b.reply(logger, msg.ChannelID, fmt.Sprintf("The %s command takes no arguments.", args.Op))
		return
	}
	if err != nil {
		logger.WithError(err).Error("unexpected error from arg parser")
		return
	}

	if !b.isAdmin(msg.AuthorID) {
		logger.Warn("refused state command from non-admin")
		b.reply(logger, msg.ChannelID, msgNotAdmin)
		return
	}

	var (
		ok    bool
		board scoreit.Board
		rsp   string
	)
	switch args.Op {
	case command.OpStart:
		ok, err = b.scoring.Start(ctx)
		rsp = msgStarted
	case command.OpStop:
		ok, err = b.scoring.Stop(ctx)
		rsp = msgStopped
	case command.OpEnd:
		board, ok, err = b.scoring.End(ctx)
		rsp = msgEnded
	case command.OpReset:
		err = b.scoring.Reset(ctx)
		ok = true
		rsp = msgReset
	}
	if err != nil {
		logger.WithError(err).Error("state change was not saved")
	}

	if !ok {
		b.reply(logger, msg.ChannelID, fmt.Sprintf("Unable to %s the game, it is currently %s.", args.Op, b.scoring.State()))
		return
	}

	if err := b.discord.ReactToMessageWithEmoji(msg.ChannelID, msg.ID, "✅"); err != nil {
		logger.WithError(err).Error("failed to react to Discord message")
	}

	if args.Op == command.OpEnd && len(board) > 0 {
		if uint(len(board)) > b.topN {
			board = board[:b.topN]
		}
		standings, err := renderBoard(board)
		if err != nil {
			logger.WithError(err).Error("failed to apply board template")
		} else {
			rsp += "\nFinal standings:\n" + standings
		}
	}

	b.reply(logger, msg.ChannelID, rsp)
}

func (b *Bot) handleStatus(ctx context.Context, msg discord.Message, content string) {
	logger := log.WithFields(logrus.Fields{
		"guild_id":   msg.GuildID,
		"channel_id": msg.ChannelID,
		"content":    content,
		"handler":    "status",
	})

	players := len(b.scoring.Scores(ctx, 0, ""))
	b.reply(logger, msg.ChannelID, fmt.Sprintf("The game is %s with %d player(s) on the board.", b.scoring.State(), players))
}

func (b *Bot) handleScores(ctx context.Context, args *command.ScoresArgs, msg discord.Message, content string) {
	logger := log.WithFields(logrus.Fields{
		"guild_id":   msg.GuildID,
		"channel_id": msg.ChannelID,
		"content":    content,
		"handler":    "scores",
	})

	err := args.ParseArg(content)
	if errors.Is(err, command.ErrInvalidArgument) {
		b.reply(logger, msg.ChannelID, msgInvalidLimit)
		return
	}
	if err != nil {
		logger.WithError(err).Error("unexpected error from arg parser")
		return
	}

	var pivot string
	if args.Player != "" {
		id, ok := b.findPlayer(ctx, args.Player)
		if !ok {
			b.reply(logger, msg.ChannelID, fmt.Sprintf("No such player: %s", args.Player))
			return
		}
		pivot = id
	}

	board := b.scoring.Scores(ctx, args.Limit, pivot)
	if len(board) == 0 {
		b.reply(logger, msg.ChannelID, msgNoScores)
		return
	}

	rsp, err := renderBoard(board)
	if err != nil {
		logger.WithError(err).Error("failed to apply board template")
		return
	}

	b.reply(logger, msg.ChannelID, rsp)
}

// findPlayer matches a player by id, then by display name ignoring case.
func (b *Bot) findPlayer(ctx context.Context, who string) (string, bool) {
	all := b.scoring.Scores(ctx, 0, "")
	for _, entry := range all {
		if entry.ID == who {
			return entry.ID, true
		}
	}
	for _, entry := range all {
		if strings.EqualFold(entry.Name, who) {
			return entry.ID, true
		}
	}
	return "", false
}

func (b *Bot) reply(logger *logrus.Entry, channelID, content string) {
	if err := b.discord.SendMessageToChannel(channelID, content); err != nil {
		logger.WithError(err).Error("failed to send message to Discord channel")
	}
}

func renderBoard(board scoreit.Board) (string, error) {
	var r strings.Builder
	if err := templateBoard.Execute(&r, board); err != nil {
		return "", err
	}
	return r.String(), nil
}
