package main

import (
	"fmt"

	"github.com/google/wire"

	"github.com/scoreit/scoreit/config"
	"github.com/scoreit/scoreit/internal/bot"
	"github.com/scoreit/scoreit/internal/command"
	"github.com/scoreit/scoreit/internal/discord"
	"github.com/scoreit/scoreit/internal/dump"
	"github.com/scoreit/scoreit/internal/event"
	"github.com/scoreit/scoreit/internal/event/rabbitmq"
	"github.com/scoreit/scoreit/internal/points"
	"github.com/scoreit/scoreit/internal/scoreboard"
	"github.com/scoreit/scoreit/internal/service"
	"github.com/scoreit/scoreit/internal/store/nbtfile"
	"github.com/scoreit/scoreit/internal/store/null"
	"github.com/scoreit/scoreit/internal/store/sqlite"
)

var ServiceSet = wire.NewSet(
	scoreboard.New,
	provideStore,
	provideEventBus,
	provideDumper,
	provideDeriver,
	provideService,
)

var DiscordSet = wire.NewSet(
	discord.NewSession,
	discord.NewDialer,
	provideToken,
)

func provideStore(cfg config.Config) (service.Store, func(), error) {
	switch cfg.Store {
	case config.StoreNBT:
		return nbtfile.New(cfg.StorePath), func() {}, nil
	case config.StoreSQLite:
		db, cleanup, err := sqlite.New(sqlite.Path(cfg.StorePath))
		if err != nil {
			return nil, nil, err
		}
		return db, cleanup, nil
	case config.StoreMemory:
		log.Warn("using the in-memory store, scores will not survive a restart")
		return null.New(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
}

func provideEventBus(cfg config.Config) (service.EventBus, func(), error) {
	if cfg.AMQPURL == "" {
		log.Info("no amqp_url configured, events will not be published")
		return event.Discard{}, func() {}, nil
	}

	ch, closeChannel, err := rabbitmq.Dial(cfg.AMQPURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to event broker: %w", err)
	}

	publisher, err := rabbitmq.NewPublisher(ch, rabbitmq.DefaultExchange)
	if err != nil {
		closeChannel()
		return nil, nil, err
	}
	return publisher, closeChannel, nil
}

func provideDumper(cfg config.Config) service.Dumper {
	return dump.New(cfg.DumpDir)
}

func provideDeriver(cfg config.Config) points.Deriver {
	return points.New(cfg.PointNamespace)
}

func provideService(session *scoreboard.Session, st service.Store, bus service.EventBus, dumper service.Dumper, deriver points.Deriver) service.Service {
	return service.NewLogged(service.New(session, st, bus, dumper, deriver))
}

func provideToken(cfg config.Config) discord.Token {
	return discord.Token(cfg.DiscordToken)
}

func provideRouter(cfg config.Config) *command.Router {
	return command.NewRouter(cfg.CommandPrefix, cfg.TopRankings)
}

func provideBotOptions(cfg config.Config) bot.Options {
	return bot.Options{
		Admins: cfg.Admins,
		TopN:   cfg.TopRankings,
	}
}

type discordBot struct {
	bot     *bot.Bot
	session *discord.Session
}

func newDiscordBot(b *bot.Bot, session *discord.Session) *discordBot {
	return &discordBot{bot: b, session: session}
}
