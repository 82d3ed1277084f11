//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/scoreit/scoreit/config"
	"github.com/scoreit/scoreit/internal/bot"
	"github.com/scoreit/scoreit/internal/command"
	"github.com/scoreit/scoreit/internal/discord"
	"github.com/scoreit/scoreit/internal/service"
)

func InitializeService(cfg config.Config) (service.Service, func(), error) {
	wire.Build(ServiceSet)
	return nil, nil, nil
}

func InitializeBot(cfg config.Config, scoring bot.Scoring) (*discordBot, func(), error) {
	wire.Build(
		newDiscordBot,
		bot.New,
		provideRouter,
		provideBotOptions,
		wire.Bind(new(bot.CommandRouter), new(*command.Router)),
		wire.Bind(new(bot.Session), new(*discord.Session)),
		DiscordSet,
	)
	return nil, nil, nil
}
