package config

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/knadh/koanf/v2"
)

func NewDiscordSession(config *koanf.Koanf) (*discordgo.Session, error) {
	DISCORD_TOKEN := config.String("DISCORD_TOKEN")
	if DISCORD_TOKEN == "" {
		return nil, errors.New("DISCORD_TOKEN is not set")
	}

	session, err := discordgo.New("Bot " + DISCORD_TOKEN)
	if err != nil {
		return nil, fmt.Errorf("discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent
	session.StateEnabled = true

	return session, nil
}
