package discordapi

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/ferdian3456/staffroster/internal/constant"
	"github.com/ferdian3456/staffroster/internal/platform"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("github.com/ferdian3456/staffroster/internal/platform/discordapi")

var administratorPermission int64 = discordgo.PermissionAdministrator

// Commands lists the slash commands registered on ready.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:                     constant.CommandSetStaffChannel,
			Description:              "Use this channel for the staff table",
			DefaultMemberPermissions: &administratorPermission,
		},
		{
			Name:                     constant.CommandSetModerationChannel,
			Description:              "Use this channel for the moderation panel",
			DefaultMemberPermissions: &administratorPermission,
		},
		{
			Name:                     constant.CommandSetLogChannel,
			Description:              "Use this channel for the moderation log",
			DefaultMemberPermissions: &administratorPermission,
		},
		{
			Name:        constant.CommandRefreshStaffTable,
			Description: "Rebuild the staff table now",
		},
	}
}

// Bind routes gateway events to handler. Handlers run on the discordgo
// event goroutines with ctx as their parent context. guildID scopes the
// command registration; empty registers global commands.
func (client *Client) Bind(ctx context.Context, handler platform.EventHandler, guildID string) {
	client.Session.AddHandler(func(s *discordgo.Session, ready *discordgo.Ready) {
		client.Log.Info("connected to discord gateway", zap.String("user", ready.User.Username), zap.Int("guilds", len(ready.Guilds)))

		_, err := s.ApplicationCommandBulkOverwrite(client.AppId, guildID, Commands(), discordgo.WithContext(ctx))
		if err != nil {
			client.Log.Error("failed to register commands", zap.Error(err))
			return
		}

		client.Log.Info("commands registered", zap.Int("count", len(Commands())))
	})

	client.Session.AddHandler(func(s *discordgo.Session, event *discordgo.InteractionCreate) {
		interaction, ok := toInteraction(event.Interaction)
		if !ok {
			return
		}

		spanCtx, span := tracer.Start(ctx, "discord.InteractionCreate")
		defer span.End()

		handler.HandleInteraction(spanCtx, interaction)
	})

	client.Session.AddHandler(func(s *discordgo.Session, event *discordgo.MessageCreate) {
		if event.Message == nil || event.GuildID == "" {
			return
		}

		spanCtx, span := tracer.Start(ctx, "discord.MessageCreate")
		defer span.End()

		handler.HandleMessage(spanCtx, toIncomingMessage(event.Message))
	})

	client.Session.AddHandler(func(s *discordgo.Session, event *discordgo.GuildMemberAdd) {
		handler.HandleMemberUpdate(ctx, toMemberUpdate(event.Member))
	})

	client.Session.AddHandler(func(s *discordgo.Session, event *discordgo.GuildMemberUpdate) {
		if event.Member == nil || !rolesChanged(event.BeforeUpdate, event.Member) {
			return
		}
		handler.HandleMemberUpdate(ctx, toMemberUpdate(event.Member))
	})

	client.Session.AddHandler(func(s *discordgo.Session, event *discordgo.GuildMemberRemove) {
		handler.HandleMemberUpdate(ctx, toMemberUpdate(event.Member))
	})
}
