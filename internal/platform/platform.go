// Package platform describes what the roster engine needs from the chat
// platform. The discordapi subpackage implements it against the Discord API
// and platformtest provides an in-memory fake.
package platform

import (
	"context"
	"errors"

	"github.com/disgoorg/snowflake/v2"
	"github.com/ferdian3456/staffroster/internal/model"
)

// ErrNotFound marks a role, channel or message that no longer exists.
var ErrNotFound = errors.New("platform: not found")

type Platform interface {
	Role(ctx context.Context, guildID snowflake.ID, roleID snowflake.ID) (model.Role, error)
	// GuildMembers returns every guild member in platform order.
	GuildMembers(ctx context.Context, guildID snowflake.ID) ([]model.GuildMember, error)
	SendMessage(ctx context.Context, channelID snowflake.ID, message model.OutgoingMessage) (snowflake.ID, error)
	FetchMessage(ctx context.Context, channelID snowflake.ID, messageID snowflake.ID) error
	EditMessage(ctx context.Context, channelID snowflake.ID, messageID snowflake.ID, message model.OutgoingMessage) error
}

// Responder answers interactions privately to the caller.
type Responder interface {
	Respond(ctx context.Context, interaction model.Interaction, message model.OutgoingMessage) error
	// Defer acknowledges an interaction whose answer follows later through
	// FollowUp.
	Defer(ctx context.Context, interaction model.Interaction) error
	FollowUp(ctx context.Context, interactionToken string, message model.OutgoingMessage) error
}

// EventHandler receives platform events already converted to model types.
type EventHandler interface {
	HandleInteraction(ctx context.Context, interaction model.Interaction)
	HandleMessage(ctx context.Context, message model.IncomingMessage)
	HandleMemberUpdate(ctx context.Context, update model.MemberUpdate)
}
