// Package discordapi implements platform.Platform and platform.Responder
// on top of a discordgo session and turns gateway events into model
// events.
package discordapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/ferdian3456/staffroster/internal/model"
	"github.com/ferdian3456/staffroster/internal/platform"
	"go.uber.org/zap"
)

const membersPageSize = 1000

type Client struct {
	Session *discordgo.Session
	AppId   string
	Log     *zap.Logger
}

func NewClient(session *discordgo.Session, appID string, zap *zap.Logger) *Client {
	return &Client{
		Session: session,
		AppId:   appID,
		Log:     zap,
	}
}

var (
	_ platform.Platform  = (*Client)(nil)
	_ platform.Responder = (*Client)(nil)
)

// mapError turns a 404 from the REST API into platform.ErrNotFound.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
		return platform.ErrNotFound
	}

	return err
}

func (client *Client) Role(ctx context.Context, guildID snowflake.ID, roleID snowflake.ID) (model.Role, error) {
	role, err := client.Session.State.Role(guildID.String(), roleID.String())
	if err == nil {
		return model.Role{Id: roleID, Name: role.Name}, nil
	}

	roles, err := client.Session.GuildRoles(guildID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return model.Role{}, mapError(err)
	}

	for _, role := range roles {
		if role.ID == roleID.String() {
			return model.Role{Id: roleID, Name: role.Name}, nil
		}
	}

	return model.Role{}, platform.ErrNotFound
}

func (client *Client) GuildMembers(ctx context.Context, guildID snowflake.ID) ([]model.GuildMember, error) {
	var result []model.GuildMember
	after := ""
	for {
		page, err := client.Session.GuildMembers(guildID.String(), after, membersPageSize, discordgo.WithContext(ctx))
		if err != nil {
			return nil, mapError(err)
		}

		for _, member := range page {
			if member.User == nil {
				continue
			}

			id, err := snowflake.Parse(member.User.ID)
			if err != nil {
				continue
			}

			result = append(result, model.GuildMember{
				Member:  model.Member{Id: id, DisplayName: displayName(member)},
				RoleIds: roleIDs(member.Roles),
			})
		}

		if len(page) < membersPageSize || page[len(page)-1].User == nil {
			break
		}
		after = page[len(page)-1].User.ID
	}

	return result, nil
}

func (client *Client) SendMessage(ctx context.Context, channelID snowflake.ID, message model.OutgoingMessage) (snowflake.ID, error) {
	sent, err := client.Session.ChannelMessageSendComplex(channelID.String(), &discordgo.MessageSend{
		Content:    message.Content,
		Embeds:     embeds(message.Embed),
		Components: components(message.Buttons),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return 0, mapError(err)
	}

	id, err := snowflake.Parse(sent.ID)
	if err != nil {
		return 0, err
	}

	return id, nil
}

func (client *Client) FetchMessage(ctx context.Context, channelID snowflake.ID, messageID snowflake.ID) error {
	_, err := client.Session.ChannelMessage(channelID.String(), messageID.String(), discordgo.WithContext(ctx))
	return mapError(err)
}

func (client *Client) EditMessage(ctx context.Context, channelID snowflake.ID, messageID snowflake.ID, message model.OutgoingMessage) error {
	content := message.Content
	messageEmbeds := embeds(message.Embed)
	if messageEmbeds == nil {
		messageEmbeds = []*discordgo.MessageEmbed{}
	}
	messageComponents := components(message.Buttons)
	if messageComponents == nil {
		messageComponents = []discordgo.MessageComponent{}
	}

	edit := discordgo.NewMessageEdit(channelID.String(), messageID.String())
	edit.Content = &content
	edit.Embeds = &messageEmbeds
	edit.Components = &messageComponents

	_, err := client.Session.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx))
	return mapError(err)
}

func (client *Client) Respond(ctx context.Context, interaction model.Interaction, message model.OutgoingMessage) error {
	err := client.Session.InteractionRespond(&discordgo.Interaction{
		ID:    interaction.Id.String(),
		AppID: client.AppId,
		Token: interaction.Token,
	}, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    message.Content,
			Embeds:     embeds(message.Embed),
			Components: components(message.Buttons),
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	}, discordgo.WithContext(ctx))

	return mapError(err)
}

func (client *Client) Defer(ctx context.Context, interaction model.Interaction) error {
	err := client.Session.InteractionRespond(&discordgo.Interaction{
		ID:    interaction.Id.String(),
		AppID: client.AppId,
		Token: interaction.Token,
	}, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}, discordgo.WithContext(ctx))

	return mapError(err)
}

func (client *Client) FollowUp(ctx context.Context, interactionToken string, message model.OutgoingMessage) error {
	_, err := client.Session.FollowupMessageCreate(&discordgo.Interaction{
		AppID: client.AppId,
		Token: interactionToken,
	}, true, &discordgo.WebhookParams{
		Content:    message.Content,
		Embeds:     embeds(message.Embed),
		Components: components(message.Buttons),
		Flags:      discordgo.MessageFlagsEphemeral,
	}, discordgo.WithContext(ctx))

	return mapError(err)
}

func displayName(member *discordgo.Member) string {
	if member.Nick != "" {
		return member.Nick
	}
	if member.User.GlobalName != "" {
		return member.User.GlobalName
	}
	return member.User.Username
}
