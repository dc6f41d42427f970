package discordapi

import (
	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/ferdian3456/staffroster/internal/model"
)

const embedColor = 0x5865F2

func embeds(embed *model.Embed) []*discordgo.MessageEmbed {
	if embed == nil {
		return nil
	}

	fields := make([]*discordgo.MessageEmbedField, 0, len(embed.Fields))
	for _, field := range embed.Fields {
		fields = append(fields, &discordgo.MessageEmbedField{Name: field.Name, Value: field.Value})
	}

	return []*discordgo.MessageEmbed{{
		Title:  embed.Title,
		Color:  embedColor,
		Fields: fields,
	}}
}

func buttonStyle(style model.ButtonStyle) discordgo.ButtonStyle {
	switch style {
	case model.ButtonPrimary:
		return discordgo.PrimaryButton
	case model.ButtonSuccess:
		return discordgo.SuccessButton
	case model.ButtonDanger:
		return discordgo.DangerButton
	default:
		return discordgo.SecondaryButton
	}
}

// components packs buttons into action rows of at most five.
func components(buttons []model.Button) []discordgo.MessageComponent {
	if len(buttons) == 0 {
		return nil
	}

	var rows []discordgo.MessageComponent
	for start := 0; start < len(buttons); start += 5 {
		end := min(start+5, len(buttons))

		row := discordgo.ActionsRow{}
		for _, button := range buttons[start:end] {
			row.Components = append(row.Components, discordgo.Button{
				CustomID: button.CustomId,
				Label:    button.Label,
				Style:    buttonStyle(button.Style),
			})
		}
		rows = append(rows, row)
	}

	return rows
}

func parseID(value string) snowflake.ID {
	id, err := snowflake.Parse(value)
	if err != nil {
		return 0
	}
	return id
}

func toCaller(interaction *discordgo.Interaction) model.Caller {
	if interaction.Member == nil || interaction.Member.User == nil {
		if interaction.User != nil {
			return model.Caller{Id: parseID(interaction.User.ID)}
		}
		return model.Caller{}
	}

	member := interaction.Member
	caller := model.Caller{
		Id:            parseID(member.User.ID),
		Administrator: member.Permissions&discordgo.PermissionAdministrator != 0,
	}
	caller.RoleIds = roleIDs(member.Roles)

	return caller
}

func roleIDs(roles []string) []snowflake.ID {
	var ids []snowflake.ID
	for _, role := range roles {
		if id := parseID(role); id != 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

// rolesChanged reports whether a member update touched the role set. An
// update without a cached previous state counts as changed.
func rolesChanged(before *discordgo.Member, after *discordgo.Member) bool {
	if before == nil || after == nil {
		return true
	}
	if len(before.Roles) != len(after.Roles) {
		return true
	}

	held := make(map[string]struct{}, len(before.Roles))
	for _, role := range before.Roles {
		held[role] = struct{}{}
	}
	for _, role := range after.Roles {
		if _, ok := held[role]; !ok {
			return true
		}
	}
	return false
}

// toInteraction returns false for interaction types the bot does not
// handle.
func toInteraction(interaction *discordgo.Interaction) (model.Interaction, bool) {
	result := model.Interaction{
		Id:        parseID(interaction.ID),
		Token:     interaction.Token,
		GuildId:   parseID(interaction.GuildID),
		ChannelId: parseID(interaction.ChannelID),
		Caller:    toCaller(interaction),
	}

	switch interaction.Type {
	case discordgo.InteractionApplicationCommand:
		result.Kind = model.InteractionCommand
		result.Name = interaction.ApplicationCommandData().Name
	case discordgo.InteractionMessageComponent:
		result.Kind = model.InteractionButton
		result.Name = interaction.MessageComponentData().CustomID
	default:
		return model.Interaction{}, false
	}

	return result, true
}

func toIncomingMessage(message *discordgo.Message) model.IncomingMessage {
	result := model.IncomingMessage{
		GuildId:   parseID(message.GuildID),
		ChannelId: parseID(message.ChannelID),
		Content:   message.Content,
	}
	if message.Author != nil {
		result.AuthorId = parseID(message.Author.ID)
		result.IsBot = message.Author.Bot
	}
	for _, user := range message.Mentions {
		if id := parseID(user.ID); id != 0 {
			result.Mentions = append(result.Mentions, id)
		}
	}

	return result
}

func toMemberUpdate(member *discordgo.Member) model.MemberUpdate {
	update := model.MemberUpdate{GuildId: parseID(member.GuildID)}
	if member.User != nil {
		update.MemberId = parseID(member.User.ID)
	}
	return update
}
