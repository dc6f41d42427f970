package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ferdian3456/staffroster/internal/constant"
	"github.com/ferdian3456/staffroster/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncWithoutStaffChannelIsNoop(t *testing.T) {
	f := newFixture(t)
	f.platform.AddRole(staffRoleID, "Staff", member(memberID, "m"))
	f.configure(t, func(guild *model.Guild) {
		guild.State.StaffRoles = append(guild.State.StaffRoles, staffRoleID)
	})
	stateSaves := f.store.Saves(constant.DocumentState)

	require.NoError(t, f.roster.Sync(context.Background(), guildID))

	assert.Zero(t, f.platform.Sends)
	assert.Equal(t, stateSaves, f.store.Saves(constant.DocumentState))
	assert.Zero(t, f.store.Saves(constant.DocumentConfig))
}

func TestSyncPublishesAndRemembersMessage(t *testing.T) {
	f := newFixture(t)
	f.withStaffTable(t, member(memberID, "m"))

	require.NoError(t, f.roster.Sync(context.Background(), guildID))

	sent := f.platform.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, staffChannelID, sent[0].ChannelId)

	guild := f.read(t)
	require.NotNil(t, guild.Config.StaffMessageId)
	assert.Equal(t, sent[0].MessageId, *guild.Config.StaffMessageId)

	message, ok := f.platform.Message(staffChannelID, sent[0].MessageId)
	require.True(t, ok)
	require.Len(t, message.Embed.Fields, 1)
	assert.Equal(t, "Staff", message.Embed.Fields[0].Name)
	assert.Equal(t, "• <@102> — 0/2 — 0/3\n", message.Embed.Fields[0].Value)
}

func TestSyncIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.withStaffTable(t, member(memberID, "m"))
	ctx := context.Background()

	require.NoError(t, f.roster.Sync(ctx, guildID))
	first := f.read(t)
	configSaves := f.store.Saves(constant.DocumentConfig)
	stateSaves := f.store.Saves(constant.DocumentState)

	require.NoError(t, f.roster.Sync(ctx, guildID))

	assert.Equal(t, 1, f.platform.Sends, "the second publish edits in place")
	assert.Equal(t, 1, f.platform.Edits)
	assert.Len(t, f.platform.Messages(staffChannelID), 1)
	assert.Equal(t, configSaves, f.store.Saves(constant.DocumentConfig))
	assert.Equal(t, stateSaves, f.store.Saves(constant.DocumentState))
	assert.Equal(t, first, f.read(t))
}

func TestSyncRecreatesDeletedMessage(t *testing.T) {
	f := newFixture(t)
	f.withStaffTable(t, member(memberID, "m"))
	ctx := context.Background()

	require.NoError(t, f.roster.Sync(ctx, guildID))
	oldId := *f.read(t).Config.StaffMessageId
	f.platform.DeleteMessage(staffChannelID, oldId)

	require.NoError(t, f.roster.Sync(ctx, guildID))

	newId := f.read(t).Config.StaffMessageId
	require.NotNil(t, newId)
	assert.NotEqual(t, oldId, *newId)
	assert.Equal(t, 2, f.platform.Sends)
	_, ok := f.platform.Message(staffChannelID, *newId)
	assert.True(t, ok)
}

func TestPublishFallsBackToSendWhenEditFails(t *testing.T) {
	f := newFixture(t)
	f.withStaffTable(t, member(memberID, "m"))
	ctx := context.Background()

	require.NoError(t, f.roster.Sync(ctx, guildID))
	f.platform.EditErr = errors.New("missing permissions")

	require.NoError(t, f.roster.Publish(ctx, guildID, nil))

	assert.Equal(t, 2, f.platform.Sends)
	assert.Equal(t, f.platform.Sent()[1].MessageId, *f.read(t).Config.StaffMessageId)
}

func TestSyncSendFailureIsReturned(t *testing.T) {
	f := newFixture(t)
	f.withStaffTable(t, member(memberID, "m"))
	f.platform.SendErr = errors.New("gateway down")

	err := f.roster.Sync(context.Background(), guildID)

	require.Error(t, err)
	assert.Nil(t, f.read(t).Config.StaffMessageId)
}

func TestSyncMaterializesCounterRecordsOnce(t *testing.T) {
	f := newFixture(t)
	f.withStaffTable(t, member(memberID, "m"), member(adminID, "a"))
	ctx := context.Background()
	stateSaves := f.store.Saves(constant.DocumentState)

	require.NoError(t, f.roster.Sync(ctx, guildID))

	users := f.read(t).State.Users
	assert.Equal(t, model.CounterRecord{}, users[memberID.String()])
	assert.Equal(t, model.CounterRecord{}, users[adminID.String()])
	assert.Equal(t, stateSaves+1, f.store.Saves(constant.DocumentState), "both records land in one save")

	require.NoError(t, f.roster.Sync(ctx, guildID))
	assert.Equal(t, stateSaves+1, f.store.Saves(constant.DocumentState))
}

func TestSyncShowsVacantRole(t *testing.T) {
	f := newFixture(t)
	f.withStaffTable(t)

	require.NoError(t, f.roster.Sync(context.Background(), guildID))

	message := f.platform.Sent()[0].Message
	require.Len(t, message.Embed.Fields, 1)
	assert.Equal(t, constant.RosterVacantMarker, message.Embed.Fields[0].Value)
}

func TestSyncToleratesDeletedRole(t *testing.T) {
	f := newFixture(t)
	f.withStaffTable(t, member(memberID, "m"))
	f.platform.AddRole(helperRoleID, "Helpers", member(adminID, "a"))
	f.configure(t, func(guild *model.Guild) {
		guild.State.StaffRoles = append(guild.State.StaffRoles, helperRoleID)
	})
	f.platform.DeleteRole(staffRoleID)

	require.NoError(t, f.roster.Sync(context.Background(), guildID))

	message := f.platform.Sent()[0].Message
	require.Len(t, message.Embed.Fields, 1)
	assert.Equal(t, "Helpers", message.Embed.Fields[0].Name)
	assert.Contains(t, f.read(t).State.StaffRoles, staffRoleID, "deleted roles stay tracked")
}

func TestPreviewDoesNotPersist(t *testing.T) {
	f := newFixture(t)
	f.withStaffTable(t, member(memberID, "m"))
	stateSaves := f.store.Saves(constant.DocumentState)

	projection, err := f.roster.Preview(context.Background(), guildID)
	require.NoError(t, err)

	assert.Equal(t, member(memberID, "m"), projection.Rows[0].Lines[0].Member)
	assert.NotEmpty(t, projection.Materialized)
	assert.Equal(t, stateSaves, f.store.Saves(constant.DocumentState))
	assert.Zero(t, f.platform.Sends)
}

func TestSyncWalksGuildMembersOnce(t *testing.T) {
	f := newFixture(t)
	f.withStaffTable(t, member(memberID, "m"), member(adminID, "a"))
	f.platform.AddRole(helperRoleID, "Helpers", member(adminID, "a"), member(outsiderID, "o"))
	f.configure(t, func(guild *model.Guild) {
		guild.State.StaffRoles = append(guild.State.StaffRoles, helperRoleID, moderatorRoleID)
	})

	require.NoError(t, f.roster.Sync(context.Background(), guildID))

	assert.Equal(t, 1, f.platform.GuildMemberWalks)

	message := f.platform.Sent()[0].Message
	require.Len(t, message.Embed.Fields, 3)
	assert.Equal(t, "• <@102> — 0/2 — 0/3\n• <@100> — 0/2 — 0/3\n", message.Embed.Fields[0].Value)
	assert.Equal(t, "• <@100> — 0/2 — 0/3\n• <@103> — 0/2 — 0/3\n", message.Embed.Fields[1].Value)
	assert.Equal(t, constant.RosterVacantMarker, message.Embed.Fields[2].Value)
}

func TestSyncSkipsMemberWalkWithoutLiveRoles(t *testing.T) {
	f := newFixture(t)
	f.withStaffTable(t, member(memberID, "m"))
	f.platform.DeleteRole(staffRoleID)

	require.NoError(t, f.roster.Sync(context.Background(), guildID))

	assert.Zero(t, f.platform.GuildMemberWalks)
	assert.Empty(t, f.platform.Sent()[0].Message.Embed.Fields)
}

func TestEndToEndWarningUpdatesRoster(t *testing.T) {
	f := newFixture(t)
	f.withStaffTable(t, member(memberID, "m"))
	f.configure(t, func(guild *model.Guild) {
		guild.Config.LogChannelId = model.IDPtr(logChannelID)
	})
	ctx := context.Background()

	require.NoError(t, f.roster.Sync(ctx, guildID))
	messageId := *f.read(t).Config.StaffMessageId
	sends := f.platform.Sends

	_, err := f.flow.Begin(ctx, interactionFrom(moderator), model.FlowIssueWarning)
	require.NoError(t, err)
	outcome, err := f.flow.HandleMessage(ctx, messageFrom(moderatorID, "<@"+memberID.String()+">", memberID))
	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.Equal(t, "✅ Warning issued to <@102> (1/2)", outcome.Message)

	var audits []string
	for _, sent := range f.platform.Sent() {
		if sent.ChannelId == logChannelID {
			audits = append(audits, sent.Message.Content)
		}
	}
	require.Len(t, audits, 1)
	assert.Contains(t, audits[0], model.Mention(memberID))

	guild := f.read(t)
	require.NotNil(t, guild.Config.StaffMessageId)
	assert.Equal(t, messageId, *guild.Config.StaffMessageId)

	message, ok := f.platform.Message(staffChannelID, messageId)
	require.True(t, ok)
	assert.Equal(t, "• <@102> — 1/2 — 0/3\n", message.Embed.Fields[0].Value)
	assert.Equal(t, sends+1, f.platform.Sends, "only the audit entry is sent, the roster is edited")
	assert.Len(t, f.platform.Messages(staffChannelID), 1)
}
