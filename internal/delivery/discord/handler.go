// Package discord routes platform events to the usecases and answers the
// caller privately.
package discord

import (
	"context"
	"errors"

	"github.com/disgoorg/snowflake/v2"
	"github.com/ferdian3456/staffroster/internal/constant"
	"github.com/ferdian3456/staffroster/internal/exception"
	"github.com/ferdian3456/staffroster/internal/model"
	"github.com/ferdian3456/staffroster/internal/observability"
	"github.com/ferdian3456/staffroster/internal/platform"
	"github.com/ferdian3456/staffroster/internal/usecase"
	"go.uber.org/zap"
)

const (
	replyStaffChannelSet      = "✅ Staff channel set"
	replyModerationChannelSet = "✅ Moderation channel set"
	replyLogChannelSet        = "✅ Log channel set"
	replyRosterRefreshed      = "✅ Staff table refreshed"
	replyFlowTimedOut         = "⌛ Time is up, press the button again"
	replyUnknownAction        = "❌ Unknown action"
	replyUnexpectedFailure    = "❌ Something went wrong, please try again later"
)

type Handler struct {
	SettingsUsecase *usecase.SettingsUsecase
	FlowUsecase     *usecase.FlowUsecase
	RosterUsecase   *usecase.RosterUsecase
	Responder       platform.Responder
	Log             *zap.Logger

	// GuildId restricts the handler to one guild. Zero accepts every guild.
	GuildId snowflake.ID
}

func NewHandler(settingsUsecase *usecase.SettingsUsecase, flowUsecase *usecase.FlowUsecase, rosterUsecase *usecase.RosterUsecase, responder platform.Responder, zap *zap.Logger, guildID snowflake.ID) *Handler {
	return &Handler{
		SettingsUsecase: settingsUsecase,
		FlowUsecase:     flowUsecase,
		RosterUsecase:   rosterUsecase,
		Responder:       responder,
		Log:             zap,
		GuildId:         guildID,
	}
}

var _ platform.EventHandler = (*Handler)(nil)

func (handler *Handler) accepts(guildID snowflake.ID) bool {
	return handler.GuildId == 0 || handler.GuildId == guildID
}

func (handler *Handler) HandleInteraction(ctx context.Context, interaction model.Interaction) {
	defer exception.RecoverEvent(handler.Log, "interaction")

	if !handler.accepts(interaction.GuildId) {
		return
	}

	log := observability.WithContext(ctx, handler.Log).With(
		zap.String("interaction", interaction.Name),
		zap.String("callerId", interaction.Caller.Id.String()),
	)

	deferred := false
	if syncsRoster(interaction) {
		err := handler.Responder.Defer(ctx, interaction)
		if err != nil {
			log.Warn("failed to defer interaction", zap.Error(err))
		} else {
			deferred = true
		}
	}

	reply, err := handler.dispatch(ctx, interaction)
	if err != nil {
		reply = model.OutgoingMessage{Content: failureMessage(log, err)}
	}

	if deferred {
		err = handler.Responder.FollowUp(ctx, interaction.Token, reply)
	} else {
		err = handler.Responder.Respond(ctx, interaction, reply)
	}
	if err != nil {
		log.Warn("failed to answer interaction", zap.Error(err))
	}
}

// syncsRoster reports whether answering the interaction walks the guild
// members, which can outlast the platform's response window.
func syncsRoster(interaction model.Interaction) bool {
	if interaction.Kind != model.InteractionCommand {
		return false
	}
	return interaction.Name == constant.CommandSetStaffChannel || interaction.Name == constant.CommandRefreshStaffTable
}

func (handler *Handler) dispatch(ctx context.Context, interaction model.Interaction) (model.OutgoingMessage, error) {
	caller := interaction.Caller

	switch interaction.Kind {
	case model.InteractionCommand:
		switch interaction.Name {
		case constant.CommandSetStaffChannel:
			err := handler.SettingsUsecase.SetStaffChannel(ctx, interaction.GuildId, caller, interaction.ChannelId)
			return textReply(replyStaffChannelSet), err
		case constant.CommandSetModerationChannel:
			err := handler.SettingsUsecase.SetModerationChannel(ctx, interaction.GuildId, caller, interaction.ChannelId)
			return textReply(replyModerationChannelSet), err
		case constant.CommandSetLogChannel:
			err := handler.SettingsUsecase.SetLogChannel(ctx, interaction.GuildId, caller, interaction.ChannelId)
			return textReply(replyLogChannelSet), err
		case constant.CommandRefreshStaffTable:
			err := handler.SettingsUsecase.RefreshRoster(ctx, interaction.GuildId, caller)
			return textReply(replyRosterRefreshed), err
		}
	case model.InteractionButton:
		switch interaction.Name {
		case constant.ButtonControlPanel:
			return handler.SettingsUsecase.OpenControlPanel(ctx, caller)
		case constant.ButtonAddStaffRole:
			return handler.beginFlow(ctx, interaction, model.FlowAddStaffRole)
		case constant.ButtonAddModRole:
			return handler.beginFlow(ctx, interaction, model.FlowAddModeratorRole)
		case constant.ButtonIssueWarning:
			return handler.beginFlow(ctx, interaction, model.FlowIssueWarning)
		}
	}

	return textReply(replyUnknownAction), nil
}

func (handler *Handler) beginFlow(ctx context.Context, interaction model.Interaction, kind model.FlowKind) (model.OutgoingMessage, error) {
	prompt, err := handler.FlowUsecase.Begin(ctx, interaction, kind)
	if err != nil {
		return model.OutgoingMessage{}, err
	}

	return textReply(prompt.Text), nil
}

// HandleMessage feeds channel messages to pending flows and reports the
// result to the flow owner through the interaction follow-up.
func (handler *Handler) HandleMessage(ctx context.Context, message model.IncomingMessage) {
	defer exception.RecoverEvent(handler.Log, "message")

	if message.IsBot || !handler.accepts(message.GuildId) {
		return
	}

	log := observability.WithContext(ctx, handler.Log).With(zap.String("authorId", message.AuthorId.String()))

	outcome, err := handler.FlowUsecase.HandleMessage(ctx, message)
	if outcome == nil {
		if err != nil {
			log.Warn("failed to look up pending flow", zap.Error(err))
		}
		return
	}

	var text string
	switch {
	case err != nil:
		text = failureMessage(log, err)
	case outcome.State == model.FlowAbandoned:
		text = replyFlowTimedOut
	default:
		text = outcome.Message
	}

	if text == "" || outcome.Flow.InteractionToken == "" {
		return
	}

	err = handler.Responder.FollowUp(ctx, outcome.Flow.InteractionToken, textReply(text))
	if err != nil {
		log.Warn("failed to send flow follow-up", zap.String("flowId", outcome.Flow.Id.String()), zap.Error(err))
	}
}

// HandleMemberUpdate re-syncs the roster after a membership change.
func (handler *Handler) HandleMemberUpdate(ctx context.Context, update model.MemberUpdate) {
	defer exception.RecoverEvent(handler.Log, "member_update")

	if !handler.accepts(update.GuildId) {
		return
	}

	err := handler.RosterUsecase.Sync(ctx, update.GuildId)
	if err != nil {
		observability.WithContext(ctx, handler.Log).Warn("failed to sync roster after member update",
			zap.String("memberId", update.MemberId.String()),
			zap.Error(err))
	}
}

func textReply(text string) model.OutgoingMessage {
	return model.OutgoingMessage{Content: text}
}

// failureMessage turns an error into the text shown to the caller.
func failureMessage(log *zap.Logger, err error) string {
	var unauthorizedErr *model.UnauthorizedError
	var validationErr *model.ValidationError
	var storeErr *model.StoreError

	switch {
	case errors.As(err, &unauthorizedErr):
		return unauthorizedErr.Message
	case errors.As(err, &validationErr):
		return "❌ " + validationErr.Message
	case errors.As(err, &storeErr):
		log.Error("store failure", zap.String("code", storeErr.Code), zap.String("key", storeErr.Key), zap.Error(err))
		return constant.ERR_STORE_FAILURE_MESSAGE
	default:
		log.Error("interaction failed", zap.Error(err))
		return replyUnexpectedFailure
	}
}
