package usecase

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
	"github.com/ferdian3456/staffroster/internal/constant"
	"github.com/ferdian3456/staffroster/internal/model"
	"github.com/ferdian3456/staffroster/internal/observability"
	"github.com/ferdian3456/staffroster/internal/platform"
	"github.com/ferdian3456/staffroster/internal/repository"
	"go.uber.org/zap"
)

// SettingsUsecase handles the administrator configuration commands and
// the moderator control panel.
type SettingsUsecase struct {
	StateRepository *repository.StateRepository
	RosterUsecase   *RosterUsecase
	Platform        platform.Platform
	Log             *zap.Logger
}

func NewSettingsUsecase(stateRepository *repository.StateRepository, rosterUsecase *RosterUsecase, platform platform.Platform, zap *zap.Logger) *SettingsUsecase {
	return &SettingsUsecase{
		StateRepository: stateRepository,
		RosterUsecase:   rosterUsecase,
		Platform:        platform,
		Log:             zap,
	}
}

func (usecase *SettingsUsecase) SetStaffChannel(ctx context.Context, guildID snowflake.ID, caller model.Caller, channelID snowflake.ID) error {
	if !IsAdministrator(caller) {
		return model.NewAdministratorOnlyError()
	}

	_, err := usecase.StateRepository.Update(ctx, func(guild *model.Guild) error {
		guild.Config.StaffChannelId = model.IDPtr(channelID)
		return nil
	})
	if err != nil {
		return err
	}

	observability.WithContext(ctx, usecase.Log).Info("staff channel set", zap.String("channelId", channelID.String()))

	return usecase.RosterUsecase.Sync(ctx, guildID)
}

// SetModerationChannel stores the channel and posts the moderation panel
// in it.
func (usecase *SettingsUsecase) SetModerationChannel(ctx context.Context, guildID snowflake.ID, caller model.Caller, channelID snowflake.ID) error {
	if !IsAdministrator(caller) {
		return model.NewAdministratorOnlyError()
	}

	_, err := usecase.StateRepository.Update(ctx, func(guild *model.Guild) error {
		guild.Config.ModerationChannelId = model.IDPtr(channelID)
		return nil
	})
	if err != nil {
		return err
	}

	_, err = usecase.Platform.SendMessage(ctx, channelID, ModerationPanel())
	if err != nil {
		return err
	}

	observability.WithContext(ctx, usecase.Log).Info("moderation channel set", zap.String("channelId", channelID.String()))

	return nil
}

func (usecase *SettingsUsecase) SetLogChannel(ctx context.Context, guildID snowflake.ID, caller model.Caller, channelID snowflake.ID) error {
	if !IsAdministrator(caller) {
		return model.NewAdministratorOnlyError()
	}

	_, err := usecase.StateRepository.Update(ctx, func(guild *model.Guild) error {
		guild.Config.LogChannelId = model.IDPtr(channelID)
		return nil
	})
	if err != nil {
		return err
	}

	observability.WithContext(ctx, usecase.Log).Info("log channel set", zap.String("channelId", channelID.String()))

	return nil
}

func (usecase *SettingsUsecase) RefreshRoster(ctx context.Context, guildID snowflake.ID, caller model.Caller) error {
	err := usecase.requireModerator(ctx, caller)
	if err != nil {
		return err
	}

	return usecase.RosterUsecase.Sync(ctx, guildID)
}

// OpenControlPanel returns the admin menu shown behind the roster button.
func (usecase *SettingsUsecase) OpenControlPanel(ctx context.Context, caller model.Caller) (model.OutgoingMessage, error) {
	err := usecase.requireModerator(ctx, caller)
	if err != nil {
		return model.OutgoingMessage{}, err
	}

	return model.OutgoingMessage{
		Content: constant.ControlPanelPrompt,
		Buttons: []model.Button{
			{CustomId: constant.ButtonAddStaffRole, Label: "➕ Add role to the table", Style: model.ButtonSuccess},
			{CustomId: constant.ButtonAddModRole, Label: "👮 Add moderator role", Style: model.ButtonPrimary},
		},
	}, nil
}

func (usecase *SettingsUsecase) requireModerator(ctx context.Context, caller model.Caller) error {
	guild, err := usecase.StateRepository.Read(ctx)
	if err != nil {
		return err
	}

	if !IsModerator(caller, guild.State) {
		return model.NewNoAccessError()
	}

	return nil
}

func ModerationPanel() model.OutgoingMessage {
	return model.OutgoingMessage{
		Content: constant.ModerationTitle,
		Buttons: []model.Button{
			{CustomId: constant.ButtonIssueWarning, Label: "⚠️ + Warning", Style: model.ButtonDanger},
		},
	}
}
