package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/ferdian3456/staffroster/internal/model"
	"github.com/ferdian3456/staffroster/internal/observability"
	"github.com/ferdian3456/staffroster/internal/platform"
	"github.com/ferdian3456/staffroster/internal/repository"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type RosterUsecase struct {
	StateRepository *repository.StateRepository
	Platform        platform.Platform
	Log             *zap.Logger

	// publishMu keeps publishes from racing each other with stale
	// snapshots.
	publishMu sync.Mutex
}

func NewRosterUsecase(stateRepository *repository.StateRepository, platform platform.Platform, zap *zap.Logger) *RosterUsecase {
	return &RosterUsecase{
		StateRepository: stateRepository,
		Platform:        platform,
		Log:             zap,
	}
}

// Membership resolves every role and groups the guild members by the
// roles they hold, with a single walk of the member list. Roles that no
// longer exist are left out of the result.
func (usecase *RosterUsecase) Membership(ctx context.Context, guildID snowflake.ID, roleIDs []snowflake.ID) (RoleMembership, error) {
	membership := make(RoleMembership, len(roleIDs))

	for _, roleId := range roleIDs {
		role, err := usecase.Platform.Role(ctx, guildID, roleId)
		if err != nil {
			if errors.Is(err, platform.ErrNotFound) {
				usecase.Log.Debug("tracked role no longer exists", zap.String("roleId", roleId.String()))
				continue
			}
			return nil, err
		}

		membership[roleId] = model.RoleMembers{Role: role}
	}

	if len(membership) == 0 {
		return membership, nil
	}

	members, err := usecase.Platform.GuildMembers(ctx, guildID)
	if err != nil {
		return nil, err
	}

	for _, member := range members {
		for _, roleId := range member.RoleIds {
			roleMembers, ok := membership[roleId]
			if !ok {
				continue
			}
			roleMembers.Members = append(roleMembers.Members, member.Member)
			membership[roleId] = roleMembers
		}
	}

	return membership, nil
}

// Preview projects the roster from the current state without persisting
// anything.
func (usecase *RosterUsecase) Preview(ctx context.Context, guildID snowflake.ID) (model.Projection, error) {
	guild, err := usecase.StateRepository.Read(ctx)
	if err != nil {
		return model.Projection{}, err
	}

	membership, err := usecase.Membership(ctx, guildID, guild.State.StaffRoles)
	if err != nil {
		return model.Projection{}, err
	}

	return ProjectRoster(guild.State.StaffRoles, membership, guild.State.Users), nil
}

// Sync projects the roster from freshly read state, persists counter
// records for members seen for the first time and publishes the result.
func (usecase *RosterUsecase) Sync(ctx context.Context, guildID snowflake.ID) error {
	ctx, span := tracer.Start(ctx, "RosterUsecase.Sync")
	defer span.End()

	log := observability.WithContext(ctx, usecase.Log)

	usecase.publishMu.Lock()
	defer usecase.publishMu.Unlock()

	guild, err := usecase.StateRepository.Read(ctx)
	if err != nil {
		return err
	}

	if guild.Config.StaffChannelId == nil {
		log.Debug("staff channel not configured, skipping roster sync")
		return nil
	}

	membership, err := usecase.Membership(ctx, guildID, guild.State.StaffRoles)
	if err != nil {
		return err
	}

	projection := ProjectRoster(guild.State.StaffRoles, membership, guild.State.Users)

	if len(projection.Materialized) > 0 {
		guild, err = usecase.StateRepository.Update(ctx, func(guild *model.Guild) error {
			for _, memberId := range projection.Materialized {
				if _, ok := guild.State.Users[memberId.String()]; !ok {
					guild.State.Users[memberId.String()] = model.CounterRecord{}
				}
			}
			return nil
		})
		if err != nil {
			return err
		}

		log.Info("materialized counter records", zap.Int("count", len(projection.Materialized)))
		projection = ProjectRoster(guild.State.StaffRoles, membership, guild.State.Users)
	}

	span.SetAttributes(attribute.Int("roster.rows", len(projection.Rows)))

	return usecase.publishLocked(ctx, guild.Config, projection.Rows)
}

// Publish reconciles rows with the roster message: edit it in place when
// it still exists, otherwise send a new one and remember its id.
func (usecase *RosterUsecase) Publish(ctx context.Context, guildID snowflake.ID, rows []model.RosterRow) error {
	ctx, span := tracer.Start(ctx, "RosterUsecase.Publish")
	defer span.End()

	usecase.publishMu.Lock()
	defer usecase.publishMu.Unlock()

	guild, err := usecase.StateRepository.Read(ctx)
	if err != nil {
		return err
	}

	return usecase.publishLocked(ctx, guild.Config, rows)
}

func (usecase *RosterUsecase) publishLocked(ctx context.Context, config model.GuildConfig, rows []model.RosterRow) error {
	log := observability.WithContext(ctx, usecase.Log)

	if config.StaffChannelId == nil {
		return nil
	}

	channelId := *config.StaffChannelId
	message := RenderRoster(rows)

	if config.StaffMessageId != nil {
		err := usecase.editRoster(ctx, channelId, *config.StaffMessageId, message)
		if err == nil {
			return nil
		}

		log.Warn("roster message edit failed, sending a new one",
			zap.String("channelId", channelId.String()),
			zap.String("messageId", config.StaffMessageId.String()),
			zap.Error(err))
	}

	messageId, err := usecase.Platform.SendMessage(ctx, channelId, message)
	if err != nil {
		return err
	}

	_, err = usecase.StateRepository.Update(ctx, func(guild *model.Guild) error {
		guild.Config.StaffMessageId = model.IDPtr(messageId)
		return nil
	})
	if err != nil {
		return err
	}

	log.Info("roster message published", zap.String("channelId", channelId.String()), zap.String("messageId", messageId.String()))

	return nil
}

func (usecase *RosterUsecase) editRoster(ctx context.Context, channelID snowflake.ID, messageID snowflake.ID, message model.OutgoingMessage) error {
	err := usecase.Platform.FetchMessage(ctx, channelID, messageID)
	if err != nil {
		return err
	}

	return usecase.Platform.EditMessage(ctx, channelID, messageID, message)
}
