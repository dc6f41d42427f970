package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ferdian3456/staffroster/internal/constant"
	"github.com/ferdian3456/staffroster/internal/model"
	"github.com/ferdian3456/staffroster/internal/observability"
	"github.com/ferdian3456/staffroster/internal/platform"
	"github.com/ferdian3456/staffroster/internal/repository"
	"github.com/ferdian3456/staffroster/internal/util"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// FlowUsecase runs the interactive flows. Begin moves a caller into
// AwaitingInput; HandleMessage routes the caller's next message in the
// same channel to that flow. Flows not answered before Timeout are
// abandoned without any mutation.
type FlowUsecase struct {
	StateRepository   *repository.StateRepository
	FlowRepository    repository.FlowRepository
	RosterUsecase     *RosterUsecase
	ModerationUsecase *ModerationUsecase
	AuditUsecase      *AuditUsecase
	Platform          platform.Platform
	Log               *zap.Logger
	Timeout           time.Duration
	Now               func() time.Time
}

func NewFlowUsecase(stateRepository *repository.StateRepository, flowRepository repository.FlowRepository, rosterUsecase *RosterUsecase, moderationUsecase *ModerationUsecase, auditUsecase *AuditUsecase, platform platform.Platform, zap *zap.Logger, timeout time.Duration) *FlowUsecase {
	if timeout <= 0 {
		timeout = constant.DefaultFlowTimeout
	}

	return &FlowUsecase{
		StateRepository:   stateRepository,
		FlowRepository:    flowRepository,
		RosterUsecase:     rosterUsecase,
		ModerationUsecase: moderationUsecase,
		AuditUsecase:      auditUsecase,
		Platform:          platform,
		Log:               zap,
		Timeout:           timeout,
		Now:               time.Now,
	}
}

func flowPrompt(kind model.FlowKind) string {
	switch kind {
	case model.FlowAddStaffRole:
		return "Send the **role ID**:"
	case model.FlowAddModeratorRole:
		return "Send the **moderator role ID**:"
	case model.FlowIssueWarning:
		return "Mention the member:"
	default:
		return ""
	}
}

// Begin checks that the caller may moderate and suspends a new flow for
// (guild, channel, caller). The returned prompt is meant for the caller
// only.
func (usecase *FlowUsecase) Begin(ctx context.Context, interaction model.Interaction, kind model.FlowKind) (model.Prompt, error) {
	guild, err := usecase.StateRepository.Read(ctx)
	if err != nil {
		return model.Prompt{}, err
	}

	if !IsModerator(interaction.Caller, guild.State) {
		return model.Prompt{}, model.NewNoAccessError()
	}

	now := usecase.Now()
	flow := model.PendingFlow{
		Id:               uuid.New(),
		Kind:             kind,
		State:            model.FlowAwaitingInput,
		GuildId:          interaction.GuildId,
		ChannelId:        interaction.ChannelId,
		CallerId:         interaction.Caller.Id,
		StartedAt:        now,
		ExpiresAt:        now.Add(usecase.Timeout),
		InteractionToken: interaction.Token,
	}

	err = usecase.FlowRepository.Put(ctx, flow)
	if err != nil {
		return model.Prompt{}, err
	}

	observability.WithContext(ctx, usecase.Log).Debug("flow awaiting input",
		zap.String("flowId", flow.Id.String()),
		zap.String("kind", string(kind)),
		zap.String("callerId", flow.CallerId.String()))

	return model.Prompt{Text: flowPrompt(kind)}, nil
}

// HandleMessage resolves the flow pending for the message author in the
// message channel. It returns nil, nil when no flow is waiting. Whenever
// a flow was consumed the outcome is returned, also together with an
// error when the input was rejected or the mutation failed.
func (usecase *FlowUsecase) HandleMessage(ctx context.Context, message model.IncomingMessage) (*model.FlowOutcome, error) {
	if message.IsBot {
		return nil, nil
	}

	flow, ok, err := usecase.FlowRepository.Take(ctx, model.FlowKey{
		GuildId:   message.GuildId,
		ChannelId: message.ChannelId,
		CallerId:  message.AuthorId,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	ctx, span := tracer.Start(ctx, "FlowUsecase.HandleMessage")
	defer span.End()
	span.SetAttributes(attribute.String("flow.kind", string(flow.Kind)))

	log := observability.WithContext(ctx, usecase.Log).With(zap.String("flowId", flow.Id.String()), zap.String("kind", string(flow.Kind)))

	if flow.Expired(usecase.Now()) {
		log.Info("flow abandoned after timeout")
		flow.State = model.FlowAbandoned
		return &model.FlowOutcome{Flow: flow, State: flow.State}, nil
	}

	var text string
	switch flow.Kind {
	case model.FlowAddStaffRole:
		text, err = usecase.addStaffRole(ctx, flow, message)
	case model.FlowAddModeratorRole:
		text, err = usecase.addModeratorRole(ctx, flow, message)
	case model.FlowIssueWarning:
		text, err = usecase.issueWarning(ctx, flow, message)
	default:
		err = fmt.Errorf("unknown flow kind %q", flow.Kind)
	}

	flow.State = model.FlowResolved
	outcome := &model.FlowOutcome{Flow: flow, State: flow.State, Message: text}
	if err != nil {
		log.Info("flow input rejected", zap.Error(err))
		return outcome, err
	}

	log.Info("flow resolved")
	return outcome, nil
}

func (usecase *FlowUsecase) resolveRole(ctx context.Context, flow model.PendingFlow, content string) (model.Role, error) {
	roleId, ok := util.ParseRoleID(content)
	if !ok {
		return model.Role{}, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Role id must be a number",
			Param:   "roleId",
		}
	}

	role, err := usecase.Platform.Role(ctx, flow.GuildId, roleId)
	if err != nil {
		if errors.Is(err, platform.ErrNotFound) {
			return model.Role{}, &model.ValidationError{
				Code:    constant.ERR_VALIDATION_CODE,
				Message: "Role is not found",
				Param:   "roleId",
			}
		}
		return model.Role{}, err
	}

	return role, nil
}

func (usecase *FlowUsecase) addStaffRole(ctx context.Context, flow model.PendingFlow, message model.IncomingMessage) (string, error) {
	role, err := usecase.resolveRole(ctx, flow, message.Content)
	if err != nil {
		return "", err
	}

	_, err = usecase.StateRepository.Update(ctx, func(guild *model.Guild) error {
		if guild.State.IsStaffRole(role.Id) {
			return &model.ValidationError{
				Code:    constant.ERR_VALIDATION_CODE,
				Message: "Role is already in the staff table",
				Param:   "roleId",
			}
		}
		guild.State.StaffRoles = append(guild.State.StaffRoles, role.Id)
		return nil
	})
	if err != nil {
		return "", err
	}

	err = usecase.RosterUsecase.Sync(ctx, flow.GuildId)
	if err != nil {
		usecase.Log.Error("failed to republish roster after adding role", zap.Error(err))
	}

	usecase.AuditUsecase.Emit(ctx, flow.GuildId, fmt.Sprintf("➕ Added role **%s** to the staff table", role.Name))

	return fmt.Sprintf("✅ Role **%s** added to the staff table", role.Name), nil
}

func (usecase *FlowUsecase) addModeratorRole(ctx context.Context, flow model.PendingFlow, message model.IncomingMessage) (string, error) {
	role, err := usecase.resolveRole(ctx, flow, message.Content)
	if err != nil {
		return "", err
	}

	_, err = usecase.StateRepository.Update(ctx, func(guild *model.Guild) error {
		if guild.State.IsModeratorRole(role.Id) {
			return &model.ValidationError{
				Code:    constant.ERR_VALIDATION_CODE,
				Message: "Role is already a moderator role",
				Param:   "roleId",
			}
		}
		guild.State.ModeratorRoles = append(guild.State.ModeratorRoles, role.Id)
		return nil
	})
	if err != nil {
		return "", err
	}

	usecase.AuditUsecase.Emit(ctx, flow.GuildId, fmt.Sprintf("👮 Role **%s** is now a moderator role", role.Name))

	return fmt.Sprintf("✅ Role **%s** is now a moderator role", role.Name), nil
}

func (usecase *FlowUsecase) issueWarning(ctx context.Context, flow model.PendingFlow, message model.IncomingMessage) (string, error) {
	if len(message.Mentions) == 0 {
		return "", &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Mention the member to warn",
			Param:   "member",
		}
	}

	target := message.Mentions[0]

	count, err := usecase.ModerationUsecase.IncrementWarn(ctx, flow.GuildId, target)
	if err != nil {
		return "", err
	}

	usecase.AuditUsecase.Emit(ctx, flow.GuildId, fmt.Sprintf("⚠️ %s received a warning from %s", model.Mention(target), model.Mention(flow.CallerId)))

	return fmt.Sprintf("✅ Warning issued to %s (%d/%d)", model.Mention(target), count, constant.WarnCeiling), nil
}

// SweepExpired abandons every flow past its deadline and reports how many
// were dropped.
func (usecase *FlowUsecase) SweepExpired(ctx context.Context) int {
	expired, err := usecase.FlowRepository.Expire(ctx, usecase.Now())
	if err != nil {
		usecase.Log.Warn("failed to sweep expired flows", zap.Error(err))
		return 0
	}

	for _, flow := range expired {
		usecase.Log.Info("flow abandoned after timeout",
			zap.String("flowId", flow.Id.String()),
			zap.String("kind", string(flow.Kind)),
			zap.String("callerId", flow.CallerId.String()))
	}

	return len(expired)
}

// RunSweeper calls SweepExpired every interval until ctx is done.
func (usecase *FlowUsecase) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			usecase.SweepExpired(ctx)
		}
	}
}
