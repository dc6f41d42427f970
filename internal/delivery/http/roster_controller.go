package http

import (
	"github.com/disgoorg/snowflake/v2"
	"github.com/ferdian3456/staffroster/internal/constant"
	"github.com/ferdian3456/staffroster/internal/middleware"
	"github.com/ferdian3456/staffroster/internal/model"
	"github.com/ferdian3456/staffroster/internal/usecase"
	"github.com/ferdian3456/staffroster/internal/util"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RosterController exposes read-only views of the roster and the
// moderation ledger.
type RosterController struct {
	RosterUsecase     *usecase.RosterUsecase
	ModerationUsecase *usecase.ModerationUsecase
	Log               *zap.Logger
	GuildId           snowflake.ID
}

func NewRosterController(rosterUsecase *usecase.RosterUsecase, moderationUsecase *usecase.ModerationUsecase, zap *zap.Logger, guildID snowflake.ID) *RosterController {
	return &RosterController{
		RosterUsecase:     rosterUsecase,
		ModerationUsecase: moderationUsecase,
		Log:               zap,
		GuildId:           guildID,
	}
}

func (controller RosterController) GetRoster(ctx *fiber.Ctx) error {
	log := middleware.GetLoggerFromContext(ctx, controller.Log)

	projection, err := controller.RosterUsecase.Preview(ctx.UserContext(), controller.GuildId)
	if err != nil {
		return util.SendErrorResponseInternalServer(ctx, log, err)
	}

	response := model.RosterResponse{
		GuildId: controller.GuildId.String(),
		Rows:    make([]model.RosterRowResponse, 0, len(projection.Rows)),
	}

	for _, row := range projection.Rows {
		rowResponse := model.RosterRowResponse{
			RoleId:   row.Role.Id.String(),
			RoleName: row.Role.Name,
			Vacant:   row.Vacant,
			Members:  make([]model.RosterLineResponse, 0, len(row.Lines)),
		}

		for _, line := range row.Lines {
			rowResponse.Members = append(rowResponse.Members, model.RosterLineResponse{
				MemberId: line.Member.Id.String(),
				Name:     line.Member.DisplayName,
				Warn:     line.Warn,
				Strike:   line.Strike,
			})
		}

		response.Rows = append(response.Rows, rowResponse)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller RosterController) GetMemberCounters(ctx *fiber.Ctx) error {
	log := middleware.GetLoggerFromContext(ctx, controller.Log)

	memberId, ok := util.ParseID(ctx.Params("memberId"))
	if !ok {
		return util.SendErrorResponse(ctx, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Member id must be a number",
			Param:   "memberId",
		})
	}

	record, found, err := controller.ModerationUsecase.Counters(ctx.UserContext(), memberId)
	if err != nil {
		return util.SendErrorResponseInternalServer(ctx, log, err)
	}

	if !found {
		return util.SendErrorResponseNotFound(ctx, &model.ValidationError{
			Code:    constant.ERR_NOT_FOUND_ERROR,
			Message: "Member has no moderation record",
			Param:   "memberId",
		})
	}

	return util.SendSuccessResponseWithData(ctx, model.MemberCountersResponse{
		MemberId:      memberId.String(),
		Warn:          record.Warn,
		Strike:        record.Strike,
		WarnCeiling:   constant.WarnCeiling,
		StrikeCeiling: constant.StrikeCeiling,
	})
}
