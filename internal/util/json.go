package util

import (
	"github.com/ferdian3456/staffroster/internal/constant"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func SendSuccessResponseWithData(ctx *fiber.Ctx, data interface{}) error {
	return ctx.Status(fiber.StatusOK).JSON(data)
}

// sendError wraps err in the {"error": ...} envelope every failed ops
// API response uses.
func sendError(ctx *fiber.Ctx, status int, err interface{}) error {
	return ctx.Status(status).JSON(fiber.Map{
		"error": err,
	})
}

func SendErrorResponse(ctx *fiber.Ctx, err error) error {
	return sendError(ctx, fiber.StatusBadRequest, err)
}

func SendErrorResponseUnauthorized(ctx *fiber.Ctx, err error) error {
	return sendError(ctx, fiber.StatusUnauthorized, err)
}

func SendErrorResponseNotFound(ctx *fiber.Ctx, err error) error {
	return sendError(ctx, fiber.StatusNotFound, err)
}

// SendErrorResponseInternalServer logs err and answers with a generic
// message so internals never leak to the client.
func SendErrorResponseInternalServer(ctx *fiber.Ctx, log *zap.Logger, err error) error {
	log.Error("internal server error occured", zap.String("path", ctx.Path()), zap.Error(err))

	return sendError(ctx, fiber.StatusInternalServerError, fiber.Map{
		"code":    constant.ERR_INTERNAL_SERVER_ERROR_CODE,
		"message": constant.ERR_INTENRAL_SERVER_ERROR_MESSAGE,
	})
}
