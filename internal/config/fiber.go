package config

import (
	"errors"
	"time"

	"github.com/bytedance/sonic"
	"github.com/ferdian3456/staffroster/internal/constant"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// NewFiber builds the ops API app. It only serves small JSON reads, so
// body and buffer limits are tight.
func NewFiber(log *zap.Logger) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:               "staffroster",
		BodyLimit:             16 * 1024,
		ReadBufferSize:        4096,
		WriteBufferSize:       4096,
		Concurrency:           256,
		IdleTimeout:           30 * time.Second,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		DisableStartupMessage: true,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ErrorHandler:          errorHandler(log),
	})
}

// errorHandler renders errors that escaped a handler, such as unknown
// routes, in the same envelope as the controllers.
func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code := constant.ERR_VALIDATION_CODE
			if fiberErr.Code == fiber.StatusNotFound {
				code = constant.ERR_NOT_FOUND_ERROR
			}

			return ctx.Status(fiberErr.Code).JSON(fiber.Map{
				"error": fiber.Map{
					"code":    code,
					"message": fiberErr.Message,
				},
			})
		}

		log.Error("unhandled ops api error", zap.String("path", ctx.Path()), zap.Error(err))

		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    constant.ERR_INTERNAL_SERVER_ERROR_CODE,
				"message": constant.ERR_INTENRAL_SERVER_ERROR_MESSAGE,
			},
		})
	}
}
