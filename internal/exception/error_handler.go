package exception

import (
	"fmt"

	"github.com/ferdian3456/staffroster/internal/constant"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func panicMessage(r interface{}) string {
	switch v := r.(type) {
	case error:
		return v.Error()
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

func Recovery(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic occurred and recovered", zap.String("error", panicMessage(r)), zap.String("path", c.Path()))

				_ = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": fiber.Map{
						"code":    constant.ERR_INTERNAL_SERVER_ERROR_CODE,
						"message": constant.ERR_INTENRAL_SERVER_ERROR_MESSAGE,
					},
				})
			}
		}()

		return c.Next()
	}
}

// RecoverEvent stops a panic in a gateway event handler from taking the
// bot down. Use it as `defer exception.RecoverEvent(log, "interaction")`.
func RecoverEvent(log *zap.Logger, event string) {
	if r := recover(); r != nil {
		log.Error("panic in event handler recovered", zap.String("event", event), zap.String("error", panicMessage(r)))
	}
}
