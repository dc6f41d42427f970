package middleware

import (
	"github.com/ferdian3456/staffroster/internal/observability"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const loggerLocalKey = "logger"

// TraceLoggerMiddleware stores a request logger in the fiber locals. It
// carries the trace and span ids when otelfiber started a span.
func TraceLoggerMiddleware(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestLogger := observability.WithContext(c.UserContext(), logger).With(
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
		)

		c.Locals(loggerLocalKey, requestLogger)

		return c.Next()
	}
}

// GetLoggerFromContext returns the request logger, or fallback when
// TraceLoggerMiddleware did not run.
func GetLoggerFromContext(c *fiber.Ctx, fallback *zap.Logger) *zap.Logger {
	if logger, ok := c.Locals(loggerLocalKey).(*zap.Logger); ok && logger != nil {
		return logger
	}

	return fallback
}
