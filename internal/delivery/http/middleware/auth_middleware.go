package middleware

import (
	"errors"

	"github.com/ferdian3456/staffroster/internal/model"
	"github.com/ferdian3456/staffroster/internal/util"

	"github.com/gofiber/fiber/v2"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

type AuthMiddleware struct {
	Log    *zap.Logger
	Config *koanf.Koanf
}

func NewAuthMiddleware(zap *zap.Logger, koanf *koanf.Koanf) *AuthMiddleware {
	return &AuthMiddleware{
		Log:    zap,
		Config: koanf,
	}
}

func (middleware *AuthMiddleware) ProtectedRoute() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		var validationErr *model.ValidationError

		accessToken := ctx.Get("Authorization")
		subject, err := util.ValidateAccessToken(accessToken, middleware.Log, middleware.Config.String("JWT_SECRET_KEY"))
		if err != nil {
			if errors.As(err, &validationErr) {
				return util.SendErrorResponseUnauthorized(ctx, err)
			}

			return util.SendErrorResponseInternalServer(ctx, middleware.Log, err)
		}

		ctx.Locals("subject", subject)

		middleware.Log.Debug("ops api request authorized", zap.String("subject", subject), zap.String("path", ctx.Path()))

		return ctx.Next()
	}
}
