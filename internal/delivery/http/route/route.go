package route

import (
	"github.com/ferdian3456/staffroster/internal/delivery/http"
	"github.com/ferdian3456/staffroster/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v2"
)

type RouteConfig struct {
	App              *fiber.App
	AuthMiddleware   *middleware.AuthMiddleware
	RateLimiter      fiber.Handler
	RosterController *http.RosterController
}

func (c *RouteConfig) SetupRoute() {
	api := c.App.Group("/api")
	if c.RateLimiter != nil {
		api.Use(c.RateLimiter)
	}

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	protected := api.Group("", c.AuthMiddleware.ProtectedRoute())
	protected.Get("/roster", c.RosterController.GetRoster)
	protected.Get("/members/:memberId", c.RosterController.GetMemberCounters)
}
