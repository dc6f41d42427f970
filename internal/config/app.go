package config

import (
	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/ferdian3456/staffroster/internal/delivery/discord"
	http "github.com/ferdian3456/staffroster/internal/delivery/http"
	"github.com/ferdian3456/staffroster/internal/delivery/http/middleware"
	"github.com/ferdian3456/staffroster/internal/delivery/http/route"
	"github.com/ferdian3456/staffroster/internal/platform/discordapi"
	"github.com/ferdian3456/staffroster/internal/repository"
	"github.com/ferdian3456/staffroster/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

type BotConfig struct {
	Router  *fiber.App
	Session *discordgo.Session
	Store   repository.DocumentStore
	Flows   repository.FlowRepository
	GuildId snowflake.ID
	Log     *zap.Logger
	Config  *koanf.Koanf
}

// Bot holds the wired components the serve command drives.
type Bot struct {
	Client        *discordapi.Client
	Handler       *discord.Handler
	RosterUsecase *usecase.RosterUsecase
	FlowUsecase   *usecase.FlowUsecase
}

func NewBot(config *BotConfig) *Bot {
	client := discordapi.NewClient(config.Session, config.Config.String("DISCORD_APP_ID"), config.Log)

	stateRepository := repository.NewStateRepository(config.Log, config.Store)
	rosterUsecase := usecase.NewRosterUsecase(stateRepository, client, config.Log)
	moderationUsecase := usecase.NewModerationUsecase(stateRepository, rosterUsecase, config.Log)
	auditUsecase := usecase.NewAuditUsecase(stateRepository, client, config.Log, config.Config)
	settingsUsecase := usecase.NewSettingsUsecase(stateRepository, rosterUsecase, client, config.Log)
	flowUsecase := usecase.NewFlowUsecase(stateRepository, config.Flows, rosterUsecase, moderationUsecase, auditUsecase, client, config.Log, FlowTimeout(config.Config, config.Log))

	handler := discord.NewHandler(settingsUsecase, flowUsecase, rosterUsecase, client, config.Log, config.GuildId)

	if config.Router != nil {
		rosterController := http.NewRosterController(rosterUsecase, moderationUsecase, config.Log, config.GuildId)
		authMiddleware := middleware.NewAuthMiddleware(config.Log, config.Config)

		routeConfig := route.RouteConfig{
			App:              config.Router,
			AuthMiddleware:   authMiddleware,
			RateLimiter:      middleware.SetupRateLimiter(config.Log, config.Config.Int("HTTP_RATE_LIMIT")),
			RosterController: rosterController,
		}

		routeConfig.SetupRoute()
	}

	return &Bot{
		Client:        client,
		Handler:       handler,
		RosterUsecase: rosterUsecase,
		FlowUsecase:   flowUsecase,
	}
}
