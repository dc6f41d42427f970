package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ferdian3456/staffroster/internal/config"
	"github.com/ferdian3456/staffroster/internal/constant"
	"github.com/ferdian3456/staffroster/internal/exception"
	"github.com/ferdian3456/staffroster/internal/middleware"
	"github.com/ferdian3456/staffroster/internal/observability"
	"github.com/ferdian3456/staffroster/internal/util"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "serve",
		Short:         "Connect to Discord and serve the ops API",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(rootOpts)
		},
	}
}

func serve(opts *RootOptions) error {
	time.Local = time.UTC

	bootLog := config.NewZap(os.Getenv("LOG_LEVEL"))
	koanf := config.NewKoanf(bootLog, opts.EnvFile)
	log := config.NewZap(koanf.String("LOG_LEVEL"))
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.Init(ctx, config.LoadObservabilityConfig(koanf), log)
	if err != nil {
		return err
	}

	guildId, ok := util.ParseID(koanf.String("GUILD_ID"))
	if !ok {
		return errors.New("GUILD_ID must be a numeric guild id")
	}

	store, closeStore, err := config.NewDocumentStore(ctx, koanf, log)
	if err != nil {
		return err
	}
	defer closeStore()

	flows, closeFlows, err := config.NewFlowRepository(ctx, koanf, log)
	if err != nil {
		return err
	}
	defer closeFlows()

	HTTP_ADDR := koanf.String("HTTP_ADDR")

	var router *fiber.App
	if HTTP_ADDR != "" {
		router = config.NewFiber(log)
		router.Use(exception.Recovery(log))
		router.Use(otelfiber.Middleware())
		router.Use(middleware.TraceLoggerMiddleware(log))
		router.Use(compress.New(compress.Config{
			Level: compress.LevelBestSpeed,
		}))
	}

	session, err := config.NewDiscordSession(koanf)
	if err != nil {
		return err
	}

	bot := config.NewBot(&config.BotConfig{
		Router:  router,
		Session: session,
		Store:   store,
		Flows:   flows,
		GuildId: guildId,
		Log:     log,
		Config:  koanf,
	})

	bot.Client.Bind(ctx, bot.Handler, guildId.String())

	err = session.Open()
	if err != nil {
		return err
	}
	log.Info("discord session opened", zap.String("guildId", guildId.String()))

	go bot.FlowUsecase.RunSweeper(ctx, constant.DefaultSweepInterval)

	go func() {
		err := bot.RosterUsecase.Sync(ctx, guildId)
		if err != nil {
			log.Warn("initial roster sync failed", zap.Error(err))
		}
	}()

	if router != nil {
		go func() {
			log.Info("ops api is running on: " + HTTP_ADDR)
			err := router.Listen(HTTP_ADDR)
			if err != nil {
				log.Error("error starting ops api", zap.Error(err))
			}
		}()
	}

	<-ctx.Done()
	log.Info("got one of stop signals")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if router != nil {
		err = router.ShutdownWithContext(shutdownCtx)
		if err != nil {
			log.Warn("timeout, forced ops api shutdown", zap.Error(err))
		}
	}

	err = session.Close()
	if err != nil {
		log.Warn("failed to close discord session", zap.Error(err))
	}

	err = shutdownTracing(shutdownCtx)
	if err != nil {
		log.Warn("failed to flush traces", zap.Error(err))
	}

	log.Info("bot has shut down gracefully")
	return nil
}
