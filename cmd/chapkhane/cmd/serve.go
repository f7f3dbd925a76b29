package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"chapkhane/internal/bot"
	"chapkhane/internal/bot/state_manager"
	"chapkhane/internal/httpapi"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var serveInMemory bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the storefront API and the Telegram bot",
	Long: `Run the HTTP API. The Telegram bot starts alongside it when
TELEGRAM_TOKEN is set.

Postgres migrations are applied on start. --memory skips Postgres and Redis
entirely, which is handy for demos and frontend work.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveInMemory, "memory", false, "use in-memory stores instead of Postgres and Redis")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	b, err := openBackend(ctx, serveInMemory)
	if err != nil {
		appLogger.Error("Failed to open storage", zap.Error(err))
		return err
	}
	defer b.Close()

	svc, err := b.service(ctx)
	if err != nil {
		return err
	}
	if err := svc.SeedOfferings(ctx); err != nil {
		appLogger.Warn("Failed to seed offerings", zap.Error(err))
	}

	g, ctx := errgroup.WithContext(ctx)

	if cfg.Telegram.Token != "" {
		tgBot, err := bot.New(cfg.Telegram.Token, cfg.Telegram.Debug, bot.Deps{
			State:    state_manager.New(b.dialogs),
			Shop:     svc,
			Logger:   appLogger,
			AdminIDs: cfg.AdminIDs,
		})
		if err != nil {
			appLogger.Error("Failed to create bot", zap.Error(err))
			return err
		}
		svc.Subscribe(tgBot)
		g.Go(func() error {
			return tgBot.Start(ctx)
		})
	} else {
		appLogger.Info("TELEGRAM_TOKEN not set - bot disabled")
	}

	srv := httpapi.New(svc, httpapi.Options{
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		RequestTimeout: cfg.HTTP.RequestTimeout,
		Logger:         appLogger,
	})
	g.Go(func() error {
		return srv.Run(ctx, cfg.HTTP.Addr)
	})

	if err := g.Wait(); err != nil {
		appLogger.Error("Stopped with error", zap.Error(err))
		return err
	}
	appLogger.Info("Shutdown gracefully")
	return nil
}
