package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "github.com/OvyFlash/telegram-bot-api"
	log "github.com/sirupsen/logrus"

	"github.com/iamwavecut/ngwarden/internal/bot"
	"github.com/iamwavecut/ngwarden/internal/config"
	"github.com/iamwavecut/ngwarden/internal/db"
	"github.com/iamwavecut/ngwarden/internal/db/sqlite"
	handlers "github.com/iamwavecut/ngwarden/internal/handlers/chat"
	"github.com/iamwavecut/ngwarden/internal/infra"
	"github.com/iamwavecut/ngwarden/internal/infrastructure/telegram"
	"github.com/iamwavecut/ngwarden/internal/lifecycle"
	"github.com/iamwavecut/ngwarden/internal/moderation"
	"github.com/iamwavecut/ngwarden/internal/observability"
)

const (
	updatesBuffer   = 100
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	log.SetFormatter(&config.WardenFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.Level(cfg.LogLevel))
	if err != nil {
		log.WithError(err).Fatalln("cant load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.Init(ctx)
	if err != nil {
		log.WithError(err).Fatalln("cant initialize observability")
	}

	botAPI, err := api.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		log.WithError(err).Errorln("cant initialize bot api")
		time.Sleep(1 * time.Second)
		log.Fatalln("exiting")
	}
	if log.Level(cfg.LogLevel) == log.TraceLevel {
		botAPI.Debug = true
	}

	store, err := sqlite.NewSQLiteClient(ctx, cfg.DotPath, cfg.DBFile, sqlite.WithSettingsDefaults(db.SettingsDefaults{
		WarnLimit:        cfg.Moderation.WarnLimit,
		AntifloodCount:   cfg.Moderation.AntifloodCount,
		AntifloodSeconds: cfg.Moderation.AntifloodSeconds,
	}))
	if err != nil {
		log.WithError(err).Fatalln("cant open database")
	}

	engine := moderation.NewEngine(store, telegram.NewOperations(botAPI),
		moderation.WithBotID(botAPI.Self.ID),
		moderation.WithDefaultMute(cfg.Moderation.DefaultMute),
		moderation.WithFloodMute(cfg.Moderation.FloodMute),
		moderation.WithSuspiciousAge(cfg.Moderation.SuspiciousAge),
		moderation.WithAdminCacheTTL(cfg.Moderation.AdminCacheTTL),
	)
	service := bot.NewService(botAPI, botAPI.Self.ID, engine, store, cfg.DefaultLanguage)

	// no account age source yet, NG_SUSPICIOUS_AGE stays inert
	bot.RegisterUpdateHandler("gatekeeper", handlers.NewGatekeeper(service, nil))
	bot.RegisterUpdateHandler("reactor", handlers.NewReactor(service))

	updateConfig := api.NewUpdate(0)
	updateConfig.Timeout = 60
	updateConfig.AllowedUpdates = []string{"message", "callback_query"}
	loop := bot.NewUpdateLoop(botAPI, bot.NewUpdateProcessor(service, cfg.EnabledHandlers), updateConfig, updatesBuffer)

	runtime := lifecycle.NewRuntime()
	runtime.Register("tracing", lifecycle.Funcs{OnStop: shutdownTracing})
	runtime.Register("service", service)
	if cfg.MetricsAddr != "" {
		runtime.Register("metrics", observability.NewMetricsServer(cfg.MetricsAddr))
	}
	runtime.Register("updates", loop)

	if err := runtime.Start(ctx); err != nil {
		log.WithError(err).Fatalln("cant start")
	}
	log.WithField("bot", botAPI.Self.UserName).Info("bot started")

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-loop.Errors():
		log.WithError(err).Errorln("bot api get updates error")
	case <-infra.MonitorExecutable(ctx):
		log.Warnln("executable file was modified")
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := runtime.Stop(stopCtx); err != nil {
		log.WithError(err).Errorln("unclean shutdown")
	}
}
