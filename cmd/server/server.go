package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/chatimovel/painel-server/internal/config"
	"github.com/chatimovel/painel-server/internal/domain/conversation"
	"github.com/chatimovel/painel-server/internal/domain/dashboard"
	"github.com/chatimovel/painel-server/internal/domain/message"
	"github.com/chatimovel/painel-server/internal/domain/session"
	"github.com/chatimovel/painel-server/internal/domain/user"
	"github.com/chatimovel/painel-server/internal/infrastructure/auth"
	"github.com/chatimovel/painel-server/internal/infrastructure/gateway"
	"github.com/chatimovel/painel-server/internal/infrastructure/logger"
	"github.com/chatimovel/painel-server/internal/infrastructure/observability"
	"github.com/chatimovel/painel-server/internal/infrastructure/realtime"
	"github.com/chatimovel/painel-server/internal/infrastructure/store"
	"github.com/chatimovel/painel-server/internal/infrastructure/webhook"
	"github.com/chatimovel/painel-server/internal/interfaces/httpserver"
	"github.com/chatimovel/painel-server/internal/interfaces/httpserver/handlers"
)

// Application holds the main application components.
type Application struct {
	httpServer *httpserver.HTTPServer
	reconciler *store.Reconciler
	log        zerolog.Logger
}

// NewApplication creates a new application instance.
func NewApplication(httpServer *httpserver.HTTPServer, reconciler *store.Reconciler, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		reconciler: reconciler,
		log:        log,
	}
}

// Start runs the application.
func (a *Application) Start(ctx context.Context) error {
	a.reconciler.Start(ctx)

	err := a.httpServer.Run(ctx)

	a.reconciler.Stop()

	return err
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shutdown telemetry")
		}
	}()

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize auth validator")
	}

	// Sessions come first: the gateway needs them as its token source, the
	// gateway's auth surface is bound back in afterwards.
	sessionStore := session.NewFileStore(cfg.SessionFile)
	sessions, err := session.NewService(sessionStore, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to restore session state")
	}

	gw := gateway.New(cfg, log, sessions, sessions.ForceLogout)
	sessions.BindAuth(gw)

	convCache := store.NewConversationCache(log)
	msgCache := store.NewMessageCache()

	feed := realtime.NewFeed(cfg, log)
	reconciler := store.NewReconciler(feed, convCache, msgCache, log)

	delivery := webhook.NewSender(cfg, log)

	conversations := conversation.NewService(gw, convCache, msgCache, log)
	messages := message.NewService(gw, msgCache, conversations, delivery, log)
	users := user.NewService(gw, gw, log)
	metrics := dashboard.NewService(gw, log)

	handlerProvider := handlers.NewProvider(sessions, conversations, messages, users, metrics, reconciler)
	httpServer := httpserver.New(cfg, log, handlerProvider, authValidator)

	app := NewApplication(httpServer, reconciler, log)

	log.Info().
		Str("service", cfg.ServiceName).
		Int("port", cfg.HTTPPort).
		Str("environment", cfg.Environment).
		Msg("starting application")

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env", "../../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
