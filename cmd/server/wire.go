//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"

	"github.com/chatimovel/painel-server/internal/config"
	"github.com/chatimovel/painel-server/internal/domain/conversation"
	"github.com/chatimovel/painel-server/internal/domain/dashboard"
	"github.com/chatimovel/painel-server/internal/domain/message"
	"github.com/chatimovel/painel-server/internal/domain/session"
	"github.com/chatimovel/painel-server/internal/domain/user"
	"github.com/chatimovel/painel-server/internal/infrastructure/auth"
	"github.com/chatimovel/painel-server/internal/infrastructure/gateway"
	"github.com/chatimovel/painel-server/internal/infrastructure/realtime"
	"github.com/chatimovel/painel-server/internal/infrastructure/store"
	"github.com/chatimovel/painel-server/internal/infrastructure/webhook"
	"github.com/chatimovel/painel-server/internal/interfaces/httpserver"
	"github.com/chatimovel/painel-server/internal/interfaces/httpserver/handlers"
)

// ProviderSet is the wire provider set for the application.
var ProviderSet = wire.NewSet(
	// Infrastructure providers
	ProvideSessionService,
	ProvideGateway,
	ProvideConversationCache,
	ProvideMessageCache,
	ProvideFeed,
	ProvideReconciler,
	ProvideWebhookSender,
	ProvideAuthValidator,
	ProvideWatcher,

	// Domain providers
	ProvideConversationService,
	ProvideMessageService,
	ProvideUserService,
	ProvideDashboardService,

	// Interface providers
	handlers.NewProvider,
	httpserver.New,

	// Application
	NewApplication,
)

// ProvideSessionService provides the session service with the persisted
// session restored.
func ProvideSessionService(cfg *config.Config, log zerolog.Logger) (*session.Service, error) {
	return session.NewService(session.NewFileStore(cfg.SessionFile), log)
}

// ProvideGateway provides the backend client, bound to the session service
// both as token source and as the forced-logout hook.
func ProvideGateway(cfg *config.Config, log zerolog.Logger, sessions *session.Service) *gateway.Client {
	gw := gateway.New(cfg, log, sessions, sessions.ForceLogout)
	sessions.BindAuth(gw)
	return gw
}

// ProvideConversationCache provides the conversation list cache.
func ProvideConversationCache(log zerolog.Logger) *store.ConversationCache {
	return store.NewConversationCache(log)
}

// ProvideMessageCache provides the per-conversation message cache.
func ProvideMessageCache() *store.MessageCache {
	return store.NewMessageCache()
}

// ProvideFeed provides the realtime change feed.
func ProvideFeed(cfg *config.Config, log zerolog.Logger) store.Source {
	return realtime.NewFeed(cfg, log)
}

// ProvideReconciler provides the cache reconciler.
func ProvideReconciler(feed store.Source, convs *store.ConversationCache, msgs *store.MessageCache, log zerolog.Logger) *store.Reconciler {
	return store.NewReconciler(feed, convs, msgs, log)
}

// ProvideWebhookSender provides the automation webhook sender.
func ProvideWebhookSender(cfg *config.Config, log zerolog.Logger) *webhook.Sender {
	return webhook.NewSender(cfg, log)
}

// ProvideWatcher exposes the reconciler as the handlers' watch registry.
func ProvideWatcher(reconciler *store.Reconciler) handlers.Watcher {
	return reconciler
}

// ProvideAuthValidator provides an auth validator.
func ProvideAuthValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*auth.Validator, error) {
	return auth.NewValidator(ctx, cfg, log)
}

// ProvideConversationService provides the conversation service.
func ProvideConversationService(gw *gateway.Client, convs *store.ConversationCache, msgs *store.MessageCache, log zerolog.Logger) *conversation.Service {
	return conversation.NewService(gw, convs, msgs, log)
}

// ProvideMessageService provides the message service.
func ProvideMessageService(gw *gateway.Client, msgs *store.MessageCache, conversations *conversation.Service, delivery *webhook.Sender, log zerolog.Logger) *message.Service {
	return message.NewService(gw, msgs, conversations, delivery, log)
}

// ProvideUserService provides the user service.
func ProvideUserService(gw *gateway.Client, log zerolog.Logger) *user.Service {
	return user.NewService(gw, gw, log)
}

// ProvideDashboardService provides the dashboard service.
func ProvideDashboardService(gw *gateway.Client, log zerolog.Logger) *dashboard.Service {
	return dashboard.NewService(gw, log)
}

// CreateApplication creates the application with all dependencies wired.
func CreateApplication(
	ctx context.Context,
	cfg *config.Config,
	log zerolog.Logger,
) (*Application, error) {
	wire.Build(ProviderSet)
	return nil, nil
}
