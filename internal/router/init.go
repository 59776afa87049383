package router

import (
	"github.com/famcare/chat-service/internal/application"
	"github.com/famcare/chat-service/internal/container"
	pginfra "github.com/famcare/chat-service/internal/infrastructure/postgres"
	handlers "github.com/famcare/chat-service/internal/interface/http"
	"github.com/famcare/chat-service/internal/router/modules"
)

// InitModules wires repositories, services and handlers from the container
// singletons and registers every feature module. Called once at startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	users := pginfra.NewUserRepository(container.GetPGPool())
	messages := pginfra.NewMessageRepository(container.GetPGPool())

	authSvc := application.NewAuthService(
		users,
		container.GetJWT(),
		container.GetRedis(),
		logger,
		container.GetGCS(),
		cfg.GCSBucket,
		cfg.SessionTTL,
	)
	messageSvc := application.NewMessageService(users, messages, logger, container.GetGCS(), cfg.GCSBucket)
	adminSvc := application.NewAdminService(users, logger)

	authHandler := handlers.NewAuthHandler(authSvc, logger, cfg.CookieDomain, cfg.CookieSecure, cfg.ServiceToken)
	messageHandler := handlers.NewMessageHandler(messageSvc, container.GetHub(), logger)
	adminHandler := handlers.NewAdminHandler(adminSvc, logger)
	wsHandler := handlers.NewWSHandler(container.GetHub(), logger)

	r.Add(modules.NewAuthModule(authHandler, users))
	r.Add(modules.NewMessageModule(messageHandler, users))
	r.Add(modules.NewAdminModule(adminHandler, users))
	r.Add(modules.NewRealtimeModule(wsHandler, users))
}
