package router

import (
	"github.com/Jayasawar1325/backend-series/internal/application"
	"github.com/Jayasawar1325/backend-series/internal/container"
	pginfra "github.com/Jayasawar1325/backend-series/internal/infrastructure/postgres"
	handlers "github.com/Jayasawar1325/backend-series/internal/interface/http"
	"github.com/Jayasawar1325/backend-series/internal/router/modules"
)

// InitModules builds the user module from the container singletons and
// registers it with the router registry. Called once during startup.
func InitModules(r *Registry) {
	repo := pginfra.NewUserRepository(container.GetPGPool())
	cfg := container.GetConfig()

	svc := application.NewService(
		repo,
		container.GetJWT(),
		container.GetMedia(),
		container.GetLogger(),
		container.GetRabbitPub(),
		container.GetES(),
		cfg.ESChannelsIndex,
	)
	channels := application.NewChannelService(
		repo,
		container.GetRedis(),
		container.GetLogger(),
		container.GetES(),
		cfg.ESChannelsIndex,
	)

	userHandler := handlers.NewUserHandler(svc, container.GetLogger(), cfg.CookieDomain, cfg.CookieSecure)
	channelHandler := handlers.NewChannelHandler(channels, container.GetLogger())

	r.Add(modules.NewUserModule(userHandler, channelHandler, repo, container.GetJWT()))
}
