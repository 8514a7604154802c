package auth

import (
	"github.com/swaylabs/sway/internal/auth/oauth"
	"github.com/swaylabs/sway/internal/auth/repository"
	"github.com/swaylabs/sway/internal/auth/service"
	"github.com/swaylabs/sway/internal/auth/token"
	"github.com/swaylabs/sway/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.New),
	fx.Provide(func(cfg config.Config) (*token.Service, error) {
		return token.NewService(token.Config{
			SecretKey: cfg.AuthJWTSecret,
			Duration:  cfg.AuthTokenTTL,
		})
	}),
	fx.Provide(oauth.NewSimulator),
	fx.Provide(service.NewService),
)
