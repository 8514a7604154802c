package subscription

import (
	"github.com/swaylabs/sway/internal/subscription/repository"
	"github.com/swaylabs/sway/internal/subscription/service"
	"go.uber.org/fx"
)

var Module = fx.Module("subscription.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
