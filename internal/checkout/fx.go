package checkout

import (
	"github.com/swaylabs/sway/internal/checkout/repository"
	"github.com/swaylabs/sway/internal/checkout/service"
	"go.uber.org/fx"
)

var Module = fx.Module("checkout.service",
	fx.Provide(repository.New),
	fx.Provide(service.NewService),
)
