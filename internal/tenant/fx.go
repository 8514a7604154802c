package tenant

import (
	"github.com/swaylabs/sway/internal/tenant/repository"
	"github.com/swaylabs/sway/internal/tenant/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tenant.service",
	fx.Provide(repository.New),
	fx.Provide(service.NewService),
)
