package notification

import (
	"github.com/swaylabs/sway/internal/notification/repository"
	"github.com/swaylabs/sway/internal/notification/service"
	"go.uber.org/fx"
)

var Module = fx.Module("notification.service",
	fx.Provide(repository.New),
	fx.Provide(service.NewService),
)
