package activity

import (
	"github.com/swaylabs/sway/internal/activity/repository"
	"github.com/swaylabs/sway/internal/activity/service"
	"go.uber.org/fx"
)

var Module = fx.Module("activity.service",
	fx.Provide(repository.New),
	fx.Provide(service.NewService),
)
