package conversation

import (
	"github.com/swaylabs/sway/internal/conversation/repository"
	"github.com/swaylabs/sway/internal/conversation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("conversation.service",
	fx.Provide(repository.New),
	fx.Provide(service.NewService),
)
