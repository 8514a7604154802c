package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/swaylabs/sway/internal/clock"
	"github.com/swaylabs/sway/internal/config"
	"github.com/swaylabs/sway/internal/migration"
	"github.com/swaylabs/sway/internal/observability"
	"github.com/swaylabs/sway/internal/scheduler"
	"github.com/swaylabs/sway/internal/server"
	"github.com/swaylabs/sway/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
		scheduler.Module,
	)

	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
