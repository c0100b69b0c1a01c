package main

import (
	"log"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"loyalty-ledger/pkg/config"
	"loyalty-ledger/pkg/db"
	"loyalty-ledger/pkg/health"
	"loyalty-ledger/pkg/logger"
	"loyalty-ledger/pkg/server"
	"loyalty-ledger/services/analytics"
	"loyalty-ledger/services/notify"
	"loyalty-ledger/services/rewards"
)

func main() {
	opts := []fx.Option{
		config.Module,
		logger.Module,
		db.Module,
		health.Module,
		fx.Provide(
			provideSnowflakeNode,
		),
		notify.Module,
		rewards.Module,
		analytics.Module,
		server.ProvideHTTPServer,
		fxLogger,
	}

	if err := fx.ValidateApp(opts...); err != nil {
		log.Fatalf("fx validation failed: %v", err)
	}

	app := fx.New(opts...)

	app.Run()
}

var fxLogger = fx.WithLogger(func(cfg *config.Config, logger *zap.Logger) fxevent.Logger {
	return fxevent.NopLogger
})

func provideSnowflakeNode() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
