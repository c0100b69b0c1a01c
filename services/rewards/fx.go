package rewards

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"loyalty-ledger/services/notify"
)

var Module = fx.Module("rewards.service",
	fx.Provide(
		NewService,
		NewHandler,
		provideTierResolver,
		provideNotifier,
	),
	fx.Invoke(
		migrate,
		registerRoutes,
	),
)

func provideTierResolver() TierResolver {
	return EmailTierResolver{}
}

func provideNotifier(hub *notify.Hub) Notifier {
	return hub
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

func registerRoutes(router *gin.Engine, handler *Handler) {
	handler.RegisterRoutes(router)
}
