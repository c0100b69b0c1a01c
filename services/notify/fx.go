package notify

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

var Module = fx.Module("notify",
	fx.Provide(
		NewHub,
		NewGateway,
	),
	fx.Invoke(registerRoutes),
)

func registerRoutes(router *gin.Engine, gateway *Gateway) {
	gateway.RegisterRoutes(router)
}
