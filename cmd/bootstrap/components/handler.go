package components

import (
	"payment-3p/internal/handler"
	"payment-3p/internal/handler/api"
	"payment-3p/internal/handler/middleware"
	"payment-3p/internal/pkg/config"
	"payment-3p/internal/pkg/metrics"
	"payment-3p/internal/usecase/shared"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewPaymentTokenHandler,
	),
	fx.Invoke(RegisterRoutes),
)

type RouteDeps struct {
	fx.In

	Engine              *gin.Engine
	Config              config.Config
	Logger              *middleware.Logger
	Recorder            *metrics.PrometheusRecorder `optional:"true"`
	Gatherer            prometheus.Gatherer         `optional:"true"`
	Health              shared.HealthChecker        `optional:"true"`
	PaymentTokenHandler *api.PaymentTokenHandler
}

func RegisterRoutes(d RouteDeps) {
	handler.NewRouter(d.Engine, handler.RouterParams{
		Config:              d.Config,
		Logger:              d.Logger,
		Recorder:            d.Recorder,
		Gatherer:            d.Gatherer,
		Health:              d.Health,
		PaymentTokenHandler: d.PaymentTokenHandler,
	})
}
