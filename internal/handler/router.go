package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"payment-3p/internal/handler/api"
	resdto "payment-3p/internal/handler/dto/response"
	"payment-3p/internal/handler/middleware"
	"payment-3p/internal/pkg/config"
	"payment-3p/internal/pkg/metrics"
	"payment-3p/internal/usecase/shared"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
}

type RouterParams struct {
	Config              config.Config
	Logger              *middleware.Logger
	Recorder            *metrics.PrometheusRecorder
	Gatherer            prometheus.Gatherer
	Health              shared.HealthChecker
	PaymentTokenHandler *api.PaymentTokenHandler
}

func NewRouter(engine *gin.Engine, p RouterParams) {
	setupMiddleware(engine, p)
	setupRoutes(engine, p)
}

func setupMiddleware(engine *gin.Engine, p RouterParams) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(p.Config.CORS))
	engine.Use(p.Logger.LoggingMiddleware())
	if p.Recorder != nil {
		engine.Use(middleware.NewMetricsMiddleware(p.Recorder))
	}
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, p RouterParams) {
	engine.GET("/health", healthCheck(p.Health))
	if p.Gatherer != nil {
		engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{})))
	}

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := p.PaymentTokenHandler
	addRoutes(&engine.RouterGroup, []route{
		{Method: http.MethodPost, Path: "/preauth", Handler: h.Preauth},
		{Method: http.MethodPost, Path: "/check", Handler: h.Check},
		{Method: http.MethodPost, Path: "/updateAmount", Handler: h.UpdateAmount},
		{Method: http.MethodPost, Path: "/processPayment", Handler: h.ProcessPayment},
		{Method: http.MethodPost, Path: "/cancelPayment", Handler: h.CancelPayment},
	})
}

// @Summary Health check
// @Description Check that the service can reach its token store
// @Tags health
// @Produce json
// @Success 200 {object} resdto.HealthResponse
// @Failure 503 {object} resdto.HealthResponse
// @Router /health [get]
func healthCheck(checker shared.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if checker != nil {
			if err := checker.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, resdto.HealthResponse{Status: "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, resdto.HealthResponse{Status: "ok"})
	}
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		g.Handle(r.Method, r.Path, r.Handler)
	}
}
