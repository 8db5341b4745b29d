//go:build unit

package handler_test

import (
	"net/http"
	"testing"

	"payment-3p/internal/handler"
	"payment-3p/internal/handler/api"
	"payment-3p/internal/handler/middleware"
	"payment-3p/internal/pkg/config"
	"payment-3p/internal/pkg/metrics"
	"payment-3p/tests/common/httptest"
	commandsmock "payment-3p/tests/mock/commands"
	queriesmock "payment-3p/tests/mock/queries"
	sharedmock "payment-3p/tests/mock/shared"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newTestRouter(t *testing.T, health *sharedmock.MockHealthChecker) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctrl := gomock.NewController(t)
	cfg := config.NewTestConfig()
	reg := metrics.NewRegistry()

	engine := gin.New()
	handler.NewRouter(engine, handler.RouterParams{
		Config:   cfg,
		Logger:   middleware.NewLogger(cfg.Log),
		Recorder: metrics.NewPrometheusRecorder(reg),
		Gatherer: reg,
		Health:   health,
		PaymentTokenHandler: api.NewPaymentTokenHandler(
			commandsmock.NewMockPaymentTokenCommands(ctrl),
			queriesmock.NewMockPaymentTokenQueries(ctrl),
		),
	})
	return engine
}

func TestRouterLedgerRoutes(t *testing.T) {
	ctrl := gomock.NewController(t)
	router := newTestRouter(t, sharedmock.NewMockHealthChecker(ctrl))

	for _, path := range []string{"/preauth", "/check", "/updateAmount", "/processPayment", "/cancelPayment"} {
		t.Run(path, func(t *testing.T) {
			// an empty body is rejected before any ledger call
			w := httptest.PerformRawRequest(t, router, http.MethodPost, path, "")
			httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "Missing request body.")

			w = httptest.PerformRequest(t, router, http.MethodGet, path, nil)
			assert.Equal(t, http.StatusNotFound, w.Code)
		})
	}
}

func TestRouterHealth(t *testing.T) {
	t.Run("store reachable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		health := sharedmock.NewMockHealthChecker(ctrl)
		health.EXPECT().Ping(gomock.Any()).Return(nil)

		w := httptest.PerformRequest(t, newTestRouter(t, health), http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	})

	t.Run("store down", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		health := sharedmock.NewMockHealthChecker(ctrl)
		health.EXPECT().Ping(gomock.Any()).Return(assert.AnError)

		w := httptest.PerformRequest(t, newTestRouter(t, health), http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.JSONEq(t, `{"status":"unavailable"}`, w.Body.String())
	})
}

func TestRouterMetrics(t *testing.T) {
	ctrl := gomock.NewController(t)
	router := newTestRouter(t, sharedmock.NewMockHealthChecker(ctrl))

	httptest.PerformRawRequest(t, router, http.MethodPost, "/check", "")

	w := httptest.PerformRequest(t, router, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "payment3p_")
}
