package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"usertodos/internal/adapter/http/routes"
	"usertodos/internal/core/telemetry"
	"usertodos/pkg/logger"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestIndexIsServedOnBothMounts(t *testing.T) {
	RegisterTestingT(t)
	gin.SetMode(gin.TestMode)

	router := routes.SetupRouter(routes.HandlersConfig{}, routes.RouterConfig{})

	for _, path := range []string{"/", "/api/v1/"} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))

		Expect(rr.Code).To(Equal(http.StatusOK), path)
		Expect(rr.Body.String()).To(Equal(`{"message":"App is running"}`))
	}
}

func TestUnknownRouteUsesErrorEnvelope(t *testing.T) {
	RegisterTestingT(t)
	gin.SetMode(gin.TestMode)

	router := routes.SetupRouter(routes.HandlersConfig{}, routes.RouterConfig{})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nope", nil))

	Expect(rr.Code).To(Equal(http.StatusNotFound))
	Expect(rr.Body.String()).To(ContainSubstring(`"status_code":404`))
}

func TestRequestsAreMeteredAndLogged(t *testing.T) {
	RegisterTestingT(t)
	gin.SetMode(gin.TestMode)

	registry := prometheus.NewRegistry()

	router := routes.SetupRouter(routes.HandlersConfig{}, routes.RouterConfig{
		ServiceName: "usertodos-test",
		Logger:      logger.NewNop(),
		Metrics:     telemetry.NewAppMetrics(registry),
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(testutil.GatherAndCount(registry, "http_requests_total")).To(Equal(1))
}
