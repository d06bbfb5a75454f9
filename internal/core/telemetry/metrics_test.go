package telemetry_test

import (
	"errors"
	"testing"
	"time"

	"usertodos/internal/core/telemetry"

	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestAppMetricsCounters(t *testing.T) {
	RegisterTestingT(t)

	registry := prometheus.NewRegistry()
	metrics := telemetry.NewAppMetrics(registry)

	metrics.RecordBusinessEvent("todo", "created")
	metrics.RecordBusinessEvent("todo", "created")
	metrics.RecordBusinessEvent("user", "registered")
	metrics.RecordBusinessEvent("other", "ignored")
	metrics.RecordAuthFailure("verify")
	metrics.RecordDatabaseOperation("create", "todos", time.Millisecond, nil)
	metrics.RecordDatabaseOperation("create", "todos", time.Millisecond, errors.New("boom"))
	metrics.RecordRequest("GET", "/users/todos", "200", 5*time.Millisecond)

	Expect(testutil.GatherAndCount(registry, "todo_operations_total")).To(Equal(1))
	Expect(testutil.GatherAndCount(registry, "user_operations_total")).To(Equal(1))
	Expect(testutil.GatherAndCount(registry, "auth_failures_total")).To(Equal(1))
	Expect(testutil.GatherAndCount(registry, "database_operations_total")).To(Equal(2))
	Expect(testutil.GatherAndCount(registry, "http_requests_total")).To(Equal(1))
}

func TestNewAppMetricsPanicsOnDoubleRegistration(t *testing.T) {
	RegisterTestingT(t)

	registry := prometheus.NewRegistry()
	telemetry.NewAppMetrics(registry)

	Expect(func() { telemetry.NewAppMetrics(registry) }).To(Panic())
}
