package employees_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/subeerhaldar/graphql-demo/internal/metrics"
	"github.com/subeerhaldar/graphql-demo/internal/repository"
	"github.com/subeerhaldar/graphql-demo/internal/services/employees"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	store    *repository.MemoryStore
	metrics  *metrics.Metrics
	query    *employees.Query
	mutation *employees.Mutation
}

func newFixture(t *testing.T, opts ...employees.Option) fixture {
	t.Helper()

	appMetrics := metrics.NewMetrics(prometheus.NewRegistry())
	store := repository.NewMemoryStore(appMetrics)

	return fixture{
		store:    store,
		metrics:  appMetrics,
		query:    employees.NewQuery(discardLogger(), store, appMetrics),
		mutation: employees.NewMutation(discardLogger(), store, appMetrics, opts...),
	}
}

func ptr[T any](v T) *T {
	return &v
}
