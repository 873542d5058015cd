package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/subeerhaldar/graphql-demo/internal/metrics"
)

const (
	BasePath    = "/api/v1"
	HealthPath  = "/healthz"
	MetricsPath = "/metrics"
	GraphQLPath = "/graphql"
)

var errRouteNotFound = errors.New("route not found")

// NewRouter wires the REST controller under BasePath next to the GraphQL, health and metrics
// endpoints. Every matched route is logged, counted and tagged with a request id.
func NewRouter(
	log *slog.Logger,
	reg *prometheus.Registry,
	appMetrics *metrics.Metrics,
	store StorePinger,
	controller *EmployeeController,
	graphQL http.Handler,
) *mux.Router {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
		log.DebugContext(req.Context(), "Not Found Handler", slog.String("path", removeNewlines(req.URL.Path)))
		writeClientError(req.Context(), log, writer, errRouteNotFound, http.StatusNotFound)
	})

	router.Handle(HealthPath, NewHealthChecker(store, log)).Methods(http.MethodGet).Name("health")
	router.Handle(MetricsPath, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})).
		Methods(http.MethodGet).Name("metrics")
	router.Handle(GraphQLPath, graphQL).Methods(http.MethodGet, http.MethodPost).Name("graphql")

	v1 := router.PathPrefix(BasePath).Subrouter()
	controller.ConfigureRoutes(v1)

	router.Use(RequestIDMiddleware)
	router.Use(LoggingMiddleware(log))
	router.Use(MetricsMiddleware(appMetrics))

	return router
}
