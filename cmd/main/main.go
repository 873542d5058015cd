package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/subeerhaldar/graphql-demo/internal/config"
	"github.com/subeerhaldar/graphql-demo/internal/graph"
	"github.com/subeerhaldar/graphql-demo/internal/lib/logger/sl"
	"github.com/subeerhaldar/graphql-demo/internal/metrics"
	"github.com/subeerhaldar/graphql-demo/internal/repository"
	"github.com/subeerhaldar/graphql-demo/internal/server"
	"github.com/subeerhaldar/graphql-demo/internal/services/employees"
)

const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	cfg := config.MustLoad()

	logger := setupLogger(cfg.Env)

	err := run(ctx, cfg, logger)
	stop()
	if err != nil {
		logger.ErrorContext(ctx, "Application stopped with error", sl.Err(err))
		os.Exit(1)
	}

	logger.InfoContext(ctx, "Application stopped gracefully...")
}

// run serves the API until ctx is done. Every resource it opens is released before it returns.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// Create a separate registry for metrics with exemplar
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	store, closeStore, err := openStore(ctx, cfg, appMetrics)
	if err != nil {
		return fmt.Errorf("failed to open employee store: %w", err)
	}
	defer closeStore()

	query := employees.NewQuery(logger, store, appMetrics)
	mutation := employees.NewMutation(logger, store, appMetrics,
		employees.WithStrictValidation(cfg.Employees.StrictValidation))

	schema, err := graph.NewSchema(query, mutation)
	if err != nil {
		return err
	}

	router := server.NewRouter(logger, reg, appMetrics, store,
		server.NewEmployeeController(logger, query, mutation),
		graph.NewHandler(schema, logger))

	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.",
		slog.String("storage", cfg.Storage.Driver))

	return server.Start(ctx, logger, router, cfg.HTTP)
}

// openStore returns the configured employee store and a function releasing its resources.
func openStore(
	ctx context.Context,
	cfg *config.Config,
	appMetrics *metrics.Metrics,
) (repository.EmployeeStore, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		dtb, err := repository.NewDatabase(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to DB: %w", err)
		}
		return repository.NewPostgresStore(dtb, appMetrics), dtb.Close, nil
	default:
		return repository.NewMemoryStore(appMetrics), func() {}, nil
	}
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelWarn,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{Key: "", Value: slog.Value{}}
					}
					return a
				},
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelError,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{Key: "", Value: slog.Value{}}
					}
					return a
				},
			}),
		)

		log.Error(
			"The env parameter was not specified, or was invalid. Logging will be minimal, by default." +
				" Please specify the value of `env`: local, development, production")
	}

	return log
}
