package main

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subeerhaldar/graphql-demo/internal/config"
)

func testConfig(driver string) *config.Config {
	return &config.Config{
		Env: envLocal,
		HTTP: config.HTTPConfig{
			Address:         "127.0.0.1:0",
			ReadTimeout:     time.Second,
			WriteTimeout:    time.Second,
			ShutdownTimeout: time.Second,
		},
		Storage:   config.StorageConfig{Driver: driver},
		Postgres:  config.PostgresConfig{Host: "127.0.0.1", Port: "1", User: "nobody", Dbname: "employees"},
		Employees: config.EmployeesConfig{StrictValidation: true},
	}
}

func TestRun_StopsWhenContextDone(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- run(ctx, testConfig(config.DriverMemory), slog.New(slog.NewTextHandler(io.Discard, nil)))
	}()

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return")
	}
}

func TestRun_ReturnsStoreError(t *testing.T) {
	t.Parallel()

	err := run(context.Background(), testConfig(config.DriverPostgres), slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open employee store")
}

func TestOpenStore_Memory(t *testing.T) {
	t.Parallel()

	store, closeStore, err := openStore(context.Background(), testConfig(config.DriverMemory), nil)
	require.NoError(t, err)
	defer closeStore()

	require.NoError(t, store.Ping(context.Background()))
}
