package main

import (
	"context"
	"log"

	"github.com/subeerhaldar/graphql-demo/internal/config"
	"github.com/subeerhaldar/graphql-demo/internal/repository"
)

const migrationsDir = "migrations"

func main() {
	cfg := config.MustLoad()

	dbpool, dbErr := repository.NewDatabase(context.Background(), cfg.Postgres)
	if dbErr != nil {
		log.Fatalf("Failed to connect to DB: %v", dbErr)
	}
	defer dbpool.Close()

	if migrationErr := repository.Migrate(dbpool, migrationsDir); migrationErr != nil {
		log.Fatal(migrationErr)
	}

	log.Println("✅ Migrations applied successfully")
}
