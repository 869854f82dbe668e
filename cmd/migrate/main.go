package main

// Apply ranking history migrations:
//   go run ./cmd/migrate

import (
	"context"
	"log"

	"resume-ranker/internal/shared/config"
	"resume-ranker/internal/shared/storage/db"
)

func main() {
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}
	ctx := context.Background()

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.MigratePool().FromEnv())
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}
	log.Print("migrations applied")
}
