package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"movilidad/adapters/excel"
	"movilidad/adapters/sqlstore"
	"movilidad/internal"
	"movilidad/internal/config"
)

// Copies the file assets (CSV, XLSX, YAML) into the SQL asset store
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if appConfig.Database.URL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	logger := internal.NewDefaultLogger()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	files := excel.FilesFromConfig(appConfig.Assets)
	log.Printf("Loading assets from %s", appConfig.Assets.DataDir)
	bundle, err := excel.NewFileRepository(files, logger).Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load file assets: %v", err)
	}

	db, err := sqlstore.Open(ctx, appConfig.Database.Driver, appConfig.Database.URL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	repo := sqlstore.NewRepository(db, logger)
	if err := repo.Save(ctx, bundle); err != nil {
		log.Fatalf("Failed to save assets: %v", err)
	}

	version, err := repo.Version(ctx)
	if err != nil {
		log.Fatalf("Failed to read stored version: %v", err)
	}
	log.Printf("Migrated %d records, %d targets, %d dictionary entries (version %s)",
		bundle.Records.Len(), len(bundle.Valuable), len(bundle.Dictionary.Entries), version)
}
