package main

import (
	"context"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"movilidad/internal"
	"movilidad/internal/api"
	"movilidad/internal/config"
	"movilidad/internal/container"
)

// JSON API only, without the HTML pages
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewDefaultLogger()
	ctx := context.Background()
	appContainer, err := container.New(ctx, appConfig, logger)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(ctx)

	handler := api.NewHandler(appContainer.MatchService, appContainer.ClassService, appContainer, logger).WithUsage(appContainer.Usage).Router()

	port := ":" + appConfig.Server.Port
	log.Printf("Starting API server on %s", port)
	if err := http.ListenAndServe(port, handler); err != nil {
		log.Fatal("Server failed:", err)
	}
}
