package main

import (
	"context"
	"embed"
	"log"

	"github.com/joho/godotenv"

	"movilidad/internal"
	"movilidad/internal/api"
	"movilidad/internal/config"
	"movilidad/internal/container"
	"movilidad/ui"
)

//go:embed ui/templates/*.html ui/static/*
var embeddedFiles embed.FS

func main() {
	// Load environment variables from .env file
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

	apiHandler := api.NewHandler(appContainer.MatchService, appContainer.ClassService, appContainer, logger).WithUsage(appContainer.Usage).Router()

	server, err := ui.NewServer(embeddedFiles, appContainer.MatchService, appContainer.ClassService, apiHandler, ui.Config{
		Neighbors: appConfig.Matching.NeighborsUI,
		GinMode:   appConfig.Server.GinMode,
	}, logger)
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	log.Printf("Starting movilidad server on port %s", appConfig.Server.Port)
	log.Fatal(server.Start(":" + appConfig.Server.Port))
}
