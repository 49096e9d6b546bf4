package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"

	"movilidad/internal"
	"movilidad/internal/config"
	"movilidad/internal/container"
	"movilidad/internal/mcptools"
)

const version = "1.0.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "movilidad-mcp: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := context.Background()
	c, err := container.New(ctx, cfg, internal.NewDefaultLogger())
	if err != nil {
		return err
	}
	defer c.Shutdown(ctx)

	s := server.NewMCPServer(
		"movilidad",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions("Social mobility tools: list targets, read a target's questionnaire, match answers to survey clusters, explain the match and predict socioeconomic class."),
	)
	mcptools.Register(s, c.MatchService, c.ClassService)

	return server.ServeStdio(s)
}
