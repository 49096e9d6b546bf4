// Package container wires the application from configuration.
package container

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"movilidad/adapters/excel"
	"movilidad/adapters/llm"
	"movilidad/adapters/model"
	"movilidad/adapters/sqlstore"
	"movilidad/app"
	"movilidad/internal"
	"movilidad/internal/assets"
	"movilidad/internal/classify"
	"movilidad/internal/config"
	"movilidad/internal/describe"
	"movilidad/internal/explain"
	"movilidad/internal/testkit"
	"movilidad/internal/usage"
	"movilidad/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Log    *internal.Logger

	// Infrastructure
	DB *sqlx.DB

	// Repositories (data access layer)
	AssetRepo   ports.AssetRepository
	ModelLoader ports.ModelLoader
	LLMClient   ports.LLMClient
	UsageRepo   ports.LLMUsageRepository

	// Services
	Assets       *assets.Cache
	Usage        *usage.Service
	Explainer    *explain.Explainer
	MatchService *app.MatchService
	ClassService *app.ClassService
}

// New creates a new dependency injection container
func New(ctx context.Context, cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}

	c := &Container{
		Config: cfg,
		Log:    logger.With("Container"),
	}

	if err := c.initRepositories(ctx, logger); err != nil {
		c.Shutdown(ctx)
		return nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}
	c.initExplainer(ctx, logger)
	c.initServices(logger)

	c.Log.Info("initialized with asset source %s", cfg.Assets.Source)
	return c, nil
}

// initRepositories initializes data access repositories
func (c *Container) initRepositories(ctx context.Context, logger *internal.Logger) error {
	cfg := c.Config
	c.ModelLoader = model.NewFileLoader(cfg.Assets.ModelFile)

	switch cfg.Assets.Source {
	case config.SourceSQL:
		db, err := sqlstore.Open(ctx, cfg.Database.Driver, cfg.Database.URL)
		if err != nil {
			return err
		}
		c.DB = db
		c.AssetRepo = sqlstore.NewRepository(db, logger)
		c.UsageRepo = sqlstore.NewUsageRepository(db)
	case config.SourceSynthetic:
		repo := testkit.NewRepository(testkit.DefaultHouseholdConfig())
		c.AssetRepo = repo
		c.ModelLoader = repo.ModelLoader()
	default:
		c.AssetRepo = excel.NewFileRepository(excel.FilesFromConfig(cfg.Assets), logger)
	}
	if c.UsageRepo == nil {
		c.UsageRepo = usage.NewMemoryRepository()
	}
	return nil
}

// initExplainer builds the LLM client. A client that cannot be built leaves
// the explainer answering with its missing-dependency message.
func (c *Container) initExplainer(ctx context.Context, logger *internal.Logger) {
	cfg := c.Config.LLM
	c.Usage = usage.NewService(c.UsageRepo, logger)
	if cfg.APIKey() != "" {
		client, err := llm.NewClient(ctx, llm.FromConfig(cfg))
		if err != nil {
			c.Log.Warn("LLM client unavailable: %v", err)
		} else {
			c.LLMClient = client
		}
	}
	c.Explainer = explain.NewExplainer(c.LLMClient, explain.Options{
		Provider:  cfg.Provider,
		APIKey:    cfg.APIKey(),
		Model:     cfg.Model(),
		Timeout:   cfg.Timeout,
		CacheSize: cfg.CacheSize,
		CacheTTL:  cfg.CacheTTL,
		Usage:     c.Usage,
	}, logger)
}

// initServices initializes application services
func (c *Container) initServices(logger *internal.Logger) {
	c.Assets = assets.NewCache(c.AssetRepo, logger)
	c.MatchService = app.NewMatchService(c.Assets, describe.NewTextBuilder(), c.Explainer, c.Config.Matching.NeighborsDefault, logger)
	c.ClassService = app.NewClassService(classify.NewService(c.ModelLoader, logger), logger)
}

// Invalidate drops cached assets and explanations
func (c *Container) Invalidate() {
	c.Assets.Invalidate()
	c.Explainer.Purge()
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.Usage != nil {
		c.Usage.Flush()
	}
	// Close database connection
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
