package migration

import (
	"context"

	"github.com/jmoiron/sqlx"

	"movilidad/internal/errors"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner creates the asset store schema. Statements use only
// types shared by PostgreSQL and SQLite.
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createFramesTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create asset_frames table")
	}

	if err := r.createDictionaryTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create asset_dictionary table")
	}

	if err := r.createMappingTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create asset_mapping table")
	}

	if err := r.createUsageTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create llm_usage table")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	return nil
}

func (r *MigrationRunner) createFramesTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS asset_frames (
			name VARCHAR(255) PRIMARY KEY,
			payload TEXT NOT NULL,
			row_count INTEGER NOT NULL DEFAULT 0,
			updated_at BIGINT NOT NULL
		)
	`)
	return err
}

func (r *MigrationRunner) createDictionaryTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS asset_dictionary (
			variable VARCHAR(255) PRIMARY KEY,
			position INTEGER NOT NULL,
			payload TEXT NOT NULL,
			updated_at BIGINT NOT NULL
		)
	`)
	return err
}

func (r *MigrationRunner) createMappingTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS asset_mapping (
			variable VARCHAR(255) PRIMARY KEY,
			cambio_yo TEXT NOT NULL DEFAULT '',
			involucrados TEXT NOT NULL DEFAULT '',
			recursos TEXT NOT NULL DEFAULT '',
			updated_at BIGINT NOT NULL
		)
	`)
	return err
}

func (r *MigrationRunner) createUsageTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS llm_usage (
			id VARCHAR(64) PRIMARY KEY,
			operation VARCHAR(64) NOT NULL,
			provider VARCHAR(64) NOT NULL DEFAULT '',
			model VARCHAR(255) NOT NULL DEFAULT '',
			prompt_tokens INTEGER NOT NULL DEFAULT 0,
			completion_tokens INTEGER NOT NULL DEFAULT 0,
			total_tokens INTEGER NOT NULL DEFAULT 0,
			created_at BIGINT NOT NULL
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_asset_dictionary_position ON asset_dictionary(position)`,
		`CREATE INDEX IF NOT EXISTS idx_llm_usage_created_at ON llm_usage(created_at)`,
	}
	for _, stmt := range indexes {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
