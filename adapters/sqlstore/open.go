// Package sqlstore keeps the precomputed assets in PostgreSQL or SQLite.
package sqlstore

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"movilidad/internal/errors"
	"movilidad/internal/migration"
)

// Open connects to the database and applies the schema
func Open(ctx context.Context, driver, url string) (*sqlx.DB, error) {
	var name string
	switch driver {
	case "postgres":
		name = "postgres"
	case "sqlite":
		name = "sqlite"
	default:
		return nil, errors.ConfigInvalid(fmt.Sprintf("unsupported DB_DRIVER %q", driver))
	}

	db, err := sqlx.ConnectContext(ctx, name, url)
	if err != nil {
		return nil, errors.DatabaseError("failed to connect to database", err)
	}
	if driver == "sqlite" {
		// a single connection keeps in-memory databases shared
		db.SetMaxOpenConns(1)
	}

	if err := migration.NewRunner().Run(ctx, db); err != nil {
		db.Close()
		return nil, errors.DatabaseError("failed to migrate database", err)
	}
	return db, nil
}
