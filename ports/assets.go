package ports

import (
	"context"

	"movilidad/domain/assets"
)

// AssetRepository loads the precomputed tables and dictionaries
type AssetRepository interface {
	// Load reads a complete bundle
	Load(ctx context.Context) (*assets.Bundle, error)
	// Version identifies the current content; it changes whenever Load
	// would return different data
	Version(ctx context.Context) (string, error)
}

// AssetWriter persists a bundle, replacing any previous content
type AssetWriter interface {
	Save(ctx context.Context, bundle *assets.Bundle) error
}
