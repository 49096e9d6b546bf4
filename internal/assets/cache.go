// Package assets memoises asset bundles for the life of the process.
package assets

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	domainAssets "movilidad/domain/assets"
	"movilidad/internal"
	"movilidad/ports"
)

// Cache holds the last loaded bundle and reloads when the repository
// version changes. Concurrent loads of the same version share one call.
type Cache struct {
	repo ports.AssetRepository
	log  *internal.Logger

	group singleflight.Group

	mu     sync.RWMutex
	bundle *domainAssets.Bundle
}

// NewCache creates a cache over repo
func NewCache(repo ports.AssetRepository, logger *internal.Logger) *Cache {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Cache{repo: repo, log: logger.With("AssetCache")}
}

// Get returns the bundle for the current repository version
func (c *Cache) Get(ctx context.Context) (*domainAssets.Bundle, error) {
	version, err := c.repo.Version(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	cached := c.bundle
	c.mu.RUnlock()
	if cached != nil && cached.Version == version {
		return cached, nil
	}

	v, err, shared := c.group.Do(version, func() (interface{}, error) {
		bundle, err := c.repo.Load(ctx)
		if err != nil {
			return nil, err
		}
		if bundle.Version == "" {
			bundle.Version = version
		}
		c.mu.Lock()
		c.bundle = bundle
		c.mu.Unlock()
		c.log.Info("cached assets version %s", shortVersion(bundle.Version))
		return bundle, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.log.Debug("shared in-flight load of version %s", shortVersion(version))
	}
	return v.(*domainAssets.Bundle), nil
}

// Invalidate drops the cached bundle
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.bundle = nil
	c.mu.Unlock()
	c.log.Info("invalidated")
}

func shortVersion(v string) string {
	if len(v) > 12 {
		return v[:12]
	}
	return v
}
