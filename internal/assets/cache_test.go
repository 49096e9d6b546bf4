package assets

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainAssets "movilidad/domain/assets"
)

type fakeRepository struct {
	mu      sync.Mutex
	version string
	loads   atomic.Int32
	delay   time.Duration
	err     error
}

func (r *fakeRepository) setVersion(v string) {
	r.mu.Lock()
	r.version = v
	r.mu.Unlock()
}

func (r *fakeRepository) Version(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.version, nil
}

func (r *fakeRepository) Load(ctx context.Context) (*domainAssets.Bundle, error) {
	r.loads.Add(1)
	time.Sleep(r.delay)
	if r.err != nil {
		return nil, r.err
	}
	v, _ := r.Version(ctx)
	return &domainAssets.Bundle{Version: v}, nil
}

func TestCache_ReusesBundleForSameVersion(t *testing.T) {
	repo := &fakeRepository{version: "v1"}
	cache := NewCache(repo, nil)

	a, err := cache.Get(context.Background())
	require.NoError(t, err)
	b, err := cache.Get(context.Background())
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.EqualValues(t, 1, repo.loads.Load())
}

func TestCache_ReloadsOnVersionChange(t *testing.T) {
	repo := &fakeRepository{version: "v1"}
	cache := NewCache(repo, nil)

	_, err := cache.Get(context.Background())
	require.NoError(t, err)

	repo.setVersion("v2")
	b, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v2", b.Version)
	assert.EqualValues(t, 2, repo.loads.Load())
}

func TestCache_Invalidate(t *testing.T) {
	repo := &fakeRepository{version: "v1"}
	cache := NewCache(repo, nil)

	_, err := cache.Get(context.Background())
	require.NoError(t, err)
	cache.Invalidate()
	_, err = cache.Get(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, repo.loads.Load())
}

func TestCache_ConcurrentLoadsAreShared(t *testing.T) {
	repo := &fakeRepository{version: "v1", delay: 50 * time.Millisecond}
	cache := NewCache(repo, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cache.Get(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, repo.loads.Load())
}

func TestCache_LoadErrorNotCached(t *testing.T) {
	repo := &fakeRepository{version: "v1", err: errors.New("boom")}
	cache := NewCache(repo, nil)

	_, err := cache.Get(context.Background())
	assert.Error(t, err)

	repo.err = nil
	_, err = cache.Get(context.Background())
	assert.NoError(t, err)
}
