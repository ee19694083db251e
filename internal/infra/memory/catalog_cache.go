package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"nursing-album-service/internal/domain"
)

// CatalogLoader fetches the reference data from a backing store.
type CatalogLoader interface {
	LoadCatalog(ctx context.Context) (domain.Catalog, error)
}

const catalogKey = "catalog"

// CatalogCache caches the catalog snapshot with TTL to avoid repeated store hits.
type CatalogCache struct {
	loader CatalogLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu        sync.RWMutex
	cached    *domain.Catalog
	expiresAt time.Time
	// generation is bumped by Invalidate; a load started under an older
	// generation is returned to its callers but never cached.
	generation uint64
}

func NewCatalogCache(loader CatalogLoader, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *CatalogCache) Catalog(ctx context.Context) (domain.Catalog, error) {
	if cat, ok := c.fresh(c.clock()); ok {
		return cat, nil
	}

	result, err, _ := c.sf.Do(catalogKey, func() (interface{}, error) {
		now := c.clock()
		if cat, ok := c.fresh(now); ok {
			return cat, nil
		}

		c.mu.RLock()
		gen := c.generation
		c.mu.RUnlock()

		cat, err := c.loader.LoadCatalog(ctx)
		if err != nil {
			return domain.Catalog{}, err
		}

		c.mu.Lock()
		if c.generation == gen {
			c.cached = &cat
			c.expiresAt = now.Add(c.ttlWithJitter())
		}
		c.mu.Unlock()
		return cat, nil
	})
	if err != nil {
		return domain.Catalog{}, err
	}
	return result.(domain.Catalog), nil
}

// Invalidate drops the cached snapshot so the next read reloads it.
func (c *CatalogCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	c.cached = nil
	c.generation++
	c.mu.Unlock()
	c.sf.Forget(catalogKey)
	return nil
}

func (c *CatalogCache) fresh(now time.Time) (domain.Catalog, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.cached != nil && c.expiresAt.After(now) {
		return *c.cached, true
	}
	return domain.Catalog{}, false
}

func (c *CatalogCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
