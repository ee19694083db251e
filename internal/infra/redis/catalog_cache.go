package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"nursing-album-service/internal/domain"
)

// CatalogLoader fetches the reference data from a backing store (e.g., Postgres).
type CatalogLoader interface {
	LoadCatalog(ctx context.Context) (domain.Catalog, error)
}

// CatalogCache keeps the catalog snapshot in Redis so every instance shares it.
// The snapshot is stored as JSON under catalog:snapshot and invalidated by
// admin writes. Invalidate bumps catalog:version; a load only stores its
// snapshot if the version is unchanged since it started.
type CatalogCache struct {
	client *redis.Client
	loader CatalogLoader
	ttl    time.Duration
	sf     singleflight.Group
	rndMu  sync.Mutex
	rnd    *rand.Rand
}

const (
	catalogKey        = "catalog:snapshot"
	catalogVersionKey = "catalog:version"
)

var errStaleSnapshot = errors.New("catalog changed during load")

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func NewCatalogCache(client *redis.Client, loader CatalogLoader, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *CatalogCache) Catalog(ctx context.Context) (domain.Catalog, error) {
	if cat, ok := c.cached(ctx); ok {
		return cat, nil
	}

	result, err, _ := c.sf.Do(catalogKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if cat, ok := c.cached(ctx); ok {
			return cat, nil
		}

		version, versionErr := c.version(ctx, c.client)
		cat, err := c.loader.LoadCatalog(ctx)
		if err != nil {
			return domain.Catalog{}, err
		}

		data, err := json.Marshal(cat)
		if err != nil {
			return domain.Catalog{}, fmt.Errorf("marshal catalog: %w", err)
		}
		if versionErr == nil {
			// best-effort: a failed or stale write only costs another load
			_ = c.store(ctx, version, data)
		}
		return cat, nil
	})
	if err != nil {
		return domain.Catalog{}, err
	}
	return result.(domain.Catalog), nil
}

// Invalidate removes the shared snapshot and bumps the version so loads
// already in flight do not write it back.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, catalogVersionKey)
		pipe.Del(ctx, catalogKey)
		return nil
	})
	c.sf.Forget(catalogKey)
	if err != nil {
		return fmt.Errorf("invalidate catalog: %w", err)
	}
	return nil
}

// store writes the snapshot only if catalog:version still equals version.
func (c *CatalogCache) store(ctx context.Context, version int64, data []byte) error {
	return c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := c.version(ctx, tx)
		if err != nil {
			return err
		}
		if current != version {
			return errStaleSnapshot
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, catalogKey, data, c.ttlWithJitter())
			return nil
		})
		return err
	}, catalogVersionKey)
}

func (c *CatalogCache) version(ctx context.Context, cmd getter) (int64, error) {
	v, err := cmd.Get(ctx, catalogVersionKey).Int64()
	if isMiss(err) {
		return 0, nil
	}
	return v, err
}

func (c *CatalogCache) cached(ctx context.Context) (domain.Catalog, bool) {
	raw, err := c.client.Get(ctx, catalogKey).Bytes()
	if err != nil {
		return domain.Catalog{}, false
	}
	var cat domain.Catalog
	if err := json.Unmarshal(raw, &cat); err != nil {
		return domain.Catalog{}, false
	}
	return cat, true
}

func (c *CatalogCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

func isMiss(err error) bool {
	return errors.Is(err, redis.Nil)
}
