package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"nursing-album-service/internal/domain"
	"nursing-album-service/internal/infra/memory"
)

func TestCatalogCacheCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	loader := &countingLoader{CatalogLoader: memory.NewStore(sampleCatalog())}
	cache := NewCatalogCache(client, loader, time.Minute)

	cat, err := cache.Catalog(context.Background())
	if err != nil {
		t.Fatalf("get catalog: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists(catalogKey) {
		t.Fatalf("expected snapshot stored in redis")
	}
	if len(cat.Stickers) != 1 || cat.Stickers[0].Rarity != domain.RarityLegendary {
		t.Fatalf("unexpected catalog %+v", cat)
	}

	// Second call should hit cache, loader not incremented.
	cat, _ = cache.Catalog(context.Background())
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if len(cat.Questions) != 1 || len(cat.Questions[0].Options) != 4 {
		t.Fatalf("expected questions to round-trip through redis, got %+v", cat.Questions)
	}
}

func TestCatalogCacheInvalidate(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{CatalogLoader: memory.NewStore(sampleCatalog())}
	cache := NewCatalogCache(newClient(mr), loader, time.Minute)
	ctx := context.Background()

	_, _ = cache.Catalog(ctx)
	if err := cache.Invalidate(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if mr.Exists(catalogKey) {
		t.Fatalf("expected snapshot removed")
	}
	_, _ = cache.Catalog(ctx)
	if loader.calls != 2 {
		t.Fatalf("expected reload after invalidate, calls=%d", loader.calls)
	}
}

func TestCatalogCacheDropsLoadOverlappingInvalidate(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := newGatedLoader("old")
	cache := NewCatalogCache(newClient(mr), loader, time.Minute)
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = cache.Catalog(ctx)
	}()
	<-loader.started

	loader.setTopic("new")
	if err := cache.Invalidate(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	close(loader.release)
	<-done

	cat, err := cache.Catalog(ctx)
	if err != nil {
		t.Fatalf("get catalog: %v", err)
	}
	if len(cat.Topics) != 1 || cat.Topics[0].Name != "new" {
		t.Fatalf("expected snapshot loaded after invalidate, got %+v", cat.Topics)
	}
	if got, _ := mr.Get(catalogVersionKey); got != "1" {
		t.Fatalf("expected version bumped to 1, got %q", got)
	}
}

func TestCatalogCacheExpires(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{CatalogLoader: memory.NewStore(sampleCatalog())}
	cache := NewCatalogCache(newClient(mr), loader, time.Minute)

	_, _ = cache.Catalog(context.Background())
	mr.FastForward(2 * time.Minute)
	_, _ = cache.Catalog(context.Background())
	if loader.calls != 2 {
		t.Fatalf("expected reload after ttl, calls=%d", loader.calls)
	}
}

// gatedLoader reads its topic name up front, then blocks the first load until release closes.
type gatedLoader struct {
	mu      sync.Mutex
	topic   string
	once    sync.Once
	started chan struct{}
	release chan struct{}
}

func newGatedLoader(topic string) *gatedLoader {
	return &gatedLoader{topic: topic, started: make(chan struct{}), release: make(chan struct{})}
}

func (l *gatedLoader) setTopic(topic string) {
	l.mu.Lock()
	l.topic = topic
	l.mu.Unlock()
}

func (l *gatedLoader) LoadCatalog(context.Context) (domain.Catalog, error) {
	l.mu.Lock()
	topic := l.topic
	l.mu.Unlock()
	l.once.Do(func() { close(l.started) })
	<-l.release
	return domain.Catalog{Topics: []domain.QuizTopic{{ID: "t1", Name: topic}}}, nil
}

type countingLoader struct {
	CatalogLoader
	calls int
}

func (l *countingLoader) LoadCatalog(ctx context.Context) (domain.Catalog, error) {
	l.calls++
	return l.CatalogLoader.LoadCatalog(ctx)
}

func sampleCatalog() domain.Catalog {
	return domain.Catalog{
		Stickers: []domain.Sticker{{ID: "2", Name: "Florence Nightingale", Rarity: domain.RarityLegendary}},
		Questions: []domain.QuizQuestion{{
			ID:         "welcome-q1",
			Question:   "Qual é o objetivo?",
			Options:    []string{"a", "b", "c", "d"},
			Difficulty: domain.DifficultyEasy,
			Topic:      "Humanização",
		}},
		Topics: []domain.QuizTopic{{ID: "t7", Name: "Humanização", Icon: "🤝"}},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
