package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"golang.org/x/sync/errgroup"

	"nursing-album-service/internal/domain"
)

// CatalogLoader reads the reference documents straight from the pool. The
// four collections are fetched concurrently.
type CatalogLoader struct {
	pool *pgxpool.Pool
}

func NewCatalogLoader(pool *pgxpool.Pool) *CatalogLoader {
	return &CatalogLoader{pool: pool}
}

func (l *CatalogLoader) LoadCatalog(ctx context.Context) (domain.Catalog, error) {
	var cat domain.Catalog
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return loadTable(ctx, l.pool, tableStickers, &cat.Stickers) })
	g.Go(func() error { return loadTable(ctx, l.pool, tableQuestions, &cat.Questions) })
	g.Go(func() error { return loadTable(ctx, l.pool, tableTopics, &cat.Topics) })
	g.Go(func() error { return loadTable(ctx, l.pool, tablePacks, &cat.Packs) })
	if err := g.Wait(); err != nil {
		return domain.Catalog{}, err
	}
	return cat, nil
}

func loadTable[T any](ctx context.Context, pool *pgxpool.Pool, table string, dst *[]T) error {
	rows, err := pool.Query(ctx, `SELECT id, data FROM `+table+` ORDER BY created_at, id`)
	if err != nil {
		return fmt.Errorf("load %s: %w", table, err)
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return fmt.Errorf("scan %s: %w", table, err)
		}
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("unmarshal %s/%s: %w", table, id, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load %s: %w", table, err)
	}
	*dst = out
	return nil
}
