package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"hotspot-quiz-service/internal/domain"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// CatalogLoader fetches catalog content from a backing store (YAML, Postgres, ...).
type CatalogLoader interface {
	LoadCatalog(ctx context.Context, catalogID string) (domain.Catalog, error)
}

// CatalogRepository caches catalogs in Redis and falls back to a loader on miss.
// Layout:
//
//	HSET  catalog:{id}:meta  title .. image_url .. texts {json}
//	RPUSH catalog:{id}:items {item json} ...   (catalog order)
type CatalogRepository struct {
	client *redis.Client
	loader CatalogLoader
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewCatalogRepository(client *redis.Client, loader CatalogLoader, ttl time.Duration) *CatalogRepository {
	return &CatalogRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CatalogRepository) GetCatalog(ctx context.Context, catalogID string) (domain.Catalog, error) {
	if catalog, ok := r.cached(ctx, catalogID); ok {
		return catalog, nil
	}

	result, err, _ := r.sf.Do(catalogID, func() (interface{}, error) {
		// Re-check cache in case another instance filled it.
		if catalog, ok := r.cached(ctx, catalogID); ok {
			return catalog, nil
		}

		catalog, err := r.loader.LoadCatalog(ctx, catalogID)
		if err != nil {
			return domain.Catalog{}, err
		}
		if err := catalog.Validate(); err != nil {
			return domain.Catalog{}, err
		}
		if err := r.store(ctx, catalog); err != nil {
			return domain.Catalog{}, fmt.Errorf("cache catalog %q: %w", catalogID, err)
		}
		return catalog, nil
	})
	if err != nil {
		return domain.Catalog{}, err
	}
	return result.(domain.Catalog), nil
}

// Preload loads every listed catalog so configuration errors surface at startup.
func (r *CatalogRepository) Preload(ctx context.Context, catalogIDs ...string) error {
	for _, id := range catalogIDs {
		if _, err := r.GetCatalog(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *CatalogRepository) cached(ctx context.Context, catalogID string) (domain.Catalog, bool) {
	pipe := r.client.Pipeline()
	metaCmd := pipe.HGetAll(ctx, r.metaKey(catalogID))
	itemsCmd := pipe.LRange(ctx, r.itemsKey(catalogID), 0, -1)
	if _, err := pipe.Exec(ctx); err != nil {
		return domain.Catalog{}, false
	}

	rawItems := itemsCmd.Val()
	if len(rawItems) == 0 {
		return domain.Catalog{}, false
	}
	meta := metaCmd.Val()

	catalog := domain.Catalog{
		ID:       catalogID,
		Title:    meta["title"],
		ImageURL: meta["image_url"],
		Items:    make([]domain.QuizItem, 0, len(rawItems)),
	}
	if raw := meta["texts"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &catalog.Texts); err != nil {
			return domain.Catalog{}, false
		}
	}
	for _, raw := range rawItems {
		var item domain.QuizItem
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			return domain.Catalog{}, false
		}
		catalog.Items = append(catalog.Items, item)
	}
	if catalog.Validate() != nil {
		return domain.Catalog{}, false
	}
	return catalog, true
}

func (r *CatalogRepository) store(ctx context.Context, catalog domain.Catalog) error {
	texts, err := json.Marshal(catalog.Texts)
	if err != nil {
		return err
	}
	items := make([]interface{}, 0, len(catalog.Items))
	for _, item := range catalog.Items {
		raw, err := json.Marshal(item)
		if err != nil {
			return err
		}
		items = append(items, string(raw))
	}

	metaKey, itemsKey := r.metaKey(catalog.ID), r.itemsKey(catalog.ID)
	ttl := r.ttlWithJitter()

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, itemsKey)
		pipe.HSet(ctx, metaKey, "title", catalog.Title, "image_url", catalog.ImageURL, "texts", string(texts))
		pipe.RPush(ctx, itemsKey, items...)
		if ttl > 0 {
			pipe.Expire(ctx, metaKey, ttl)
			pipe.Expire(ctx, itemsKey, ttl)
		}
		return nil
	})
	return err
}

func (r *CatalogRepository) metaKey(catalogID string) string {
	return "catalog:" + catalogID + ":meta"
}

func (r *CatalogRepository) itemsKey(catalogID string) string {
	return "catalog:" + catalogID + ":items"
}

func (r *CatalogRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
