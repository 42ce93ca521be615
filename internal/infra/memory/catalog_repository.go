package memory

import (
	"context"
	"sync"

	"hotspot-quiz-service/internal/domain"

	"golang.org/x/sync/singleflight"
)

// CatalogLoader fetches catalog content from a backing store (YAML, Postgres, ...).
type CatalogLoader interface {
	LoadCatalog(ctx context.Context, catalogID string) (domain.Catalog, error)
}

// CatalogRepository validates catalogs on first load and keeps them for the
// lifetime of the process; catalogs never change once served.
type CatalogRepository struct {
	loader CatalogLoader
	sf     singleflight.Group

	mu    sync.RWMutex
	cache map[string]domain.Catalog
}

func NewCatalogRepository(loader CatalogLoader) *CatalogRepository {
	return &CatalogRepository{
		loader: loader,
		cache:  make(map[string]domain.Catalog),
	}
}

func (r *CatalogRepository) GetCatalog(ctx context.Context, catalogID string) (domain.Catalog, error) {
	r.mu.RLock()
	if catalog, ok := r.cache[catalogID]; ok {
		r.mu.RUnlock()
		return catalog, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(catalogID, func() (interface{}, error) {
		r.mu.RLock()
		if catalog, ok := r.cache[catalogID]; ok {
			r.mu.RUnlock()
			return catalog, nil
		}
		r.mu.RUnlock()

		catalog, err := r.loader.LoadCatalog(ctx, catalogID)
		if err != nil {
			return domain.Catalog{}, err
		}
		if err := catalog.Validate(); err != nil {
			return domain.Catalog{}, err
		}

		r.mu.Lock()
		r.cache[catalogID] = catalog
		r.mu.Unlock()
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

// StaticCatalogLoader is a simple loader backed by an in-memory map (useful for tests/demos).
type StaticCatalogLoader struct {
	catalogs map[string]domain.Catalog
}

func NewStaticCatalogLoader(catalogs map[string]domain.Catalog) *StaticCatalogLoader {
	return &StaticCatalogLoader{catalogs: catalogs}
}

func (l *StaticCatalogLoader) LoadCatalog(_ context.Context, catalogID string) (domain.Catalog, error) {
	if catalog, ok := l.catalogs[catalogID]; ok {
		return catalog, nil
	}
	return domain.Catalog{}, domain.ErrCatalogNotFound
}
