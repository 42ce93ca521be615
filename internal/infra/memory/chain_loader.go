package memory

import (
	"context"
	"errors"

	"hotspot-quiz-service/internal/domain"
)

// ChainLoader asks each loader in turn until one knows the catalog.
type ChainLoader []CatalogLoader

func (c ChainLoader) LoadCatalog(ctx context.Context, catalogID string) (domain.Catalog, error) {
	for _, loader := range c {
		catalog, err := loader.LoadCatalog(ctx, catalogID)
		if errors.Is(err, domain.ErrCatalogNotFound) {
			continue
		}
		return catalog, err
	}
	return domain.Catalog{}, domain.ErrCatalogNotFound
}
