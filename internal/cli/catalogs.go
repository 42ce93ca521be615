package cli

import (
	"context"

	"hotspot-quiz-service/internal/config"
	"hotspot-quiz-service/internal/infra/memory"
	"hotspot-quiz-service/internal/infra/postgres"
	"hotspot-quiz-service/internal/infra/yamlfile"

	"github.com/jackc/pgx/v4/pgxpool"
)

// newCatalogLoader resolves catalogs from postgres first, then the catalog
// directory, then the catalogs built into the binary.
func newCatalogLoader(ctx context.Context, cfg config.Config) (memory.CatalogLoader, func(), error) {
	chain := memory.ChainLoader{}
	closer := func() {}

	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, closer, err
		}
		closer = pool.Close
		chain = append(chain, postgres.NewCatalogLoader(pool))
	}
	if cfg.Quiz.Dir != "" {
		chain = append(chain, yamlfile.NewDirLoader(cfg.Quiz.Dir))
	}
	chain = append(chain, yamlfile.NewBuiltinLoader())
	return chain, closer, nil
}
