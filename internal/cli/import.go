package cli

import (
	"fmt"
	"log"

	"hotspot-quiz-service/internal/domain"
	"hotspot-quiz-service/internal/infra/postgres"
	"hotspot-quiz-service/internal/infra/yamlfile"

	"github.com/spf13/cobra"
)

func newImportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import-catalog <file>...",
		Short: "Validate YAML catalogs and store them in postgres",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured")
			}

			// parse everything first so a bad file imports nothing
			catalogs := make([]domain.Catalog, 0, len(args))
			for _, path := range args {
				catalog, err := yamlfile.ParseFile(path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				catalogs = append(catalogs, catalog)
			}

			ctx := cmd.Context()
			if err := runMigrationsWithConfig(ctx, cfg); err != nil {
				return err
			}

			db := postgres.OpenDB(cfg.Postgres.URL)
			defer db.Close()
			writer := postgres.NewCatalogWriter(db)
			for _, catalog := range catalogs {
				if err := writer.Upsert(ctx, catalog); err != nil {
					return fmt.Errorf("import %s: %w", catalog.ID, err)
				}
				log.Printf("imported catalog %s (%d items)", catalog.ID, len(catalog.Items))
			}

			ids, err := writer.List(ctx)
			if err != nil {
				return err
			}
			log.Printf("catalogs in database: %v", ids)
			return nil
		},
	}
}
