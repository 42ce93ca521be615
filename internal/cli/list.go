package cli

import (
	"fmt"

	"hotspot-quiz-service/internal/infra/postgres"
	"hotspot-quiz-service/internal/infra/yamlfile"

	"github.com/spf13/cobra"
)

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list-catalogs",
		Short: "List the catalogs every configured source can serve",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if cfg.Postgres.URL != "" {
				db := postgres.OpenDB(cfg.Postgres.URL)
				defer db.Close()
				ids, err := postgres.NewCatalogWriter(db).List(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "postgres: %v\n", ids)
			}
			if cfg.Quiz.Dir != "" {
				ids, err := yamlfile.NewDirLoader(cfg.Quiz.Dir).IDs()
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s: %v\n", cfg.Quiz.Dir, ids)
			}
			ids, err := yamlfile.NewBuiltinLoader().IDs()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "builtin: %v\n", ids)
			return nil
		},
	}
}
