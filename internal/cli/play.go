package cli

import (
	"hotspot-quiz-service/internal/app"
	"hotspot-quiz-service/internal/config"
	"hotspot-quiz-service/internal/infra/memory"
	"hotspot-quiz-service/internal/transport/tui"

	"github.com/spf13/cobra"
)

func newPlayCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "play [catalog]",
		Short: "Play a catalog in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			catalogID := cfg.Quiz.Default
			if len(args) == 1 {
				catalogID = args[0]
			}

			ctx := cmd.Context()
			loader, closeLoader, err := newCatalogLoader(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeLoader()

			catalog, err := memory.NewCatalogRepository(loader).GetCatalog(ctx, catalogID)
			if err != nil {
				return err
			}

			delay := config.TTLDuration(cfg.Quiz.FeedbackDelay, app.DefaultFeedbackDelay)
			return tui.Run(app.NewController(catalog, app.WithFeedbackDelay(delay)))
		},
	}
}
