package cli

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hotspot-quiz-service/internal/app"
	"hotspot-quiz-service/internal/config"
	"hotspot-quiz-service/internal/infra/memory"
	redisinfra "hotspot-quiz-service/internal/infra/redis"
	transport "hotspot-quiz-service/internal/transport/http"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// sessionReaper evicts rounds nobody has touched for a while.
type sessionReaper interface {
	RunReaper(ctx context.Context, idle time.Duration)
}

// catalogStore is a catalog repository that can be warmed at startup.
type catalogStore interface {
	app.CatalogRepository
	Preload(ctx context.Context, catalogIDs ...string) error
}

func newStartCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), opts)
		},
	}
}

func runServer(ctx context.Context, opts *options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	loader, closeLoader, err := newCatalogLoader(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeLoader()

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	var catalogs catalogStore
	if redisClient != nil {
		catalogs = redisinfra.NewCatalogRepository(redisClient, loader, config.TTLDuration(cfg.Quiz.CacheTTL, 10*time.Minute))
	} else {
		catalogs = memory.NewCatalogRepository(loader)
	}
	// a broken catalog must stop the process before it serves anything
	if err := catalogs.Preload(ctx, cfg.CatalogIDs()...); err != nil {
		return err
	}

	var (
		store        app.SessionRepository
		reaper       sessionReaper
		liveSessions func(context.Context) (int, error)
	)
	if redisClient != nil {
		sessions := redisinfra.NewSessionStore(redisClient, config.TTLDuration(cfg.Redis.TTL, 10*time.Minute))
		store, reaper, liveSessions = sessions, sessions, sessions.CountLive
	} else {
		sessions := memory.NewSessionStore()
		store, reaper = sessions, sessions
		liveSessions = func(context.Context) (int, error) { return sessions.Len(), nil }
	}

	reapCtx, stopReaper := context.WithCancel(ctx)
	defer stopReaper()
	go reaper.RunReaper(reapCtx, config.TTLDuration(cfg.Quiz.SessionTimeout, 30*time.Minute))

	delay := config.TTLDuration(cfg.Quiz.FeedbackDelay, app.DefaultFeedbackDelay)
	service := app.NewQuizService(store, catalogs, app.WithFeedbackDelay(delay))

	secure := cfg.Server.TLSCert != "" && cfg.Server.TLSKey != ""
	router := transport.NewRouter(service, transport.Options{
		Prefix:         cfg.Server.Prefix,
		DefaultCatalog: cfg.Quiz.Default,
		Version:        releaseVersion,
		Profile:        cfg.Server.Profile,
		Secure:         secure,
		Verbose:        opts.verbose,
		LiveSessions:   liveSessions,
	})

	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Bind, cfg.Server.Port),
		Handler:           router,
		IdleTimeout:       10 * time.Minute,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	go func() {
		var err error
		log.Printf("starting hotspot quiz v%s on %s (catalogs: %v)", releaseVersion, server.Addr, cfg.CatalogIDs())
		if secure {
			err = server.ListenAndServeTLS(cfg.Server.TLSCert, cfg.Server.TLSKey)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
