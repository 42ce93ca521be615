package cli

import (
	"fmt"
	"strings"

	"hotspot-quiz-service/internal/config"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const releaseVersion = "0.1.0"

// options holds flag values; every flag can also be set through a
// HOTSPOT_QUIZ_* environment variable.
type options struct {
	configPath  string
	bind        string
	port        string
	prefix      string
	profile     bool
	tlsCert     string
	tlsKey      string
	verbose     bool
	redisAddr   string
	postgresURL string
	catalogDir  string
}

// Execute runs the CLI.
func Execute() error {
	return newRootCmd(&options{}).Execute()
}

func newRootCmd(opts *options) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("HOTSPOT_QUIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "hotspot-quiz",
		Short:         "Image hotspot quiz served over HTTP and WebSocket",
		Version:       releaseVersion,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	fs := cmd.PersistentFlags()
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVar(&opts.configPath, "config", "", "path to YAML config (env: HOTSPOT_QUIZ_CONFIG)")
	fs.StringVarP(&opts.bind, "bind", "b", "", "address to bind to (env: HOTSPOT_QUIZ_BIND)")
	fs.StringVarP(&opts.port, "port", "p", "", "port to listen on (env: HOTSPOT_QUIZ_PORT)")
	fs.StringVar(&opts.prefix, "prefix", "", "path to prepend to all URLs (env: HOTSPOT_QUIZ_PREFIX)")
	fs.BoolVar(&opts.profile, "profile", false, "register net/http/pprof handlers (env: HOTSPOT_QUIZ_PROFILE)")
	fs.StringVar(&opts.tlsCert, "tls-cert", "", "path to tls certificate (env: HOTSPOT_QUIZ_TLS_CERT)")
	fs.StringVar(&opts.tlsKey, "tls-key", "", "path to tls keyfile (env: HOTSPOT_QUIZ_TLS_KEY)")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "log every request (env: HOTSPOT_QUIZ_VERBOSE)")
	fs.StringVar(&opts.redisAddr, "redis-addr", "", "redis address for catalog cache and session liveness (env: HOTSPOT_QUIZ_REDIS_ADDR)")
	fs.StringVar(&opts.postgresURL, "postgres-url", "", "postgres DSN holding imported catalogs (env: HOTSPOT_QUIZ_POSTGRES_URL)")
	fs.StringVar(&opts.catalogDir, "catalog-dir", "", "directory of <id>.yaml catalogs (env: HOTSPOT_QUIZ_CATALOG_DIR)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetVersionTemplate("hotspot-quiz v{{.Version}}\n")

	cmd.AddCommand(newStartCmd(opts))
	cmd.AddCommand(newMigrateCmd(opts))
	cmd.AddCommand(newImportCmd(opts))
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newListCmd(opts))
	cmd.AddCommand(newPlayCmd(opts))
	return cmd
}

// loadConfig reads the YAML file and lets flags and env override it.
func loadConfig(opts *options) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return cfg, err
	}
	if opts.bind != "" {
		cfg.Server.Bind = opts.bind
	}
	if opts.port != "" {
		cfg.Server.Port = opts.port
	}
	if opts.prefix != "" {
		cfg.Server.Prefix = opts.prefix
	}
	if opts.profile {
		cfg.Server.Profile = true
	}
	if opts.tlsCert != "" {
		cfg.Server.TLSCert = opts.tlsCert
	}
	if opts.tlsKey != "" {
		cfg.Server.TLSKey = opts.tlsKey
	}
	if opts.redisAddr != "" {
		cfg.Redis.Addr = opts.redisAddr
	}
	if opts.postgresURL != "" {
		cfg.Postgres.URL = opts.postgresURL
	}
	if opts.catalogDir != "" {
		cfg.Quiz.Dir = opts.catalogDir
	}
	return cfg, validate(cfg)
}

func validate(cfg config.Config) error {
	if (cfg.Server.TLSCert == "") != (cfg.Server.TLSKey == "") {
		return fmt.Errorf("both --tls-cert and --tls-key must be provided together")
	}
	if cfg.Quiz.Default == "" {
		return fmt.Errorf("no default catalog configured")
	}
	return nil
}
