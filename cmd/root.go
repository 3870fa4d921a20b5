package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"powermap/core/internal/config"
	"powermap/core/internal/db"
	"powermap/core/internal/metrics"
	"powermap/core/internal/network"
	"powermap/core/internal/pgstore"
)

// DBFileName is the database looked up when walking up from the working directory
const DBFileName = ".powermap.db"

var (
	_ network.FullStore = (*db.DB)(nil)
	_ network.FullStore = (*pgstore.Store)(nil)
)

var (
	dbPath      string
	configPath  string
	logLevel    string
	logFormat   string
	metricsFile string
	postgresDSN string

	cfg      = config.Default()
	logger   = slog.New(slog.DiscardHandler)
	registry *metrics.Registry
)

var rootCmd = &cobra.Command{
	Use:           "powermap",
	Short:         "Stakeholder power map assembly and analysis",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, path, err := config.LoadDiscovered(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			c.Log.Level = logLevel
		}
		if cmd.Flags().Changed("log-format") {
			c.Log.Format = logFormat
		}
		if err := c.Validate(); err != nil {
			return err
		}

		cfg = c
		logger = newLogger(c.Log.Level, c.Log.Format, cmd.ErrOrStderr())
		registry = metrics.NewRegistry()
		if path != "" {
			logger.Debug("config loaded", "path", path)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if metricsFile == "" {
			return nil
		}
		if err := registry.WriteTextfile(metricsFile); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dbPath, "db", "", "Path to the "+DBFileName+" database")
	pf.StringVar(&configPath, "config", "", "Path to a "+config.FileName+" file")
	pf.StringVar(&postgresDSN, "postgres-dsn", "", "Read from PostgreSQL instead of SQLite")
	pf.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&logFormat, "log-format", "text", "Log format: text or json")
	pf.StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics to this file on exit")
}

// DiscoverDB finds the database path using priority: env > flag > config > walk-up
func DiscoverDB() (string, error) {
	if envPath := os.Getenv("POWERMAP_DB"); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
	}

	if dbPath != "" {
		if _, err := os.Stat(dbPath); err == nil {
			return dbPath, nil
		}
		return "", fmt.Errorf("database not found at --db path: %s", dbPath)
	}

	if cfg.Database != "" {
		if _, err := os.Stat(cfg.Database); err == nil {
			return cfg.Database, nil
		}
		return "", fmt.Errorf("database not found at configured path: %s", cfg.Database)
	}

	if path := config.FindUp(DBFileName); path != "" {
		return path, nil
	}
	return "", fmt.Errorf("no %s found (set POWERMAP_DB, use --db, or run from a directory containing %s)", DBFileName, DBFileName)
}

// openStore connects to PostgreSQL when a DSN is configured, otherwise to the
// discovered SQLite database. The returned func releases the store.
func openStore(ctx context.Context) (network.FullStore, func(), error) {
	dsn := postgresDSN
	if dsn == "" {
		dsn = cfg.PostgresDSN
	}
	if dsn != "" {
		s, err := pgstore.Open(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("using postgres store")
		return s, s.Close, nil
	}

	path, err := DiscoverDB()
	if err != nil {
		return nil, nil, err
	}
	d, err := db.OpenDB(path)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("using sqlite store", "path", path)
	return d, func() { d.Close() }, nil
}

// serviceOptions maps the loaded configuration onto service settings
func serviceOptions(c *config.Config) network.ServiceOptions {
	opts := network.DefaultServiceOptions()
	opts.Pipeline.FallbackContactID = c.Network.FallbackContactID
	opts.Pipeline.ContactLimit = c.Network.ContactLimit
	opts.Pipeline.Attributes = network.AttributeNames{
		Influence: c.Attrs.Influence,
		Support:   c.Attrs.Support,
		Strength:  c.Attrs.Strength,
		Notes:     c.Attrs.Notes,
	}
	opts.Pipeline.DefaultLevel = c.Attrs.DefaultLevel
	opts.Pipeline.DefaultStrength = c.Attrs.DefaultStrength
	opts.SchemaCacheSize = c.Attrs.CacheSize
	opts.Analyzer.HubThreshold = c.Analytics.HubThreshold
	opts.Analyzer.KeyInfluencerLimit = c.Analytics.KeyInfluencerLimit
	opts.Analyzer.CommunityResolution = c.Analytics.CommunityResolution
	opts.Analyzer.CommunitySeed = c.Analytics.CommunitySeed
	return opts
}

// withService opens the store, builds a service over it and runs fn
func withService(cmd *cobra.Command, opts network.ServiceOptions, fn func(ctx context.Context, svc *network.Service) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	store, closeStore, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()
	return fn(ctx, network.NewService(store, opts, registry, logger))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
