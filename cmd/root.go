package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"reactionkg/internal/config"
	"reactionkg/internal/db"
	"reactionkg/internal/logger"
)

// EnvDBPath overrides every other database location.
const EnvDBPath = "REACTIONKG_DB"

var ErrNoDatabase = errors.New("no database configured")

var (
	cfgPath  string
	dbPath   string
	logLevel string
	logMode  string

	appConfig *config.Config
	log       = logger.Nop()
)

var rootCmd = &cobra.Command{
	Use:           "reactionkg",
	Short:         "Convert reaction spreadsheets into a knowledge graph",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, source, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		cfg.ApplyEnv()
		if logMode != "" {
			cfg.Log.Mode = logMode
		}

		l, err := logger.New(cfg.Log.Mode, logLevel)
		if err != nil {
			return err
		}
		appConfig, log = cfg, l
		if source != "" {
			log.Debug("loaded config", "path", source)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		log.Sync()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to reactionkg.yaml (default: $REACTIONKG_CONFIG or ./reactionkg.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the sqlite graph store")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logMode, "log-mode", "", "Log encoder: dev or prod (overrides log.mode)")
}

// DiscoverDB finds the database path using priority: env > flag > config.
// It does not require the file to exist.
func DiscoverDB(cfg *config.Config) (string, error) {
	if envPath := os.Getenv(EnvDBPath); envPath != "" {
		return envPath, nil
	}
	if dbPath != "" {
		return dbPath, nil
	}
	if cfg != nil && cfg.Store.DB != "" {
		return cfg.Store.DB, nil
	}
	return "", fmt.Errorf("%w (set %s, use --db, or set store.db)", ErrNoDatabase, EnvDBPath)
}

// OpenDatabase discovers and opens an existing database
func OpenDatabase(cfg *config.Config) (*db.DB, error) {
	path, err := DiscoverDB(cfg)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("database not found: %s", path)
	}
	return db.OpenDB(path)
}
