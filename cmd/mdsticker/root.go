package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/fuchigta/mdsticker/internal/config"
	"github.com/fuchigta/mdsticker/internal/logging"
	"github.com/fuchigta/mdsticker/internal/search"
	"github.com/fuchigta/mdsticker/internal/storage"
)

// app carries what every subcommand needs once flags are parsed
type app struct {
	configPath string
	dataDir    string
	verbose    bool

	cfg    config.Config
	logger *logging.Logger
}

func (a *app) log() *zerolog.Logger {
	if a.logger == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return &a.logger.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "mdsticker",
		Short: "Maintain the mdsticker note store",
		Long: `mdsticker keeps markdown sticky notes in a local SQLite store.
These commands inspect and repair the store and its search index while the
desktop app is not running.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			if a.dataDir != "" {
				cfg.DataDir = a.dataDir
			}
			if a.verbose {
				cfg.Log.Level = "debug"
			}
			a.cfg = cfg

			a.logger, err = logging.New(logging.Options{
				Level:  cfg.Log.Level,
				Format: cfg.Log.Format,
				File:   cfg.Log.File,
			})
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.logger == nil {
				return nil
			}
			return a.logger.Close()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "config.yaml", "Configuration file")
	rootCmd.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "Directory for database and index files (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(
		newMigrateCmd(a),
		newListCmd(a),
		newGetCmd(a),
		newTrashCmd(a),
		newRestoreCmd(a),
		newPurgeCmd(a),
		newSearchCmd(a),
		newReindexCmd(a),
		newStatsCmd(a),
	)

	return rootCmd
}

func (a *app) openStore() (*storage.DB, error) {
	if err := os.MkdirAll(a.cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	db, err := storage.Open(a.cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

// openIndex returns nil when indexing is disabled in the config
func (a *app) openIndex() (*search.Index, error) {
	path := a.cfg.IndexPath()
	if path == "" {
		return nil, nil
	}
	idx, err := search.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open search index: %w", err)
	}
	return idx, nil
}
