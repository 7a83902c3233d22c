// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the bookshelf CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/bookshelf/internal/catalog"
	"github.com/pdiddy/bookshelf/internal/httputil"
	"github.com/pdiddy/bookshelf/internal/inventory"
	"github.com/pdiddy/bookshelf/internal/logging"
	"github.com/pdiddy/bookshelf/internal/search"
	"github.com/pdiddy/bookshelf/internal/secrets"
	"github.com/pdiddy/bookshelf/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// cfg is the merged configuration loaded before any subcommand runs.
	cfg types.Config

	// logger is built from cfg.Log.
	logger = zap.NewNop()

	// loadedSecrets holds API keys loaded from .secrets/ at startup.
	loadedSecrets map[string]string
)

// rootCmd is the base command for the bookshelf CLI.
var rootCmd = &cobra.Command{
	Use:   "bookshelf",
	Short: "Find books in the catalog and keep a personal inventory",
	Long: `bookshelf searches the Rakuten Books catalog by title and author at the
same time, merges both result lists, and marks the books you have already
registered so that nothing is registered twice.

Use search to browse, lookup to find a book by ISBN or JAN code, and
register or inventory to manage what you own.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("reading configuration: %w", err)
		}
		l, err := logging.New(cfg.Log)
		if err != nil {
			return err
		}
		logger = l

		s, err := secrets.Load(".secrets/", logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			logger.Debug("loaded secrets", zap.Strings("keys", keys))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./bookshelf.yaml or ~/.config/bookshelf/bookshelf.yaml)")
	rootCmd.PersistentFlags().String("db", "", "inventory database path (default data/bookshelf.db)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	viper.BindPFlag("inventory.path", rootCmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	viper.SetDefault("catalog.base_url", catalog.DefaultBaseURL)
	viper.SetDefault("catalog.application_id", "")
	viper.SetDefault("catalog.timeout", "15s")
	viper.SetDefault("catalog.user_agent", "bookshelf/"+version)
	viper.SetDefault("catalog.requests_per_second", 1.0)
	viper.SetDefault("catalog.max_retries", httputil.DefaultMaxRetries)
	viper.SetDefault("inventory.path", inventory.DefaultPath)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")
}

func initConfig() {
	// A missing .env is normal outside development.
	_ = godotenv.Load(".env")

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("bookshelf")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "bookshelf"))
		}
	}

	viper.SetEnvPrefix("BOOKSHELF")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newCoordinator wires the catalog client into a search coordinator.
func newCoordinator() *search.Coordinator {
	cc := cfg.Catalog
	cc.ApplicationID = secrets.Lookup(loadedSecrets, secrets.RakutenApplicationID, cc.ApplicationID)
	if cc.ApplicationID == "" {
		logger.Warn("no catalog application id configured; set catalog.application_id or .secrets/" + secrets.RakutenApplicationID)
	}
	return search.NewCoordinator(catalog.NewClient(cc, logger), logger)
}

func openInventory() (*inventory.Store, error) {
	return inventory.Open(cfg.Inventory, logger)
}

// catalogError turns catalog failures into a retry hint for the user.
func catalogError(err error) error {
	if catalog.Retryable(err) {
		return fmt.Errorf("the catalog is unavailable right now, please try again: %w", err)
	}
	return err
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
