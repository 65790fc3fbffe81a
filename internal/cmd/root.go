package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/GDA-Developers-Hub/victoria-kids-sub001/internal/config"
	"github.com/GDA-Developers-Hub/victoria-kids-sub001/internal/logger"
)

var configDir string

var rootCmd = &cobra.Command{
	Use:   "vkadmin",
	Short: "Victoria Kids admin API",
	Long: `vkadmin serves the admin API of the Victoria Kids storefront:
products, categories, orders, customers and the dashboard summary.

Configuration comes from config.yaml, .env and VKADMIN_* environment
variables. Every setting has a default, so "vkadmin serve" works out of
the box against the in-memory demo data.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "directory holding config.yaml")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration and sets up logging from it.
func loadConfig() (*config.Config, error) {
	var paths []string
	if configDir != "" {
		paths = append(paths, configDir)
	}
	cfg, err := config.LoadConfig(paths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Setup(logger.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	return cfg, nil
}
