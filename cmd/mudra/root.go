package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/config"
)

var version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:          "mudra",
	Short:        "Control presentations with hand gestures",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "path to the TOML configuration file")
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".mudra", "config.toml")
}

// loadConfig reads the configuration file. A missing file at the default
// location yields the built-in defaults; a missing file named on the command
// line is an error.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, os.ErrNotExist) && !cmd.Flags().Changed("config") {
		return config.Default(), nil
	}
	return cfg, fmt.Errorf("load config: %w", err)
}
