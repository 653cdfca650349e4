// Package flags holds the persistent flags shared by every subcommand.
package flags

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fir-voice/internal/config"
)

const (
	ConfigFlag  = "config"
	EnvFileFlag = "env-file"
)

// Register adds the shared flags to the root command
func Register(root *cobra.Command) {
	root.PersistentFlags().StringP(ConfigFlag, "c", "", "YAML config file (default $CONFIG_FILE)")
	root.PersistentFlags().String(EnvFileFlag, "", "load environment from this file instead of searching for .env")
}

// LoadConfig reads .env and the configuration the way every command does
func LoadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString(ConfigFlag)
	envFile, _ := cmd.Flags().GetString(EnvFileFlag)

	var envPaths []string
	if envFile != "" {
		if _, err := os.Stat(envFile); err != nil {
			return nil, fmt.Errorf("env file: %w", err)
		}
		envPaths = []string{envFile}
	}

	cfg, _, err := config.Bootstrap(configPath, envPaths...)
	return cfg, err
}
