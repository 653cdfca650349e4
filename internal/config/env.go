package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// DefaultEnvPaths are searched in order by LoadEnv; the first one found wins.
var DefaultEnvPaths = []string{
	".env",
	".env.local",
	"../.env",
	"../../.env",
}

// LoadEnv loads environment variables from the first .env file that exists.
// Variables already set in the process environment are not overridden. It
// returns the path that was loaded, or "" when none was found.
func LoadEnv(paths ...string) (string, error) {
	if len(paths) == 0 {
		paths = DefaultEnvPaths
	}

	// Look for .env file, but don't fail if not found (environment variables might be set system-wide)
	for _, envPath := range paths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return "", fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			return envPath, nil
		}
	}
	return "", nil
}

// Bootstrap loads the first .env file found in envPaths (or DefaultEnvPaths)
// and then the configuration from configPath and the environment.
func Bootstrap(configPath string, envPaths ...string) (*Config, string, error) {
	envFile, err := LoadEnv(envPaths...)
	if err != nil {
		return nil, "", err
	}
	cfg, err := Load(configPath)
	if err != nil {
		return nil, envFile, err
	}
	return cfg, envFile, nil
}
