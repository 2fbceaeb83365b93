package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetHome returns the ctxgen home directory
// Priority order:
//  1. CTXGEN_HOME environment variable (if set)
//  2. .ctxgen in the current working directory
//
// The directory is created if it doesn't exist
func GetHome() (string, error) {
	if home := os.Getenv("CTXGEN_HOME"); home != "" {
		if err := os.MkdirAll(home, 0755); err != nil {
			return "", fmt.Errorf("create ctxgen home directory: %w", err)
		}
		return home, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	home := filepath.Join(cwd, ".ctxgen")
	if err := os.MkdirAll(home, 0755); err != nil {
		return "", fmt.Errorf("create ctxgen home directory: %w", err)
	}
	return home, nil
}

// DefaultConfigPath returns .ctxgen/config.yaml under the working directory.
func DefaultConfigPath() string {
	return filepath.Join(".ctxgen", "config.yaml")
}
