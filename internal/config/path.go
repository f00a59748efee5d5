package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// expandHome expands a leading '~' in a config path to the user's home directory.
func expandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	// handle ~/.config/domainllm.yaml
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}
