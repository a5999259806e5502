package cli

import (
	"os"
	"path/filepath"
)

// configDir returns the config directory using XDG standard (~/.config/gravitas/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// defaultPresetsFile returns the user's presets file path when one exists,
// or "" when there is none. Commands fall back to the built-in presets.
func defaultPresetsFile() string {
	dir, err := configDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(dir, "presets.toml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
