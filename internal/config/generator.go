package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// configFormats are the file formats viper can write for us.
var configFormats = map[string]bool{
	"yaml": true,
	"toml": true,
	"json": true,
}

// GenerateConfig writes a default config file in the user config
// directory and returns its path. It refuses to overwrite an existing
// file.
func GenerateConfig(format string) (string, error) {
	if !configFormats[format] {
		return "", fmt.Errorf("unsupported config format %q (yaml, toml, or json)", format)
	}

	dir, err := UserConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	path := filepath.Join(dir, "config."+format)
	if _, err := os.Stat(path); err == nil {
		return path, fmt.Errorf("config file already exists: %s", path)
	}

	v := NewViperFromConfig(Default())
	v.SetConfigType(format)
	if err := v.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}

// GenerateConfigIfNotExists writes a default config unless one already
// exists in any supported format. It returns the config path and
// whether a new file was written.
func GenerateConfigIfNotExists(format string) (string, bool, error) {
	if path, ok := existingConfigFile(); ok {
		return path, false, nil
	}
	path, err := GenerateConfig(format)
	if err != nil {
		return "", false, err
	}
	return path, true, nil
}

// existingConfigFile looks for a config file in the user config
// directory, in any supported format.
func existingConfigFile() (string, bool) {
	dir, err := UserConfigDir()
	if err != nil {
		return "", false
	}
	for _, format := range []string{"yaml", "toml", "json"} {
		path := filepath.Join(dir, "config."+format)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}
