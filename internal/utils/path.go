package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// UserConfigDir returns the platform config directory for app,
// honouring XDG_CONFIG_HOME on Linux and APPDATA on Windows.
func UserConfigDir(app string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	switch runtime.GOOS {
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, app), nil
		}
		return filepath.Join(homeDir, ".config", app), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, app), nil
		}
		return filepath.Join(homeDir, "AppData", "Roaming", app), nil
	default:
		return filepath.Join(homeDir, ".config", app), nil
	}
}

// FindFile resolves name as given first, then inside each of searchDirs.
// Absolute names are never searched for.
func FindFile(name string, searchDirs []string) (string, error) {
	if FileExists(name) {
		return name, nil
	}
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("%s: %w", name, os.ErrNotExist)
	}
	for _, dir := range searchDirs {
		candidate := filepath.Join(dir, name)
		if FileExists(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%s not found in working dir or %d search paths: %w", name, len(searchDirs), os.ErrNotExist)
}

// IsNotFound reports whether err came from FindFile failing to locate a file.
func IsNotFound(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
