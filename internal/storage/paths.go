package storage

import (
	"os"
	"path/filepath"
)

const appName = ".courier"

// DefaultStoragePath returns the default storage location
// Platform-specific paths:
//   - macOS/Linux: ~/.courier
//   - Windows: %USERPROFILE%\.courier
func DefaultStoragePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, appName), nil
}
