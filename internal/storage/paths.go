// Package storage provides persistent storage for preferences, the resumable
// session and finished games.
package storage

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "fairyplay"

// GetDataDir returns the platform-specific data directory for the application.
// - macOS: ~/Library/Application Support/fairyplay/
// - Linux: ~/.local/share/fairyplay/
// - Windows: %APPDATA%/fairyplay/
func GetDataDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		baseDir = filepath.Join(homeDir, "Library", "Application Support")

	case "windows":
		baseDir = os.Getenv("APPDATA")
		if baseDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(homeDir, "AppData", "Roaming")
		}

	default:
		// Check XDG_DATA_HOME first
		baseDir = os.Getenv("XDG_DATA_HOME")
		if baseDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(homeDir, ".local", "share")
		}
	}

	return ensureDir(filepath.Join(baseDir, appName))
}

// GetDatabaseDir returns the directory for the BadgerDB database under root.
// An empty root means the platform data directory.
func GetDatabaseDir(root string) (string, error) {
	if root == "" {
		var err error
		if root, err = GetDataDir(); err != nil {
			return "", err
		}
	}
	return ensureDir(filepath.Join(root, "db"))
}

// GetGamesDir returns the directory PGN exports are written to.
func GetGamesDir(root string) (string, error) {
	if root == "" {
		var err error
		if root, err = GetDataDir(); err != nil {
			return "", err
		}
	}
	return ensureDir(filepath.Join(root, "games"))
}

func ensureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}
