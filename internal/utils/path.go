package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath resolves environment variables and a leading tilde in a path,
// so config values like "~/.local/share/todosync/tasks.db" or "$HOME/tasks.db"
// point at real files. Absolute paths pass through unchanged.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}

	path = os.ExpandEnv(path)

	if strings.HasPrefix(path, "~/") || path == "~" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if path == "~" {
			return homeDir, nil
		}
		path = filepath.Join(homeDir, path[2:])
	}

	return path, nil
}
