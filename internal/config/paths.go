package config

import (
	"os"
	"path/filepath"

	"github.com/ariel-frischer/contractkit/internal/errors"
)

// DirName is the per-project and per-user configuration directory.
const DirName = ".contractkit"

// FileName is the configuration file inside DirName.
const FileName = "config.json"

// UserConfigPath returns the user-level config file. $XDG_CONFIG_HOME, when
// set, takes precedence over the home directory.
func UserConfigPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "contractkit", FileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "locating home directory")
	}
	return filepath.Join(home, DirName, FileName), nil
}

// ProjectConfigPath returns the project-level config file, relative to the
// working directory.
func ProjectConfigPath() string {
	return filepath.Join(DirName, FileName)
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if len(path) >= 2 && path[:2] == "~/" {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
