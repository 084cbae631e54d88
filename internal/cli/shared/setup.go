package shared

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/contractkit/internal/config"
	clierrors "github.com/ariel-frischer/contractkit/internal/errors"
	"github.com/ariel-frischer/contractkit/internal/logger"
	"github.com/ariel-frischer/contractkit/internal/progress"
)

// LoadConfig loads the configuration named by --config and initialises the
// global logger from it. --verbose raises the level to info, --debug to debug.
func LoadConfig(cmd *cobra.Command) (*config.Configuration, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		if configPath != "" && !fileExists(configPath) {
			return nil, clierrors.ConfigFileNotFound(configPath)
		}
		return nil, clierrors.ConfigParseError(displayPath(configPath), err)
	}

	level := cfg.LogLevel
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = "info"
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		level = "debug"
	}
	if err := logger.Initialize(cfg.LogJSON, level); err != nil {
		return nil, clierrors.WrapCategory(err, clierrors.Configuration)
	}
	logger.Logger.Debugw("configuration loaded", logger.FieldCount, len(cfg.Sources))
	return cfg, nil
}

// StringFlag returns the flag value when it was set, otherwise fallback.
func StringFlag(cmd *cobra.Command, name, fallback string) string {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	return fallback
}

// IntFlag returns the flag value when it was set, otherwise fallback.
func IntFlag(cmd *cobra.Command, name string, fallback int) int {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetInt(name)
		return v
	}
	return fallback
}

// BoolFlag returns the flag value when it was set, otherwise fallback.
func BoolFlag(cmd *cobra.Command, name string, fallback bool) bool {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetBool(name)
		return v
	}
	return fallback
}

// NewDisplay returns a progress display on the command's error stream.
func NewDisplay(cmd *cobra.Command) *progress.Display {
	return progress.NewDisplay(progress.DetectTerminalCapabilities(), cmd.ErrOrStderr())
}

// RequireFile checks that path names an existing file and returns missing
// otherwise.
func RequireFile(path string, missing func(string) *clierrors.CLIError) error {
	if !fileExists(path) {
		return missing(path)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func displayPath(path string) string {
	if path == "" {
		return config.ProjectConfigPath()
	}
	return path
}

// DirExists reports whether path is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
