// Package logger holds the process-wide structured logger.
package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ariel-frischer/contractkit/internal/errors"
)

var (
	// Logger is the global logger. It is a no-op until Initialize runs.
	Logger *zap.SugaredLogger
	// JSONOutput reports whether Initialize selected JSON output.
	JSONOutput bool
)

func init() {
	Logger = zap.NewNop().Sugar()
}

// Initialize replaces the global logger. JSON output uses zap's production
// config; otherwise a console encoder writes to stderr so generated output
// on stdout stays clean.
func Initialize(jsonOutput bool, level string) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}

	var zapLogger *zap.Logger
	if jsonOutput {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(lvl)
		config.OutputPaths = []string{"stderr"}
		zapLogger, err = config.Build()
		if err != nil {
			return errors.Wrap(err, "building json logger")
		}
	} else {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.TimeKey = ""
		encCfg.CallerKey = ""
		zapLogger = zap.New(zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.Lock(os.Stderr),
			lvl,
		))
	}

	JSONOutput = jsonOutput
	Logger = zapLogger.Sugar()
	return nil
}

// ParseLevel maps a level name to a zap level. Empty means warn.
func ParseLevel(level string) (zapcore.Level, error) {
	if strings.TrimSpace(level) == "" {
		return zapcore.WarnLevel, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return lvl, errors.WithHint(errors.Newf("unknown log level %q", level), "use debug, info, warn or error")
	}
	return lvl, nil
}

// Named returns a child of the global logger.
func Named(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// Sync flushes the global logger. Errors from syncing stderr are ignored.
func Sync() {
	_ = Logger.Sync()
}
