// Package logging builds the shared application logger.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a logger that writes human-readable output to stderr and
// JSON entries to a log file, created on demand. Every entry carries a
// per-run session id so interleaved runs in one file stay separable.
// A file that cannot be opened downgrades to stderr-only logging rather
// than failing startup. The returned func flushes and closes the file.
func New(path string, debug bool) (*zap.SugaredLogger, func()) {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.Lock(os.Stderr),
			level,
		),
	}

	if path == "" {
		path = DefaultPath()
	}
	var file *os.File
	if path != "" {
		f, err := openLogFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "windowbox: cannot open log file %s: %v\n", path, err)
		} else {
			file = f
			encCfg := zap.NewProductionEncoderConfig()
			encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
			cores = append(cores, zapcore.NewCore(
				zapcore.NewJSONEncoder(encCfg),
				zapcore.AddSync(f),
				level,
			))
		}
	}

	logger := zap.New(zapcore.NewTee(cores...)).Sugar().With("session", uuid.NewString())
	cleanup := func() {
		logger.Sync()
		if file != nil {
			file.Close()
		}
	}
	return logger, cleanup
}

// DefaultPath is the log file location used when none is configured.
// Empty when no user cache directory can be resolved.
func DefaultPath() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "windowbox", "windowbox.log")
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}
