// Package applog configures the process-wide structured logger. Log
// records are written as JSON lines to a size-rotated file so that a
// long-running tracker daemon never fills the disk.
package applog

import (
	"log/slog"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxLogSizeMB = 5
	maxBackups   = 3
	maxAgeDays   = 28
)

var (
	once   sync.Once
	logger *slog.Logger
)

// Init sets up the rotating JSON logger at the given path. It is safe to
// call more than once; only the first call takes effect.
func Init(logFile string) {
	once.Do(func() {
		w := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    maxLogSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   true,
		}

		logger = slog.New(slog.NewJSONHandler(w, nil))

		slog.SetDefault(logger)
	})
}

// L returns the configured logger, or the default slog logger when Init
// has not run (tests, library use).
func L() *slog.Logger {
	if logger == nil {
		return slog.Default()
	}

	return logger
}
