package jandas

import (
	"log/slog"
	"sync"
)

var (
	pkgLogger   = slog.New(slog.DiscardHandler)
	pkgLoggerMu sync.RWMutex
)

// SetLogger installs the logger used for debug events such as CSV reads,
// sampling and dtype promotion. Passing nil restores the silent default.
func SetLogger(l *slog.Logger) {
	pkgLoggerMu.Lock()
	defer pkgLoggerMu.Unlock()
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	pkgLogger = l
}

func logger() *slog.Logger {
	pkgLoggerMu.RLock()
	defer pkgLoggerMu.RUnlock()
	return pkgLogger
}
