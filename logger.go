package dispersion

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// loggerPtr stores the active logger. Accessed atomically so that SetLogger
// can be called while preparation workers are logging.
var loggerPtr atomic.Pointer[zap.Logger]

func init() {
	loggerPtr.Store(zap.NewNop())
}

// SetLogger configures the package logger. By default nothing is logged.
// Pass nil to restore the silent default.
//
// Levels used:
//   - Debug: preparation lifecycle, sampling summaries (debug mode only)
//   - Warn: misuse detected in debug mode
//   - Error: a preparation worker failed
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	loggerPtr.Store(l)
}

// Logger returns the package logger.
func Logger() *zap.Logger {
	return loggerPtr.Load()
}
