package dispersion

import (
	"image"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// debugMode gates sampling statistics and misuse warnings. Read from
// preparation workers, hence atomic.
var debugMode atomic.Bool

// SetDebugMode enables or disables debug mode. When enabled, every Build logs
// a sampling summary and drawing or mutating a cleared effect logs a
// warning. Output goes to the package Logger at Debug and Warn levels.
func SetDebugMode(enabled bool) {
	debugMode.Store(enabled)
}

func debugEnabled() bool {
	return debugMode.Load()
}

// sampleStats summarizes one Build call. Only populated in debug mode.
type sampleStats struct {
	regions int
	skipped int
	empty   int
	colors  int
	points  int
	elapsed time.Duration
}

func logSampleStats(s sampleStats) {
	Logger().Debug("sampled snapshot",
		zap.Int("regions", s.regions),
		zap.Int("skipped", s.skipped),
		zap.Int("empty", s.empty),
		zap.Int("colors", s.colors),
		zap.Int("points", s.points),
		zap.Duration("elapsed", s.elapsed))
}

// debugWarnCleared reports use of an effect after Clear. The call itself is
// safe; the warning only points at a lifecycle bug in the host.
func debugWarnCleared(op string, bounds image.Rectangle) {
	if !debugEnabled() {
		return
	}
	Logger().Warn("effect used after clear",
		zap.String("op", op),
		zap.Stringer("bounds", bounds))
}
