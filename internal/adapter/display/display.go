// Package display provides the frame sinks of the monitor: the e-ink panel
// and a PNG writer used for debugging and as a fallback when no panel is
// attached.
package display

import (
	"github.com/berfenger/solaredge2eink/internal/core/port"

	"go.uber.org/zap"
)

// New returns the file backend when debug is set. Otherwise it opens the
// e-ink panel and falls back to the file backend if the panel is unavailable.
func New(debug bool, dir string, logger *zap.Logger) (port.Display, error) {
	if !debug {
		eink, err := NewEInk(logger)
		if err == nil {
			logger.Info("e-ink display ready")
			return eink, nil
		}
		logger.Warn("e-ink display unavailable, writing frames to files", zap.Error(err), zap.String("dir", dir))
	}
	return NewFileDisplay(dir, logger)
}
