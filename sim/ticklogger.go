package sim

import (
	"github.com/sirupsen/logrus"
)

// TickLogger is a hook that reports the progress of a Driver.
type TickLogger struct {
	logger   logrus.FieldLogger
	interval uint64
}

// NewTickLogger returns a TickLogger that writes one entry every interval
// cycles.
func NewTickLogger(logger logrus.FieldLogger, interval uint64) *TickLogger {
	if interval == 0 {
		interval = 1
	}

	return &TickLogger{logger: logger, interval: interval}
}

// Func writes the cycle into the logger.
func (h *TickLogger) Func(ctx HookCtx) {
	if ctx.Pos != HookPosAfterTick {
		return
	}

	cycle, ok := ctx.Item.(uint64)
	if !ok || cycle%h.interval != 0 {
		return
	}

	entry := h.logger.WithField("cycle", cycle)
	if named, ok := ctx.Domain.(Named); ok {
		entry = entry.WithField("where", named.Name())
	}

	entry.Debug("tick")
}
