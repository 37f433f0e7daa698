package hw

import (
	"context"
	"log/slog"
)

// LevelTrace is the level used for per-cycle events such as a PE firing.
const LevelTrace slog.Level = slog.LevelInfo + 1

// Trace logs a per-cycle event at LevelTrace.
func Trace(msg string, args ...any) {
	ctx := context.Background()
	if !slog.Default().Enabled(ctx, LevelTrace) {
		return
	}

	slog.Log(ctx, LevelTrace, msg, args...)
}
