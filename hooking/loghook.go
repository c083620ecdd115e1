package hooking

import (
	"context"
	"log/slog"
)

// A LogHook writes every hook invocation into a structured log.
type LogHook struct {
	logger *slog.Logger
	level  slog.Level
}

// NewLogHook creates a LogHook that logs at the given level.
func NewLogHook(logger *slog.Logger, level slog.Level) *LogHook {
	return &LogHook{logger: logger, level: level}
}

// Func logs the position, the domain and the item.
func (h *LogHook) Func(ctx HookCtx) {
	if !h.logger.Enabled(context.Background(), h.level) {
		return
	}

	attrs := []any{"pos", ctx.Pos.Name}

	if named, ok := ctx.Domain.(NamedHookable); ok {
		attrs = append(attrs, "domain", named.Name())
	}

	attrs = append(attrs, "item", ctx.Item)

	if ctx.Detail != nil {
		attrs = append(attrs, "detail", ctx.Detail)
	}

	h.logger.Log(context.Background(), h.level, "hook", attrs...)
}
