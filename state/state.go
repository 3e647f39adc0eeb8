package state

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// Env can be read from any Goroutine
type Env struct {
	TopologyCfg
	Context  context.Context
	Cancel   context.CancelCauseFunc
	Log      *slog.Logger
	Started  atomic.Bool
	Stopping atomic.Bool
}

func NewEnv(ctx context.Context, cfg TopologyCfg, log *slog.Logger) *Env {
	ctx, cancel := context.WithCancelCause(ctx)
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Env{
		TopologyCfg: cfg,
		Context:     ctx,
		Cancel:      cancel,
		Log:         log,
	}
}
