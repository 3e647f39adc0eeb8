package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"time"

	"github.com/encodeous/spantree/state"
	"github.com/encodeous/tint"
	slogmulti "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds the console logger, fanned out to a rotating file when logPath is set.
func NewLogger(level slog.Level, prefix, logPath string) (*slog.Logger, io.Closer, error) {
	handlers := make([]slog.Handler, 0)
	handlers = append(handlers,
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:        level,
			AddSource:    false,
			CustomPrefix: prefix,
			ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
				if attr.Key == "time" {
					return slog.Attr{}
				}
				return attr
			},
		}))

	var closer io.Closer = io.NopCloser(nil)
	if logPath != "" {
		err := os.MkdirAll(path.Dir(logPath), 0700)
		if err != nil {
			return nil, nil, err
		}
		f := &lumberjack.Logger{
			Filename:   logPath,
			MaxSize:    16, // megabytes
			MaxBackups: 3,
		}
		closer = f
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
	}

	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}

type RunOptions struct {
	// Deterministic runs the protocol on a single goroutine with the given Seed instead of one goroutine per actor.
	Deterministic bool
	Seed          uint64
	Timeout       time.Duration
	Observer      Observer
}

// Run wires the topology, bootstraps every bridge with its configured id and waits for the protocol to quiesce.
// The returned snapshot is valid even when err is not nil.
func Run(ctx context.Context, cfg state.TopologyCfg, log *slog.Logger, opts RunOptions) (Snapshot, error) {
	topo, err := BuildTopology(&cfg)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if !state.IsConnected(&cfg) {
		log.Warn("topology is not connected, each component will elect its own root")
	}
	if !state.IsCycleFree(&cfg) {
		log.Warn("topology contains a cycle, convergence is not guaranteed")
	}

	if opts.Deterministic {
		s := NewStepper(topo, opts.Seed, log)
		s.Observer = opts.Observer
		s.BootstrapAll()
		n, err := s.Run(state.StepLimit)
		log.Info("run finished", "seed", opts.Seed, "deliveries", n)
		return s.Snapshot(), err
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = state.DrainTimeout
	}
	env := state.NewEnv(ctx, cfg, log)
	n := NewNetwork(env, topo)
	n.Observer = opts.Observer
	// every bridge has its id before any claim can reach it
	n.BootstrapAll()
	err = n.Start()
	if err != nil {
		return nil, err
	}

	dctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	drainErr := n.Drain(dctx)
	if drainErr == nil {
		n.Logger.Info("protocol quiesced")
	}
	stopErr := n.Stop(errors.New("run complete"))
	snap, err := n.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if drainErr != nil {
		return snap, fmt.Errorf("waiting for quiescence: %w", drainErr)
	}
	return snap, stopErr
}
