package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/encodeous/spantree/core"
	"github.com/encodeous/spantree/state"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the root election over a topology",
	Long: `Runs the protocol until no message is left in flight, then prints what every bridge and port converged to.
With --seed, deliveries are interleaved by a seeded random scheduler on a single goroutine so the run can be replayed.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := state.LoadTopology(topologyPath)
		if err != nil {
			panic(err)
		}

		level := slog.LevelInfo
		if ok, _ := cmd.Flags().GetBool("verbose"); ok {
			level = slog.LevelDebug
		}
		logPath := cfg.LogPath
		if p, _ := cmd.Flags().GetString("log"); p != "" {
			logPath = p
		}
		logger, closer, err := core.NewLogger(level, "spantree", logPath)
		if err != nil {
			panic(err)
		}
		defer closer.Close()

		if addr, _ := cmd.Flags().GetString("debug-addr"); addr != "" {
			go func() {
				// exposes /debug/vars and /debug/metrics
				err := http.ListenAndServe(addr, nil)
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("debug server failed", "addr", addr, "err", err)
				}
			}()
		}

		opts := core.RunOptions{}
		opts.Timeout, _ = cmd.Flags().GetDuration("timeout")
		if level == slog.LevelDebug {
			opts.Observer = func(to core.Addr, msg any) {
				logger.Debug("deliver", "to", fmt.Sprint(to), "msg", fmt.Sprint(msg))
			}
		}
		if cmd.Flags().Changed("seed") {
			opts.Deterministic = true
			opts.Seed, _ = cmd.Flags().GetUint64("seed")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		snap, err := core.Run(ctx, *cfg, logger, opts)
		if snap != nil {
			printSnapshot(snap)
		}
		if err != nil {
			logger.Error("protocol did not converge", "err", err)
			closer.Close()
			os.Exit(1)
		}
		if state.IsConnected(cfg) {
			err = snap.Verify(cfg)
			if err != nil {
				logger.Error("converged to an unexpected state", "err", err)
				closer.Close()
				os.Exit(1)
			}
		}
		root, _ := cfg.MinBridge()
		logger.Info("converged", "root", root.Name, "id", root.Id)
	},
	GroupID: "st",
}

func printSnapshot(snap core.Snapshot) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Bridge", "Id", "Root", "Distance", "Segment", "Best", "Forwarding"})
	for _, b := range snap {
		root := "-"
		dist := "inf"
		if !b.Claim.IsWorst() {
			root = strconv.FormatUint(uint64(b.Claim.Root), 10)
			dist = strconv.FormatUint(uint64(b.Claim.Distance), 10)
		}
		if b.IsRoot {
			root += " (self)"
		}
		id := strconv.FormatUint(uint64(b.Own), 10)
		if len(b.Ports) == 0 {
			table.Append([]string{string(b.Name), id, root, dist, "-", "-", "-"})
			continue
		}
		for _, p := range b.Ports {
			table.Append([]string{string(b.Name), id, root, dist, p.Segment, fmt.Sprint(p.IsBestPort), fmt.Sprint(p.Forwarding)})
		}
	}
	table.Render()
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("verbose", "v", false, "Verbose output, logs every protocol event")
	runCmd.Flags().Uint64P("seed", "s", 0, "Run deterministically with this scheduler seed")
	runCmd.Flags().Duration("timeout", 10*time.Second, "How long to wait for the protocol to quiesce")
	runCmd.Flags().String("log", "", "Also write logs to this file, overrides log_path")
	runCmd.Flags().String("debug-addr", "", "Serve expvar and metrics on this address, e.g. localhost:6060")
}
