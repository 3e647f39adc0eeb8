package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/encodeous/spantree/state"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Validates a topology file and shows the expected outcome",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := state.LoadTopology(topologyPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Topology is invalid:", err)
			os.Exit(1)
		}

		fmt.Printf("Topology is valid: %d bridges, %d segments, %d adjacent pairs\n", len(cfg.Bridges), len(cfg.Segments), len(state.Adjacency(cfg)))
		if !state.IsConnected(cfg) {
			fmt.Println("warning: not every bridge can reach every other bridge, each component elects its own root")
		}
		if !state.IsCycleFree(cfg) {
			fmt.Println("warning: the wiring has a cycle, convergence is not guaranteed")
		}

		root, _ := cfg.MinBridge()
		dist := state.HopDistances(cfg, root.Name)
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Bridge", "Id", "Segments", "Expected Claim"})
		for _, b := range cfg.Bridges {
			expected := "own component"
			if d, ok := dist[b.Name]; ok {
				expected = state.Claim{Root: root.Id, Distance: d}.String()
			}
			table.Append([]string{
				string(b.Name),
				strconv.FormatUint(uint64(b.Id), 10),
				strings.Join(cfg.SegmentsOf(b.Name), ", "),
				expected,
			})
		}
		table.Render()
	},
	GroupID: "st",
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
