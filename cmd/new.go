package cmd

import (
	"fmt"
	"os"

	"github.com/encodeous/spantree/state"
	"github.com/spf13/cobra"
)

var newCmd = &cobra.Command{
	Use:       "new [line|star|tree|shared|ring]",
	Short:     "Generates a sample topology file",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"line", "star", "tree", "shared", "ring"},
	Run: func(cmd *cobra.Command, args []string) {
		n, _ := cmd.Flags().GetInt("bridges")
		fanout, _ := cmd.Flags().GetInt("fanout")
		start, _ := cmd.Flags().GetUint32("start-id")
		force, _ := cmd.Flags().GetBool("force")
		if n < 1 {
			fmt.Fprintln(os.Stderr, "need at least one bridge")
			os.Exit(1)
		}

		ids := state.SequentialIds(state.BridgeId(start), n)
		var cfg state.TopologyCfg
		switch args[0] {
		case "line":
			cfg = state.SampleLine(ids...)
		case "star":
			cfg = state.SampleStar(ids...)
		case "tree":
			cfg = state.SampleTree(fanout, ids...)
		case "shared":
			cfg = state.SampleShared(ids...)
		case "ring":
			cfg = state.SampleRing(ids...)
		}

		err := state.TopologyValidator(&cfg)
		if err != nil {
			panic(err)
		}
		if err := state.PathValidator(topologyPath); err != nil {
			fmt.Fprintln(os.Stderr, "Cannot write topology:", err)
			os.Exit(1)
		}
		if _, err := os.Stat(topologyPath); err == nil && !force {
			fmt.Fprintf(os.Stderr, "%s already exists, use --force to overwrite it\n", topologyPath)
			os.Exit(1)
		}
		err = state.WriteTopology(topologyPath, &cfg)
		if err != nil {
			panic(err)
		}
		fmt.Printf("Wrote %s topology with %d bridges to %s\n", args[0], n, topologyPath)
	},
	GroupID: "init",
}

func init() {
	rootCmd.AddCommand(newCmd)

	newCmd.Flags().IntP("bridges", "n", 4, "Number of bridges")
	newCmd.Flags().Int("fanout", 2, "Children per bridge for tree topologies")
	newCmd.Flags().Uint32("start-id", 1, "Smallest bridge id, given to the last bridge")
	newCmd.Flags().BoolP("force", "f", false, "Overwrite an existing topology file")
}
