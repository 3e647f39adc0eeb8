package cmd

import (
	"os"

	"github.com/encodeous/spantree/state"
	"github.com/spf13/cobra"
)

var topologyPath = state.DefaultTopologyPath

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "spantree",
	Short: "Spanning tree root election simulator",
	Long: `spantree elects a single root bridge over a fixed wiring of bridges and shared segments.
Every bridge, port and segment gate runs as its own actor, and the only thing they share is the messages they post to each other.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddGroup(&cobra.Group{
		ID:    "init",
		Title: "Create Topologies",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "st",
		Title: "Protocol Commands",
	})
	rootCmd.PersistentFlags().StringVarP(&topologyPath, "topology", "t", topologyPath, "topology file")
}
