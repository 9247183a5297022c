// Package cli implements workcellctl, a diagnostic operator tool for the
// engine: it loads a YAML scenario, drives it through a rate-limited
// synthetic tick loop standing in for a host game loop, and prints
// dump_state/get_counts output. It is not an example game — there is no
// rendering, no input handling, nothing beyond exercising the engine and its
// host adapters the way a real host would.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

// NewRootCommand creates the root command for workcellctl.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "workcellctl",
		Short: "workcellctl drives the workcell engine against a scenario file",
		Long: `workcellctl is an operator CLI for the workcell orchestration engine.

It loads a scenario (workers, storages, workstations, transports, dangling
items) from YAML and ticks the engine forward, reporting engine-level
metrics and state along the way.

Examples:
  workcellctl run --scenario scenario.yaml --ticks 50
  workcellctl run --scenario scenario.yaml --ticks 50 --dump --save --save-as demo
  workcellctl snapshot list
  workcellctl snapshot restore demo`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.yaml (default: search standard locations)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newSnapshotCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
