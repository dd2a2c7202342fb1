// Package cmd provides the command-line interface of memsim.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// Version is the version of memsim. It is set at link time.
var Version = "dev"

// NewRootCmd creates the memsim command with all its subcommands.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "memsim",
		Short: "memsim simulates the memory subsystem of a multi-core system.",
		Long: `memsim is a cycle-driven simulator of cores, private L1 caches, ` +
			`a shared L2, an interconnect, a memory controller and a DRAM ` +
			`device. It can run random workloads or scripted scenarios.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newScenarioCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the memsim command. The registered exit handlers run before
// the process ends.
func Execute() {
	err := NewRootCmd().Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of memsim.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "memsim %s\n", Version)
		},
	}
}
