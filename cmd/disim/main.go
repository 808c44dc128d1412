package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "disim",
		Short: "Diffusion of innovations simulator",
		Long: `disim simulates bandwagon diffusion of an innovation over
core-periphery networks, following the Abrahamson & Rosenkopf threshold
model. It sweeps network density against decision ambiguity, records
per-trial adoption outcomes, and analyzes the boundary conditions that
let a bandwagon cross between network segments.`,
	}

	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (error, warn, info, debug, trace)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newSimulateCmd(),
		newPlotStatsCmd(),
		newRegressCmd(),
	)
	return rootCmd
}
