package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/offero/disim/internal/experiment"
	"github.com/offero/disim/internal/plotting"
)

func newPlotStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plotstats",
		Short: "Render diffusion charts from a recorded case log",
		Long: `Re-render the peripheral and core diffusion charts from a case
log CSV produced by a previous simulate run, without rerunning the
simulation.

Example:
  disim plotstats -i out/Trickle-down-Simulation/experimentCaseLog-n31.csv -o out/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			inPath, _ := cmd.Flags().GetString("input")
			outDir, _ := cmd.Flags().GetString("output-dir")

			f, err := os.Open(inPath)
			if err != nil {
				return fmt.Errorf("open case log: %w", err)
			}
			defer f.Close()

			caseLog, err := experiment.LoadCaseLog(f)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			return plotting.WriteCharts(caseLog, outDir)
		},
	}

	cmd.Flags().StringP("input", "i", "", "Case log CSV to plot (required)")
	cmd.Flags().StringP("output-dir", "o", ".", "Directory for chart output")
	cmd.MarkFlagRequired("input")

	return cmd
}
