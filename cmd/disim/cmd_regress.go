package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/offero/disim/internal/stats"
)

func newRegressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "regress",
		Short: "Fit adoption regressions over a recorded trial log",
		Long: `Fit standardized OLS regressions of peripheral adoption against
ambiguity, core diffusion and peripheral density, over several subsets of
the trial log (restricted tie counts, low and high network density) and
with and without the boundary terms. Each fit is written to its own
summary file.

Example:
  disim regress -i out/Trickle-down-Simulation/experimentTrialLog-n31.csv -o out/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			inPath, _ := cmd.Flags().GetString("input")
			outDir, _ := cmd.Flags().GetString("output-dir")

			f, err := os.Open(inPath)
			if err != nil {
				return fmt.Errorf("open trial log: %w", err)
			}
			defer f.Close()

			rows, err := stats.ReadTrialLog(f)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			return writeRegressions(rows, outDir)
		},
	}

	cmd.Flags().StringP("input", "i", "", "Trial log CSV to regress (required)")
	cmd.Flags().StringP("output-dir", "o", ".", "Directory for regression summaries")
	cmd.MarkFlagRequired("input")

	return cmd
}

type regressionSpec struct {
	name string
	opts stats.RegressionOptions
}

// regressionSpecs enumerates the fitted subsets: full sample and sparse tie
// counts, crossed with unrestricted, low and high network density, each
// with and without the boundary terms.
func regressionSpecs() []regressionSpec {
	ties := []struct {
		name string
		rg   *stats.Range
	}{
		{"allties", nil},
		{"ties0-185", &stats.Range{Min: 0, Max: 185}},
	}
	densities := []struct {
		name string
		rg   *stats.Range
	}{
		{"alldensity", nil},
		{"lowdensity", &stats.Range{Min: 0, Max: 0.5}},
		{"highdensity", &stats.Range{Min: 0.5, Max: 1}},
	}

	var specs []regressionSpec
	for _, t := range ties {
		for _, d := range densities {
			for _, boundary := range []bool{false, true} {
				name := fmt.Sprintf("%s-%s", t.name, d.name)
				if boundary {
					name += "-boundary"
				}
				specs = append(specs, regressionSpec{
					name: name,
					opts: stats.RegressionOptions{
						TieRange:     t.rg,
						DensityRange: d.rg,
						WithBoundary: boundary,
					},
				})
			}
		}
	}
	return specs
}

// writeRegressions fits every regression spec over rows and writes one
// summary file per fit. Subsets with no matching records are skipped.
func writeRegressions(rows []stats.TrialRow, outDir string) error {
	for _, spec := range regressionSpecs() {
		reg, err := stats.RegressTrials(rows, spec.opts)
		if errors.Is(err, stats.ErrNoRecords) {
			continue
		}
		if err != nil {
			return fmt.Errorf("regression %s: %w", spec.name, err)
		}
		path := filepath.Join(outDir, fmt.Sprintf("Regression-%s.txt", spec.name))
		if err := os.WriteFile(path, []byte(reg.Summary()), 0o644); err != nil {
			return fmt.Errorf("write regression %s: %w", spec.name, err)
		}
	}
	return nil
}
