package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/offero/disim/internal/config"
	"github.com/offero/disim/internal/diffusion"
	"github.com/offero/disim/internal/experiment"
	"github.com/offero/disim/internal/logging"
	"github.com/offero/disim/internal/plotting"
	"github.com/offero/disim/internal/results"
	"github.com/offero/disim/internal/stats"
	"github.com/offero/disim/internal/visualization"
)

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a diffusion experiment sweep",
		Long: `Run the full experiment sweep: for every combination of
peripheral tie count and ambiguity level, generate a core-periphery
network and repeat the adoption trial the configured number of times.

Each direction writes its own output directory containing the trial and
case CSV logs, a SQLite results database, diffusion charts, regression
summaries, and optional per-trial DOT graph files.

Examples:
  disim simulate -d down -n 31 -t 100 -o out/
  disim simulate -d both --dots wpp --seed 7 --workers 8 -o out/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			dirFlag, _ := cmd.Flags().GetString("direction")
			dotsFlag, _ := cmd.Flags().GetString("dots")
			outRoot, _ := cmd.Flags().GetString("output-dir")
			level := cfg.Logging.Level

			directions, err := parseDirections(dirFlag)
			if err != nil {
				return err
			}
			filter, err := visualization.ParseFilter(dotsFlag)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			log := logging.NewLogger(level, cmd.ErrOrStderr())
			for _, dir := range directions {
				outDir := filepath.Join(outRoot, fmt.Sprintf("Trickle-%s-Simulation", dir))
				if err := runSimulation(cmd, cfg, dir, filter, outDir, level); err != nil {
					return fmt.Errorf("trickle-%s simulation: %w", dir, err)
				}
				log.Info("simulation complete", "direction", string(dir), "output", outDir)
			}
			return nil
		},
	}

	cmd.Flags().StringP("direction", "d", "down", "Diffusion direction (down, up, or both)")
	cmd.Flags().IntP("nodes", "n", 0, "Total network size (overrides config)")
	cmd.Flags().IntP("trials", "t", 0, "Trials per parameter cell (overrides config)")
	cmd.Flags().Float64("cp-ratio", 0, "Core fraction of the network (overrides config)")
	cmd.Flags().StringP("dots", "D", "none", "Graph output per trial (all, wpp, or none)")
	cmd.Flags().StringP("output-dir", "o", ".", "Root directory for simulation output")
	cmd.Flags().Uint64("seed", 0, "Base random seed (overrides config)")
	cmd.Flags().Int("workers", 0, "Concurrent trials per cell (overrides config)")

	return cmd
}

// loadConfig builds the effective config: file values over defaults, then
// flag values over the file.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("nodes") {
		cfg.Nodes, _ = cmd.Flags().GetInt("nodes")
	}
	if cmd.Flags().Changed("trials") {
		cfg.Trials, _ = cmd.Flags().GetInt("trials")
	}
	if cmd.Flags().Changed("cp-ratio") {
		cfg.CPRatio, _ = cmd.Flags().GetFloat64("cp-ratio")
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed, _ = cmd.Flags().GetUint64("seed")
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers, _ = cmd.Flags().GetInt("workers")
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level, _ = cmd.Flags().GetString("log-level")
	}
	return cfg, nil
}

func parseDirections(s string) ([]diffusion.Direction, error) {
	if s == "both" {
		return []diffusion.Direction{diffusion.TrickleDown, diffusion.TrickleUp}, nil
	}
	dir, err := diffusion.ParseDirection(s)
	if err != nil {
		return nil, err
	}
	return []diffusion.Direction{dir}, nil
}

// collectingTrialLogger tees trial rows to downstream loggers while keeping
// them in memory for the post-run regression pass.
type collectingTrialLogger struct {
	rows []stats.TrialRow
	next []experiment.TrialLogger
}

func (c *collectingTrialLogger) LogTrial(row stats.TrialRow) error {
	c.rows = append(c.rows, row)
	for _, l := range c.next {
		if err := l.LogTrial(row); err != nil {
			return err
		}
	}
	return nil
}

func runSimulation(cmd *cobra.Command, cfg *config.Config, dir diffusion.Direction,
	filter visualization.Filter, outDir, level string) error {

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	trialFile, err := os.Create(filepath.Join(outDir, fmt.Sprintf("experimentTrialLog-n%d.csv", cfg.Nodes)))
	if err != nil {
		return fmt.Errorf("create trial log: %w", err)
	}
	defer trialFile.Close()

	caseFile, err := os.Create(filepath.Join(outDir, fmt.Sprintf("experimentCaseLog-n%d.csv", cfg.Nodes)))
	if err != nil {
		return fmt.Errorf("create case log: %w", err)
	}
	defer caseFile.Close()

	store, err := results.Open(filepath.Join(outDir, "results.db"))
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	runID, err := store.CreateRun(ctx, results.RunMeta{
		Direction:     string(dir),
		Nodes:         cfg.Nodes,
		CoreNodes:     cfg.NumCore(),
		TrialsPerCell: cfg.Trials,
		Seed:          cfg.Seed,
	})
	if err != nil {
		return err
	}

	trace := logging.NewTraceLogger(outDir, cfg.Logging.Level)
	defer trace.Close()

	trials := &collectingTrialLogger{next: []experiment.TrialLogger{
		experiment.NewCSVTrialLogger(trialFile),
		store.Recorder(ctx, runID),
	}}

	driver := &experiment.Driver{
		Config:    cfg,
		Direction: dir,
		Log:       logging.NewLogger(level, cmd.ErrOrStderr()),
		Trace:     trace,
		Trials:    trials,
		Cases:     experiment.NewCSVCaseLogger(caseFile),
		Renderer:  &visualization.DOTRenderer{Dir: outDir, Filter: filter},
	}
	caseLog, err := driver.Run(ctx)
	if err != nil {
		return err
	}

	if err := plotting.WriteCharts(caseLog, outDir); err != nil {
		return err
	}
	return writeRegressions(trials.rows, outDir)
}
