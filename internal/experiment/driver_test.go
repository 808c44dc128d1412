package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/offero/disim/internal/config"
	"github.com/offero/disim/internal/diffusion"
	"github.com/offero/disim/internal/network"
	"github.com/offero/disim/internal/stats"
)

type memTrialLog struct {
	rows []stats.TrialRow
}

func (m *memTrialLog) LogTrial(row stats.TrialRow) error {
	m.rows = append(m.rows, row)
	return nil
}

type memCaseLog struct {
	rows []CaseRow
}

func (m *memCaseLog) LogCase(row CaseRow) error {
	m.rows = append(m.rows, row)
	return nil
}

type countingRenderer struct {
	calls int
}

func (r *countingRenderer) RenderTrial(net *network.Network, row stats.TrialRow) error {
	if net.AdoptedCount(network.SegmentCore)+net.AdoptedCount(network.SegmentPeriphery) == 0 {
		return errors.New("rendered network has no adopters")
	}
	r.calls++
	return nil
}

// smallConfig keeps the sweep cheap: 9 nodes, 3 tie levels, 2 ambiguity
// levels, 5 trials per cell.
func smallConfig() *config.Config {
	cfg := config.Default()
	cfg.Nodes = 9
	cfg.CPRatio = 1.0 / 3.0
	cfg.TieInterval = 16
	cfg.AmbiguityMin = 1
	cfg.AmbiguityMax = 2
	cfg.Trials = 5
	cfg.Seed = 7
	return cfg
}

func TestDriverRunSweepShape(t *testing.T) {
	cfg := smallConfig()
	trials := &memTrialLog{}
	cases := &memCaseLog{}
	renderer := &countingRenderer{}

	d := &Driver{
		Config:    cfg,
		Direction: diffusion.TrickleDown,
		Trials:    trials,
		Cases:     cases,
		Renderer:  renderer,
	}
	caseLog, err := d.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// 9 nodes at ratio 1/3: core 3, periphery 6, 33 possible peripheral
	// ties, so the sweep visits tie counts 0, 16, 32.
	const wantCells = 3 * 2
	if len(caseLog) != wantCells {
		t.Fatalf("case log has %d rows, want %d", len(caseLog), wantCells)
	}
	if len(cases.rows) != wantCells {
		t.Fatalf("case logger saw %d rows, want %d", len(cases.rows), wantCells)
	}
	wantTrials := wantCells * cfg.Trials
	if len(trials.rows) != wantTrials {
		t.Fatalf("trial logger saw %d rows, want %d", len(trials.rows), wantTrials)
	}
	if renderer.calls != wantTrials {
		t.Fatalf("renderer saw %d trials, want %d", renderer.calls, wantTrials)
	}

	i := 0
	for _, pties := range []int{0, 16, 32} {
		for amb := 1; amb <= 2; amb++ {
			for trial := 0; trial < cfg.Trials; trial++ {
				row := trials.rows[i]
				if row.PeripheralTies != pties || row.Ambiguity != float64(amb) || row.Trial != trial {
					t.Fatalf("row %d = %+v, want pties=%d ambiguity=%d trial=%d",
						i, row, pties, amb, trial)
				}
				if row.CoreNodes != 3 || row.PeripheryNodes != 6 {
					t.Fatalf("row %d segment sizes = %d/%d", i, row.CoreNodes, row.PeripheryNodes)
				}
				if row.CoreAdopters < 1 || row.CoreAdopters > row.CoreNodes {
					t.Fatalf("row %d core adopters = %d", i, row.CoreAdopters)
				}
				if row.PeripheryAdopters < 0 || row.PeripheryAdopters > row.PeripheryNodes {
					t.Fatalf("row %d periphery adopters = %d", i, row.PeripheryAdopters)
				}
				i++
			}
		}
	}

	for _, row := range caseLog {
		if row.AvgPeripheralDensity < 0 || row.AvgPeripheralDensity > 1 {
			t.Fatalf("density out of range: %+v", row)
		}
		if row.AvgCoreDiffusion < 1.0/3.0 {
			t.Fatalf("trickle-down core diffusion below seed floor: %+v", row)
		}
	}
}

func TestDriverTrickleUpSeedsPeriphery(t *testing.T) {
	cfg := smallConfig()
	cfg.AmbiguityMax = 1
	trials := &memTrialLog{}

	d := &Driver{Config: cfg, Direction: diffusion.TrickleUp, Trials: trials}
	if _, err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i, row := range trials.rows {
		if row.PeripheryAdopters < 1 {
			t.Fatalf("row %d has no peripheral adopter despite peripheral seed: %+v", i, row)
		}
	}
}

func TestDriverParallelMatchesSequential(t *testing.T) {
	run := func(workers int) ([]stats.TrialRow, CaseLog) {
		cfg := smallConfig()
		cfg.Workers = workers
		trials := &memTrialLog{}
		d := &Driver{Config: cfg, Direction: diffusion.TrickleDown, Trials: trials}
		caseLog, err := d.Run(context.Background())
		if err != nil {
			t.Fatalf("Run with %d workers: %v", workers, err)
		}
		return trials.rows, caseLog
	}

	seqRows, seqCases := run(1)
	parRows, parCases := run(4)

	if len(seqRows) != len(parRows) {
		t.Fatalf("row counts differ: %d vs %d", len(seqRows), len(parRows))
	}
	for i := range seqRows {
		if seqRows[i] != parRows[i] {
			t.Fatalf("row %d differs: sequential %+v, parallel %+v", i, seqRows[i], parRows[i])
		}
	}
	for i := range seqCases {
		if seqCases[i] != parCases[i] {
			t.Fatalf("case %d differs: sequential %+v, parallel %+v", i, seqCases[i], parCases[i])
		}
	}
}

func TestDriverDeterministicForFixedSeed(t *testing.T) {
	run := func() CaseLog {
		d := &Driver{Config: smallConfig(), Direction: diffusion.TrickleDown}
		caseLog, err := d.Run(context.Background())
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		return caseLog
	}
	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("case %d differs across identical runs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestDriverRejectsInvalidConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.Trials = 0
	d := &Driver{Config: cfg, Direction: diffusion.TrickleDown}
	if _, err := d.Run(context.Background()); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestDriverHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d := &Driver{Config: smallConfig(), Direction: diffusion.TrickleDown}
	if _, err := d.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run with cancelled context: %v", err)
	}
}

// TestDriverFullSizeSweep runs the paper's 31-node network with a coarse
// tie grid to keep runtime down.
func TestDriverFullSizeSweep(t *testing.T) {
	cfg := config.Default()
	cfg.TieInterval = 200 // 420 possible peripheral ties: visits 0, 200, 400
	cfg.Trials = 3
	cfg.Seed = 11

	trials := &memTrialLog{}
	d := &Driver{Config: cfg, Direction: diffusion.TrickleDown, Trials: trials}
	caseLog, err := d.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if want := 3 * 5; len(caseLog) != want {
		t.Fatalf("case log has %d rows, want %d", len(caseLog), want)
	}
	if want := 3 * 5 * 3; len(trials.rows) != want {
		t.Fatalf("trial log has %d rows, want %d", len(trials.rows), want)
	}
	for i, row := range trials.rows {
		if row.CoreNodes != 10 || row.PeripheryNodes != 21 {
			t.Fatalf("row %d segment sizes = %d/%d, want 10/21", i, row.CoreNodes, row.PeripheryNodes)
		}
	}
}
