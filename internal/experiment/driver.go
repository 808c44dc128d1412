// Package experiment sweeps the bandwagon model over a grid of parameter
// cells and records per-trial and per-cell results. Each cell fixes a
// peripheral tie count and an ambiguity level; the driver generates one
// base network per cell and runs the configured number of trials on
// independent deep copies of it.
package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/offero/disim/internal/boundary"
	"github.com/offero/disim/internal/config"
	"github.com/offero/disim/internal/diffusion"
	"github.com/offero/disim/internal/logging"
	"github.com/offero/disim/internal/network"
	"github.com/offero/disim/internal/stats"
)

// NetworkRenderer receives the final network state of a completed trial.
// The row carries the cell parameters and trial number so the renderer can
// decide whether and where to emit output.
type NetworkRenderer interface {
	RenderTrial(net *network.Network, row stats.TrialRow) error
}

// Driver runs one experiment sweep. Config and Direction are required; the
// remaining collaborators are optional and skipped when nil.
type Driver struct {
	Config    *config.Config
	Direction diffusion.Direction

	Log      *slog.Logger
	Trace    *logging.TraceLogger
	Trials   TrialLogger
	Cases    CaseLogger
	Renderer NetworkRenderer
}

type trialResult struct {
	row     stats.TrialRow
	net     *network.Network
	outcome diffusion.Outcome
	err     error
}

// Run executes the full sweep and returns the accumulated case log. Trials
// within a cell run concurrently when Config.Workers exceeds one; results
// are identical to a sequential run because every trial draws from its own
// deterministic source and collaborators are invoked in trial order.
func (d *Driver) Run(ctx context.Context) (CaseLog, error) {
	cfg := d.Config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid experiment config: %w", err)
	}
	log := d.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	numCore := cfg.NumCore()
	numPeriph := cfg.Nodes - numCore
	counts := network.PossibleTies(cfg.Nodes, numCore)

	log.Info("starting sweep",
		"direction", string(d.Direction),
		"nodes", cfg.Nodes,
		"core", numCore,
		"maxPeripheralTies", counts.Peripheral,
		"tieInterval", cfg.TieInterval,
		"trials", cfg.Trials,
		"workers", cfg.Workers,
	)

	var caseLog CaseLog
	cell := 0
	for pties := 0; pties <= counts.Peripheral; pties += cfg.TieInterval {
		for amb := cfg.AmbiguityMin; amb <= cfg.AmbiguityMax; amb++ {
			if err := ctx.Err(); err != nil {
				return caseLog, err
			}
			row, err := d.runCell(cell, pties, float64(amb), numCore, numPeriph)
			if err != nil {
				return caseLog, fmt.Errorf("cell pties=%d ambiguity=%d: %w", pties, amb, err)
			}
			caseLog = append(caseLog, row)
			if d.Cases != nil {
				if err := d.Cases.LogCase(row); err != nil {
					return caseLog, fmt.Errorf("cell pties=%d ambiguity=%d: %w", pties, amb, err)
				}
			}
			log.Debug("cell complete",
				"pties", pties,
				"ambiguity", amb,
				"avgPeripheralDiffusion", row.AvgPeripheralDiffusion,
				"avgCoreDiffusion", row.AvgCoreDiffusion,
			)
			cell++
		}
	}
	log.Info("sweep complete", "cells", cell)
	return caseLog, nil
}

func (d *Driver) runCell(cell, pties int, ambiguity float64, numCore, numPeriph int) (CaseRow, error) {
	cfg := d.Config

	// Topology randomness is drawn from a stream separate from the trial
	// streams so changing the trial count never changes the network.
	genRNG := rand.New(rand.NewPCG(cfg.Seed+1, uint64(cell)))
	base, err := network.Generate(numCore, numPeriph, pties, genRNG)
	if err != nil {
		return CaseRow{}, err
	}

	results := make([]trialResult, cfg.Trials)
	if cfg.Workers > 1 {
		var wg sync.WaitGroup
		idx := make(chan int)
		for w := 0; w < cfg.Workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for t := range idx {
					results[t] = d.runTrial(base, cell, t, pties, ambiguity)
				}
			}()
		}
		for t := 0; t < cfg.Trials; t++ {
			idx <- t
		}
		close(idx)
		wg.Wait()
	} else {
		for t := 0; t < cfg.Trials; t++ {
			results[t] = d.runTrial(base, cell, t, pties, ambiguity)
		}
	}

	var periphDiff, coreDiff, periphDensity stats.Running
	for t, res := range results {
		if res.err != nil {
			return CaseRow{}, fmt.Errorf("trial %d: %w", t, res.err)
		}
		if d.Trials != nil {
			if err := d.Trials.LogTrial(res.row); err != nil {
				return CaseRow{}, fmt.Errorf("trial %d: %w", t, err)
			}
		}
		if d.Renderer != nil {
			if err := d.Renderer.RenderTrial(res.net, res.row); err != nil {
				return CaseRow{}, fmt.Errorf("trial %d: %w", t, err)
			}
		}
		d.Trace.LogTrial(logging.TrialEvent{
			Time:           time.Now().UTC(),
			Direction:      string(d.Direction),
			PeripheralTies: pties,
			Ambiguity:      ambiguity,
			Trial:          t,
			Seed:           res.outcome.Seed,
			Rounds:         res.outcome.Rounds,
			Adopters:       res.row.CoreAdopters + res.row.PeripheryAdopters,
			Weaknesses:     res.row.Weaknesses,
			PressurePoints: res.row.PressurePoints,
		})

		periphDiff.Add(res.row.PeripheralDiffusion())
		coreDiff.Add(res.row.CoreDiffusion())
		periphDensity.Add(stats.PeripheralDensity(pties, numCore, numPeriph))
	}

	return CaseRow{
		Ambiguity:              ambiguity,
		AvgPeripheralDensity:   periphDensity.Mean(),
		AvgPeripheralDiffusion: periphDiff.Mean(),
		AvgCoreDiffusion:       coreDiff.Mean(),
	}, nil
}

// runTrial executes one trial on a fresh copy of the cell's base network.
// The random stream is keyed by (cell, trial) so any trial can be replayed
// in isolation.
func (d *Driver) runTrial(base *network.Network, cell, trial, pties int, ambiguity float64) trialResult {
	cfg := d.Config
	net := base.Clone()

	src := rand.NewPCG(cfg.Seed, uint64(cell)<<32|uint64(trial))
	sim := diffusion.New(diffusion.Config{
		Ambiguity:    ambiguity,
		ProfitMean:   cfg.ProfitMean,
		ProfitStdDev: cfg.ProfitStdDev,
	}, src)

	outcome, err := sim.Run(net, d.Direction)
	if err != nil {
		return trialResult{err: err}
	}

	res := boundary.NewAnalyzer(net).Analyze(d.Direction.TargetSegment(), cfg.PressureProportion)
	row := stats.TrialRow{
		PeripheralTies:    pties,
		Ambiguity:         ambiguity,
		Trial:             trial,
		CoreAdopters:      net.AdoptedCount(network.SegmentCore),
		CoreNodes:         net.NumCore(),
		PeripheryAdopters: net.AdoptedCount(network.SegmentPeriphery),
		PeripheryNodes:    net.NumPeriphery(),
		Weaknesses:        len(res.Weaknesses),
		PressurePoints:    len(res.PressurePoints),
	}
	return trialResult{row: row, net: net, outcome: outcome}
}
