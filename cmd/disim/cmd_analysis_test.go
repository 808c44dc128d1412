package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/offero/disim/internal/experiment"
	"github.com/offero/disim/internal/stats"
)

// writeSyntheticTrialLog produces a trial CSV with a clean linear signal:
// peripheral adopters scale with ambiguity.
func writeSyntheticTrialLog(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	logger := experiment.NewCSVTrialLogger(f)
	trial := 0
	for _, pties := range []int{0, 10, 20, 30} {
		for amb := 1; amb <= 5; amb++ {
			row := stats.TrialRow{
				PeripheralTies:    pties,
				Ambiguity:         float64(amb),
				Trial:             trial,
				CoreAdopters:      5,
				CoreNodes:         10,
				PeripheryAdopters: 3 * amb,
				PeripheryNodes:    21,
				Weaknesses:        amb,
				PressurePoints:    pties / 10,
			}
			if err := logger.LogTrial(row); err != nil {
				t.Fatal(err)
			}
			trial++
		}
	}
}

func TestRegressEndToEnd(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "trials.csv")
	writeSyntheticTrialLog(t, inPath)

	if err := runCommand(t, "regress", "-i", inPath, "-o", dir); err != nil {
		t.Fatalf("regress failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "Regression-allties-alldensity.txt"))
	if err != nil {
		t.Fatalf("read regression summary: %v", err)
	}
	summary := string(data)
	if !strings.Contains(summary, "records: 20") {
		t.Errorf("summary missing record count:\n%s", summary)
	}
	if !strings.Contains(summary, "ambiguity") {
		t.Errorf("summary missing ambiguity term:\n%s", summary)
	}

	boundary, err := os.ReadFile(filepath.Join(dir, "Regression-allties-alldensity-boundary.txt"))
	if err != nil {
		t.Fatalf("read boundary regression summary: %v", err)
	}
	if !strings.Contains(string(boundary), "weaknesses") {
		t.Errorf("boundary summary missing weakness term:\n%s", boundary)
	}
}

func TestRegressMissingInput(t *testing.T) {
	dir := t.TempDir()
	if err := runCommand(t, "regress", "-i", filepath.Join(dir, "absent.csv"), "-o", dir); err == nil {
		t.Fatal("expected error for missing input file")
	}
}

func TestPlotStatsEndToEnd(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "cases.csv")

	f, err := os.Create(inPath)
	if err != nil {
		t.Fatal(err)
	}
	logger := experiment.NewCSVCaseLogger(f)
	for _, amb := range []float64{1, 2} {
		for _, density := range []float64{0, 0.5, 1} {
			err := logger.LogCase(experiment.CaseRow{
				Ambiguity:              amb,
				AvgPeripheralDensity:   density,
				AvgPeripheralDiffusion: density * amb / 2,
				AvgCoreDiffusion:       0.3 + density/2,
			})
			if err != nil {
				t.Fatal(err)
			}
		}
	}
	f.Close()

	if err := runCommand(t, "plotstats", "-i", inPath, "-o", dir); err != nil {
		t.Fatalf("plotstats failed: %v", err)
	}
	for _, name := range []string{
		"Plot-PeripheralDiffusionVsDensity.png",
		"Plot-CoreDiffusionVsDensity.png",
	} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing chart %s: %v", name, err)
		}
	}
}

func TestPlotStatsRejectsMalformedLog(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "bad.csv")
	if err := os.WriteFile(inPath, []byte("1,zero,0.2,0.3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := runCommand(t, "plotstats", "-i", inPath, "-o", dir); err == nil {
		t.Fatal("expected error for malformed case log")
	}
}
