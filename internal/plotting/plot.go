// Package plotting renders the per-cell experiment averages as PNG line
// charts: one diffusion curve per ambiguity level, plotted against
// peripheral network density.
package plotting

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/offero/disim/internal/experiment"
)

// Metric selects which diffusion average a chart plots.
type Metric int

const (
	MetricPeripheralDiffusion Metric = iota
	MetricCoreDiffusion
)

func (m Metric) title() string {
	if m == MetricCoreDiffusion {
		return "Core Diffusion vs Peripheral Density"
	}
	return "Peripheral Diffusion vs Peripheral Density"
}

func (m Metric) yLabel() string {
	if m == MetricCoreDiffusion {
		return "avg core diffusion"
	}
	return "avg peripheral diffusion"
}

// FileName returns the conventional output file name for a metric chart.
func (m Metric) FileName() string {
	if m == MetricCoreDiffusion {
		return "Plot-CoreDiffusionVsDensity.png"
	}
	return "Plot-PeripheralDiffusionVsDensity.png"
}

var seriesPalette = []drawing.Color{
	chart.ColorBlue,
	chart.ColorRed,
	chart.ColorGreen,
	chart.ColorOrange,
	chart.ColorCyan,
	chart.ColorAlternateGray,
}

// Render draws one metric of the case log as a PNG line chart. Every
// ambiguity level contributes one series.
func Render(log experiment.CaseLog, metric Metric, w io.Writer) error {
	ambiguities := log.Ambiguities()
	if len(ambiguities) == 0 {
		return fmt.Errorf("render %s: case log is empty", metric.title())
	}

	var series []chart.Series
	for i, amb := range ambiguities {
		density, peripheral, core := log.Series(amb)
		if len(density) < 2 {
			return fmt.Errorf("render %s: ambiguity %g has %d points, need at least 2",
				metric.title(), amb, len(density))
		}
		y := peripheral
		if metric == MetricCoreDiffusion {
			y = core
		}
		series = append(series, chart.ContinuousSeries{
			Name:    fmt.Sprintf("ambiguity %g", amb),
			XValues: density,
			YValues: y,
			Style: chart.Style{
				StrokeColor: seriesPalette[i%len(seriesPalette)],
				StrokeWidth: 2.0,
			},
		})
	}

	graph := chart.Chart{
		Title:  metric.title(),
		Width:  1024,
		Height: 768,
		XAxis: chart.XAxis{
			Name:  "peripheral density",
			Style: chart.Style{FontSize: 10.0},
		},
		YAxis: chart.YAxis{
			Name:  metric.yLabel(),
			Style: chart.Style{FontSize: 10.0},
			Range: &chart.ContinuousRange{Min: 0.0, Max: 1.0},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render %s: %w", metric.title(), err)
	}
	return nil
}

// WriteCharts renders both diffusion charts into dir using the
// conventional file names.
func WriteCharts(log experiment.CaseLog, dir string) error {
	for _, metric := range []Metric{MetricPeripheralDiffusion, MetricCoreDiffusion} {
		path := filepath.Join(dir, metric.FileName())
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create chart file: %w", err)
		}
		if err := Render(log, metric, f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close chart file %s: %w", path, err)
		}
	}
	return nil
}
