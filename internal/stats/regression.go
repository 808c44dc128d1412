package stats

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ErrNoRecords is returned when range restrictions filter out every trial.
var ErrNoRecords = errors.New("no trial records match the requested ranges")

// Range is a closed interval restriction on trial records.
type Range struct {
	Min float64
	Max float64
}

func (rg Range) contains(x float64) bool { return x >= rg.Min && x <= rg.Max }

// RegressionOptions selects the trial subset and model terms for one OLS
// fit. A nil range means unrestricted.
type RegressionOptions struct {
	// TieRange restricts records by peripheral tie count.
	TieRange *Range

	// DensityRange restricts records by overall network density.
	DensityRange *Range

	// WithBoundary adds the weakness and pressure-point counts as
	// regressors.
	WithBoundary bool
}

// Regression is a fitted standardized OLS model of peripheral diffusion.
type Regression struct {
	YName        string
	XNames       []string
	Coefficients []float64
	R2           float64
	N            int

	// Moments of the dependent variable before standardization.
	DepMean   float64
	DepStdDev float64
	DepMin    float64
	DepMax    float64
}

// RegressTrials fits peripheral adopter counts against ambiguity, core
// diffusion, and peripheral density (plus boundary counts when requested),
// with every variable standardized to zero mean and unit sample variance.
func RegressTrials(rows []TrialRow, opts RegressionOptions) (*Regression, error) {
	var kept []TrialRow
	for _, tr := range rows {
		if opts.TieRange != nil && !opts.TieRange.contains(float64(tr.PeripheralTies)) {
			continue
		}
		if opts.DensityRange != nil {
			dens := NetworkDensity(tr.PeripheralTies, tr.CoreNodes, tr.PeripheryNodes)
			if !opts.DensityRange.contains(dens) {
				continue
			}
		}
		kept = append(kept, tr)
	}
	n := len(kept)
	if n == 0 {
		return nil, ErrNoRecords
	}

	y := make([]float64, n)
	for i, tr := range kept {
		y[i] = float64(tr.PeripheryAdopters)
	}

	xNames := []string{"ambiguity", "core diffusion", "peripheral density"}
	columns := [][]float64{
		column(kept, func(tr TrialRow) float64 { return tr.Ambiguity }),
		column(kept, func(tr TrialRow) float64 { return tr.CoreDiffusion() }),
		column(kept, func(tr TrialRow) float64 {
			return PeripheralDensity(tr.PeripheralTies, tr.CoreNodes, tr.PeripheryNodes)
		}),
	}
	if opts.WithBoundary {
		xNames = append(xNames, "weaknesses", "pressure points")
		columns = append(columns,
			column(kept, func(tr TrialRow) float64 { return float64(tr.Weaknesses) }),
			column(kept, func(tr TrialRow) float64 { return float64(tr.PressurePoints) }),
		)
	}

	reg := &Regression{
		YName:     "peripheral diffusion",
		XNames:    xNames,
		N:         n,
		DepMean:   stat.Mean(y, nil),
		DepStdDev: stat.StdDev(y, nil),
	}
	reg.DepMin, reg.DepMax = y[0], y[0]
	for _, v := range y {
		if v < reg.DepMin {
			reg.DepMin = v
		}
		if v > reg.DepMax {
			reg.DepMax = v
		}
	}

	ys := Standardize(y)

	// Constant columns standardize to zero and would make the design matrix
	// singular; they are excluded from the solve and reported with a zero
	// coefficient.
	var live []int
	standardized := make([][]float64, len(columns))
	for j, col := range columns {
		standardized[j] = Standardize(col)
		if !allZero(standardized[j]) {
			live = append(live, j)
		}
	}
	if len(live) == 0 {
		return nil, fmt.Errorf("least squares fit: every regressor is constant over the %d selected records", n)
	}

	k := len(live)
	data := make([]float64, n*k)
	for jj, j := range live {
		for i := 0; i < n; i++ {
			data[i*k+jj] = standardized[j][i]
		}
	}

	x := mat.NewDense(n, k, data)
	yv := mat.NewVecDense(n, ys)
	var beta mat.VecDense
	if err := beta.SolveVec(x, yv); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, fmt.Errorf("least squares fit: %w", err)
		}
	}
	reg.Coefficients = make([]float64, len(columns))
	for jj, j := range live {
		reg.Coefficients[j] = beta.AtVec(jj)
	}

	var fitted mat.VecDense
	fitted.MulVec(x, &beta)
	var sse, sst float64
	yMean := stat.Mean(ys, nil)
	for i := 0; i < n; i++ {
		r := ys[i] - fitted.AtVec(i)
		sse += r * r
		d := ys[i] - yMean
		sst += d * d
	}
	if sst > 0 {
		reg.R2 = 1 - sse/sst
	}

	return reg, nil
}

// Standardize returns a copy of xs shifted to zero mean and scaled to unit
// sample standard deviation. A constant column maps to all zeros.
func Standardize(xs []float64) []float64 {
	mean := stat.Mean(xs, nil)
	sd := stat.StdDev(xs, nil)
	out := make([]float64, len(xs))
	if sd == 0 {
		return out
	}
	for i, x := range xs {
		out[i] = (x - mean) / sd
	}
	return out
}

// Summary renders a plain-text report of the fit.
func (r *Regression) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "OLS regression: %s (standardized coefficients)\n", r.YName)
	fmt.Fprintf(&b, "records: %d\n", r.N)
	for i, name := range r.XNames {
		fmt.Fprintf(&b, "  %-20s %+.6f\n", name, r.Coefficients[i])
	}
	fmt.Fprintf(&b, "R^2: %.6f\n", r.R2)
	fmt.Fprintf(&b, "dependent variable: mean=%.6f stddev=%.6f min=%.6f max=%.6f\n",
		r.DepMean, r.DepStdDev, r.DepMin, r.DepMax)
	return b.String()
}

func allZero(xs []float64) bool {
	for _, x := range xs {
		if x != 0 {
			return false
		}
	}
	return true
}

func column(rows []TrialRow, f func(TrialRow) float64) []float64 {
	out := make([]float64, len(rows))
	for i, tr := range rows {
		out[i] = f(tr)
	}
	return out
}
