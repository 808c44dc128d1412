// Package stats provides the streaming accumulator, density helpers, and
// the standardized OLS regression used to analyze experiment trial logs.
package stats

import "math"

// Running accumulates count, sum, sum of squares, min, and max for a stream
// of observations in O(1) per observation. It is append-only; removal is
// not supported. The zero value is ready to use.
type Running struct {
	n    int
	sum  float64
	sum2 float64
	min  float64
	max  float64
}

// Add folds one observation into the accumulator.
func (r *Running) Add(x float64) {
	if r.n == 0 || x < r.min {
		r.min = x
	}
	if r.n == 0 || x > r.max {
		r.max = x
	}
	r.n++
	r.sum += x
	r.sum2 += x * x
}

// Merge folds another accumulator into r. Merging is associative and
// commutative, so per-worker accumulators from parallel trials reduce to
// the same result as sequential accumulation.
func (r *Running) Merge(o Running) {
	if o.n == 0 {
		return
	}
	if r.n == 0 || o.min < r.min {
		r.min = o.min
	}
	if r.n == 0 || o.max > r.max {
		r.max = o.max
	}
	r.n += o.n
	r.sum += o.sum
	r.sum2 += o.sum2
}

// N returns the number of observations.
func (r *Running) N() int { return r.n }

// Mean returns the arithmetic mean, or 0 for an empty accumulator.
func (r *Running) Mean() float64 {
	if r.n == 0 {
		return 0
	}
	return r.sum / float64(r.n)
}

// Variance returns the sample variance, or 0 for fewer than two
// observations.
func (r *Running) Variance() float64 {
	if r.n < 2 {
		return 0
	}
	mean := r.Mean()
	return (r.sum2 - float64(r.n)*mean*mean) / float64(r.n-1)
}

// StdDev returns the sample standard deviation.
func (r *Running) StdDev() float64 { return math.Sqrt(r.Variance()) }

// Min returns the smallest observation, or 0 for an empty accumulator.
func (r *Running) Min() float64 { return r.min }

// Max returns the largest observation, or 0 for an empty accumulator.
func (r *Running) Max() float64 { return r.max }
