package profile

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
)

// strictlyIncreasing reports whether every element is greater than its predecessor.
func strictlyIncreasing(x []float64) bool {
	for i := 1; i < len(x); i++ {
		if !(x[i] > x[i-1]) {
			return false
		}
	}
	return true
}

// sortedUnique orders the samples by time and keeps the first sample of every
// duplicated instant. The input slices are not modified.
func sortedUnique(t []float64, cols [][]float64) ([]float64, [][]float64) {
	idx := make([]int, len(t))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return t[idx[a]] < t[idx[b]] })

	outT := make([]float64, 0, len(t))
	outCols := make([][]float64, len(cols))
	for _, i := range idx {
		if n := len(outT); n > 0 && t[i] == outT[n-1] {
			continue
		}
		outT = append(outT, t[i])
		for c := range cols {
			outCols[c] = append(outCols[c], cols[c][i])
		}
	}
	return outT, outCols
}

// uniformGrid returns t0 + i/hz covering [t0, tN] to the nearest sample.
func uniformGrid(t0, tN, hz float64) ([]float64, error) {
	n := int(math.Round((tN-t0)*hz)) + 1
	if n < 2 {
		return nil, fmt.Errorf("profile spans %.6g s, shorter than one sample at %v Hz", tN-t0, hz)
	}
	return floats.Span(make([]float64, n), t0, t0+float64(n-1)/hz), nil
}

// resample linearly interpolates (t, y) onto grid. t must be strictly increasing.
// Points beyond the data hold the boundary value.
func resample(t, y, grid []float64) ([]float64, error) {
	var pl interp.PiecewiseLinear
	if err := pl.Fit(t, y); err != nil {
		return nil, fmt.Errorf("fitting interpolator: %w", err)
	}
	out := make([]float64, len(grid))
	for i, g := range grid {
		out[i] = pl.Predict(g)
	}
	return out, nil
}

// repairNonFinite replaces non-finite samples by linear interpolation over the
// finite samples of the same channel, holding the edge values beyond the first
// and last finite sample. It returns the number of repaired samples; ok=false
// means fewer than two finite samples exist and x was left untouched.
func repairNonFinite(x []float64) (repaired int, ok bool) {
	var idx, vals []float64
	for i, v := range x {
		if isFinite(v) {
			idx = append(idx, float64(i))
			vals = append(vals, v)
		}
	}
	if len(idx) == len(x) {
		return 0, true
	}
	if len(idx) < 2 {
		return 0, false
	}
	var pl interp.PiecewiseLinear
	if err := pl.Fit(idx, vals); err != nil {
		return 0, false
	}
	for i, v := range x {
		if !isFinite(v) {
			x[i] = pl.Predict(float64(i))
			repaired++
		}
	}
	return repaired, true
}

// shiftUniform returns y delayed by delay seconds on a uniform grid of rate hz:
// out(t) = y(t − delay), holding y[0] before the start.
func shiftUniform(y []float64, delay, hz float64) ([]float64, error) {
	if len(y) < 2 || delay == 0 {
		return append([]float64(nil), y...), nil
	}
	var pl interp.PiecewiseLinear
	if err := pl.Fit(floats.Span(make([]float64, len(y)), 0, float64(len(y)-1)), y); err != nil {
		return nil, fmt.Errorf("fitting interpolator: %w", err)
	}
	shift := delay * hz
	out := make([]float64, len(y))
	for i := range out {
		out[i] = pl.Predict(float64(i) - shift)
	}
	return out, nil
}
