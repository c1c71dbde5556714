package waveform

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Grid describes the sampling of a generated profile.
type Grid struct {
	Duration   float64 // s
	Velocity   float64 // m/s, converts feature lengths to durations
	ResampleHz float64 // samples per second
}

// Samples returns int(Duration·ResampleHz).
func (g Grid) Samples() int {
	return int(g.Duration * g.ResampleHz)
}

// Validate checks that the grid yields at least two finite samples.
func (g Grid) Validate() error {
	for _, f := range []struct {
		name string
		val  float64
	}{{"duration", g.Duration}, {"velocity", g.Velocity}, {"resample_hz", g.ResampleHz}} {
		if math.IsNaN(f.val) || math.IsInf(f.val, 0) || f.val <= 0 {
			return fmt.Errorf("%s must be a finite positive number, got %v", f.name, f.val)
		}
	}
	if n := g.Samples(); n < 2 {
		return fmt.Errorf("duration %v s at %v Hz yields %d samples, need at least 2", g.Duration, g.ResampleHz, n)
	}
	return nil
}

// Time returns the sample instants of the grid.
func (g Grid) Time() ([]float64, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return Linspace(0, g.Duration, g.Samples()), nil
}

// Linspace returns n evenly spaced values over [start, stop], both endpoints included.
func Linspace(start, stop float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{start}
	}
	out := floats.Span(make([]float64, n), start, stop)
	out[n-1] = stop
	return out
}
