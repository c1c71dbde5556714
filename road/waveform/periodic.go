package waveform

import (
	"fmt"
	"math"
)

// Sweep types.
const (
	SweepLinear      = "linear"
	SweepLogarithmic = "logarithmic"
)

// Sine returns y(t) = A·sin(2π·f·t + φ).
func Sine(g Grid, amplitude, frequency, phase float64) ([]float64, []float64, error) {
	t, err := g.Time()
	if err != nil {
		return nil, nil, err
	}
	y := make([]float64, len(t))
	for i, ti := range t {
		y[i] = amplitude * math.Sin(2*math.Pi*frequency*ti+phase)
	}
	return t, y, nil
}

// Sweep returns a chirp from fStart to fEnd over the grid duration.
// sweepType is "linear" or "logarithmic"; the logarithmic chirp needs positive
// frequencies and degenerates to a sine when fStart == fEnd.
func Sweep(g Grid, amplitude, fStart, fEnd, phase float64, sweepType string) ([]float64, []float64, error) {
	var instPhase func(t float64) float64
	T := g.Duration
	switch sweepType {
	case SweepLinear, "lin":
		k := (fEnd - fStart) / (2 * T)
		instPhase = func(t float64) float64 {
			return 2 * math.Pi * (fStart*t + k*t*t)
		}
	case SweepLogarithmic, "log":
		if fStart <= 0 || fEnd <= 0 {
			return nil, nil, fmt.Errorf("logarithmic sweep needs positive frequencies, got %v → %v Hz", fStart, fEnd)
		}
		if fStart == fEnd {
			instPhase = func(t float64) float64 { return 2 * math.Pi * fStart * t }
			break
		}
		ratio := fEnd / fStart
		scale := fStart * T / math.Log(ratio)
		instPhase = func(t float64) float64 {
			return 2 * math.Pi * scale * (math.Pow(ratio, t/T) - 1)
		}
	default:
		return nil, nil, fmt.Errorf("unsupported sweep_type %q; valid: linear, logarithmic", sweepType)
	}

	t, err := g.Time()
	if err != nil {
		return nil, nil, err
	}
	y := make([]float64, len(t))
	for i, ti := range t {
		y[i] = amplitude * math.Sin(instPhase(ti)+phase)
	}
	return t, y, nil
}

// Step returns 0.5·(1+tanh((t−tStep)/(rise/4)))·height.
// A zero rise time yields a hard step reaching height at t >= tStep.
func Step(g Grid, height, tStep, riseTime float64) ([]float64, []float64, error) {
	if riseTime < 0 || math.IsNaN(riseTime) {
		return nil, nil, fmt.Errorf("rise_time must be non-negative, got %v", riseTime)
	}
	t, err := g.Time()
	if err != nil {
		return nil, nil, err
	}
	y := make([]float64, len(t))
	for i, ti := range t {
		if riseTime == 0 {
			if ti >= tStep {
				y[i] = height
			}
			continue
		}
		y[i] = 0.5 * (1 + math.Tanh((ti-tStep)/(riseTime/4))) * height
	}
	return t, y, nil
}
