package waveform

import (
	"fmt"

	"github.com/pneumo-sim/road-input/road"
)

// FromSource dispatches a deterministic source variant to its generator.
// Stochastic and file-backed variants are rejected.
func FromSource(g Grid, src road.Source) ([]float64, []float64, error) {
	switch s := src.(type) {
	case road.Sine:
		return Sine(g, s.Amplitude, s.Frequency, s.Phase)
	case road.Sweep:
		return Sweep(g, s.Amplitude, s.FrequencyStart, s.FrequencyEnd, s.Phase, s.SweepType)
	case road.Step:
		return Step(g, s.Height, s.StepTime, s.RiseTime)
	case road.Pothole:
		return PotholeSeries(g, s.Depth, s.Length, s.CenterTime, s.Spacing)
	case road.SpeedBump:
		return SpeedBumpSeries(g, s.Height, s.Length, s.CenterTime, s.Spacing, s.Profile)
	case road.Iso8608, road.CSV:
		return nil, nil, fmt.Errorf("source %q is not deterministic", s.Kind())
	}
	return nil, nil, fmt.Errorf("unsupported source %T", src)
}
