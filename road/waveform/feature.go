package waveform

import (
	"fmt"
	"math"
)

// Speed bump profile shapes.
const (
	BumpSinusoidal = "sinusoidal"
	BumpCircular   = "circular"
)

// Lobe evaluates a unit feature shape at normalised position u ∈ [0, 1].
type Lobe func(u float64) float64

// HalfSine is sin(πu), the pothole and sinusoidal bump shape.
func HalfSine(u float64) float64 { return math.Sin(math.Pi * u) }

// CircularArc is the upper half of a circle spanning the lobe.
func CircularArc(u float64) float64 {
	x := 2*u - 1
	return math.Sqrt(math.Max(0, 1-x*x))
}

// Pothole returns a negative half-sine lobe of width length/velocity centred at
// centerTime; zero outside the lobe. depth is the positive depth in metres.
func Pothole(g Grid, depth, length, centerTime float64) ([]float64, []float64, error) {
	return Repeat(g, -depth, length, centerTime, 0, HalfSine)
}

// SpeedBump returns a positive lobe of width length/velocity centred at centerTime.
// profileType is "sinusoidal" (half-sine) or "circular" (h·sqrt(1−x²)).
func SpeedBump(g Grid, height, length, centerTime float64, profileType string) ([]float64, []float64, error) {
	shape, err := bumpShape(profileType)
	if err != nil {
		return nil, nil, err
	}
	return Repeat(g, height, length, centerTime, 0, shape)
}

// PotholeSeries places potholes every spacing metres starting at centerTime.
func PotholeSeries(g Grid, depth, length, centerTime, spacing float64) ([]float64, []float64, error) {
	return Repeat(g, -depth, length, centerTime, spacing, HalfSine)
}

// SpeedBumpSeries places speed bumps every spacing metres starting at centerTime.
func SpeedBumpSeries(g Grid, height, length, centerTime, spacing float64, profileType string) ([]float64, []float64, error) {
	shape, err := bumpShape(profileType)
	if err != nil {
		return nil, nil, err
	}
	return Repeat(g, height, length, centerTime, spacing, shape)
}

func bumpShape(profileType string) (Lobe, error) {
	switch profileType {
	case BumpSinusoidal:
		return HalfSine, nil
	case BumpCircular:
		return CircularArc, nil
	}
	return nil, fmt.Errorf("unsupported profile_type %q; valid: sinusoidal, circular", profileType)
}

// Repeat sums scaled lobes of width length/velocity. The first lobe is centred at
// centerTime, the following ones every spacing/velocity seconds while they start
// inside the grid. spacing <= 0 places a single lobe. Overlapping lobes add up.
func Repeat(g Grid, scale, length, centerTime, spacing float64, shape Lobe) ([]float64, []float64, error) {
	if length <= 0 || math.IsNaN(length) || math.IsInf(length, 0) {
		return nil, nil, fmt.Errorf("feature length must be a finite positive number, got %v", length)
	}
	t, err := g.Time()
	if err != nil {
		return nil, nil, err
	}
	width := length / g.Velocity
	period := spacing / g.Velocity
	dt := t[1] - t[0]

	y := make([]float64, len(t))
	for center := centerTime; center-width/2 <= g.Duration; center += period {
		start := center - width/2
		lo := max(0, int(math.Floor(start/dt)))
		hi := min(len(t)-1, int(math.Ceil((start+width)/dt)))
		for i := lo; i <= hi; i++ {
			if t[i] < start || t[i] > start+width {
				continue
			}
			y[i] += scale * shape((t[i]-start)/width)
		}
		if period <= 0 {
			break
		}
	}
	return t, y, nil
}
