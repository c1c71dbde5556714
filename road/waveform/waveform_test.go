package waveform

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pneumo-sim/road-input/road"
)

var testGrid = Grid{Duration: 2, Velocity: 10, ResampleHz: 1000}

func TestLinspace_IncludesEndpoints(t *testing.T) {
	got := Linspace(0, 1, 5)
	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75, 1}, got)
	assert.Nil(t, Linspace(0, 1, 0))
	assert.Equal(t, []float64{3}, Linspace(3, 4, 1))

	long := Linspace(0, 60.112, 60112)
	assert.Equal(t, 60.112, long[len(long)-1])
	assert.InDelta(t, 30.056, long[30055]+long[1]/2, 1e-9)
}

func TestGrid_Validate(t *testing.T) {
	tests := []struct {
		name    string
		grid    Grid
		wantErr bool
	}{
		{"valid", testGrid, false},
		{"zero duration", Grid{Duration: 0, Velocity: 1, ResampleHz: 100}, true},
		{"negative velocity", Grid{Duration: 1, Velocity: -1, ResampleHz: 100}, true},
		{"nan rate", Grid{Duration: 1, Velocity: 1, ResampleHz: math.NaN()}, true},
		{"single sample", Grid{Duration: 0.001, Velocity: 1, ResampleHz: 1000}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.grid.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSine_MatchesFormula(t *testing.T) {
	tm, y, err := Sine(testGrid, 0.05, 1.5, 0.3)
	require.NoError(t, err)
	require.Len(t, tm, 2000)
	require.Len(t, y, 2000)
	assert.Equal(t, 0.0, tm[0])
	assert.Equal(t, 2.0, tm[len(tm)-1])
	for i := range tm {
		want := 0.05 * math.Sin(2*math.Pi*1.5*tm[i]+0.3)
		assert.InDelta(t, want, y[i], 1e-12)
	}
}

func TestSweep_LinearStartsAtStartFrequency(t *testing.T) {
	g := Grid{Duration: 10, Velocity: 10, ResampleHz: 2000}
	tm, y, err := Sweep(g, 1, 1, 5, 0, SweepLinear)
	require.NoError(t, err)
	// near t=0 the chirp behaves like sin(2π·f0·t)
	for i := 0; i < 20; i++ {
		assert.InDelta(t, math.Sin(2*math.Pi*tm[i]), y[i], 1e-3)
	}
	for _, v := range y {
		assert.LessOrEqual(t, math.Abs(v), 1.0)
	}
}

func TestSweep_LogarithmicEqualFrequenciesIsSine(t *testing.T) {
	_, sweep, err := Sweep(testGrid, 0.02, 3, 3, 0.1, SweepLogarithmic)
	require.NoError(t, err)
	_, sine, err := Sine(testGrid, 0.02, 3, 0.1)
	require.NoError(t, err)
	assert.InDeltaSlice(t, sine, sweep, 1e-12)
}

func TestSweep_RejectsUnknownType(t *testing.T) {
	_, _, err := Sweep(testGrid, 1, 1, 2, 0, "quadratic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quadratic")

	_, _, err = Sweep(testGrid, 1, 0, 2, 0, SweepLogarithmic)
	assert.Error(t, err)
}

func TestStep_HardAndSmooth(t *testing.T) {
	tm, hard, err := Step(testGrid, 0.1, 1.0, 0)
	require.NoError(t, err)
	for i, ti := range tm {
		if ti >= 1.0 {
			assert.Equal(t, 0.1, hard[i])
		} else {
			assert.Equal(t, 0.0, hard[i])
		}
	}

	tm, smooth, err := Step(testGrid, 0.1, 1.0, 0.2)
	require.NoError(t, err)
	mid := int(1.0 * float64(len(tm)-1) / 2.0)
	assert.InDelta(t, 0.05, smooth[mid], 1e-3)
	assert.InDelta(t, 0.0, smooth[0], 1e-6)
	assert.InDelta(t, 0.1, smooth[len(smooth)-1], 1e-6)

	_, _, err = Step(testGrid, 0.1, 1.0, -1)
	assert.Error(t, err)
}

func TestPothole_NegativeLobeOnlyInsideWidth(t *testing.T) {
	// width = 1 m / 10 m/s = 0.1 s centred at 1 s
	tm, y, err := Pothole(testGrid, 0.04, 1.0, 1.0)
	require.NoError(t, err)
	minVal := 0.0
	for i, ti := range tm {
		if ti < 0.95 || ti > 1.05 {
			assert.Equal(t, 0.0, y[i], "t=%v", ti)
		} else {
			assert.LessOrEqual(t, y[i], 0.0)
		}
		minVal = math.Min(minVal, y[i])
	}
	assert.InDelta(t, -0.04, minVal, 1e-5)
}

func TestSpeedBump_Profiles(t *testing.T) {
	tm, sinus, err := SpeedBump(testGrid, 0.08, 2.0, 1.0, BumpSinusoidal)
	require.NoError(t, err)
	_, circ, err := SpeedBump(testGrid, 0.08, 2.0, 1.0, BumpCircular)
	require.NoError(t, err)

	for i, ti := range tm {
		if ti < 0.9 || ti > 1.1 {
			assert.Equal(t, 0.0, sinus[i])
			assert.Equal(t, 0.0, circ[i])
			continue
		}
		assert.GreaterOrEqual(t, sinus[i], 0.0)
		// the circular arc is fuller than the half sine
		assert.GreaterOrEqual(t, circ[i]+1e-12, sinus[i])
	}
	peak := 0.0
	for _, v := range circ {
		peak = math.Max(peak, v)
	}
	assert.InDelta(t, 0.08, peak, 1e-4)

	_, _, err = SpeedBump(testGrid, 0.08, 2.0, 1.0, "square")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "square")
}

func TestSeries_RepeatsEverySpacing(t *testing.T) {
	g := Grid{Duration: 5, Velocity: 10, ResampleHz: 1000}
	// 10 m spacing at 10 m/s → every second, starting at 1 s
	tm, y, err := PotholeSeries(g, 0.03, 0.5, 1.0, 10)
	require.NoError(t, err)
	var centers []float64
	for i := 1; i < len(y)-1; i++ {
		if y[i] < y[i-1] && y[i] <= y[i+1] && y[i] < -0.029 {
			centers = append(centers, tm[i])
		}
	}
	require.Len(t, centers, 4)
	for k, c := range centers {
		assert.InDelta(t, 1.0+float64(k), c, 2e-3)
	}
}

func TestRepeat_CustomLobe(t *testing.T) {
	triangle := Lobe(func(u float64) float64 { return 1 - math.Abs(2*u-1) })
	tm, y, err := Repeat(testGrid, 0.02, 1.0, 1.0, 0, triangle)
	require.NoError(t, err)

	peak := 0.0
	for i, v := range y {
		if tm[i] < 0.95 || tm[i] > 1.05 {
			assert.Zero(t, v, "t=%v outside the lobe", tm[i])
		}
		peak = math.Max(peak, v)
	}
	assert.InDelta(t, 0.02, peak, 5e-4)

	_, _, err = Repeat(testGrid, 0.02, 0, 1.0, 0, HalfSine)
	assert.Error(t, err)
}

func TestLobes(t *testing.T) {
	for _, shape := range []Lobe{HalfSine, CircularArc} {
		assert.InDelta(t, 0, shape(0), 1e-12)
		assert.InDelta(t, 1, shape(0.5), 1e-12)
		assert.InDelta(t, 0, shape(1), 1e-12)
	}
	assert.InDelta(t, math.Sqrt(0.75), CircularArc(0.25), 1e-12)
}

func TestGenerators_DoNotShareBuffers(t *testing.T) {
	t1, y1, err := Sine(testGrid, 1, 1, 0)
	require.NoError(t, err)
	t2, y2, err := Sine(testGrid, 1, 1, 0)
	require.NoError(t, err)
	y1[0] = 42
	t1[0] = 42
	assert.Equal(t, 0.0, y2[0])
	assert.Equal(t, 0.0, t2[0])
}

func TestFromSource_Dispatch(t *testing.T) {
	_, y, err := FromSource(testGrid, road.Sine{Amplitude: 1, Frequency: 1})
	require.NoError(t, err)
	assert.Len(t, y, 2000)

	_, _, err = FromSource(testGrid, road.Iso8608{Class: road.ClassC})
	assert.Error(t, err)

	_, _, err = FromSource(testGrid, road.SpeedBump{Height: 0.1, Length: 1, CenterTime: 1, Profile: "bogus"})
	assert.Error(t, err)
}
