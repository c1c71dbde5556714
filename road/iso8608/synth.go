package iso8608

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"

	"github.com/pneumo-sim/road-input/road"
	"github.com/pneumo-sim/road-input/road/waveform"
)

// Params configures one stochastic generation run.
type Params struct {
	Class       road.Iso8608Class
	Velocity    float64 // m/s
	Duration    float64 // s
	ResampleHz  float64 // Hz
	Correlation road.CorrelationSpec
}

// Tracks holds the generated left and right wheel tracks on a shared time grid.
type Tracks struct {
	Time  []float64
	Left  []float64
	Right []float64
}

// Generate synthesizes left and right tracks. rng may be nil, in which case the
// generator is derived from p.Correlation.Seed.
//
// The left track is colored noise realised bin by bin in the spatial frequency
// domain; the right track is derived from it according to p.Correlation.Method.
func Generate(rng *rand.Rand, p Params) (*Tracks, error) {
	psd, ok := p.Class.Params()
	if !ok {
		return nil, fmt.Errorf("unknown ISO 8608 class %q", p.Class)
	}
	if err := p.Correlation.Validate(); err != nil {
		return nil, err
	}
	grid := waveform.Grid{Duration: p.Duration, Velocity: p.Velocity, ResampleHz: p.ResampleHz}
	t, err := grid.Time()
	if err != nil {
		return nil, err
	}
	if rng == nil {
		rng = p.Correlation.Rand(road.StreamSynthesis)
	}

	dz := p.Velocity * (t[1] - t[0])
	left := ShapedNoise(rng, len(t), dz, psd)

	var right []float64
	switch p.Correlation.Method {
	case road.MethodCoherence:
		independent := ShapedNoise(rng, len(t), dz, psd)
		right = blend(left, independent, p.Correlation)
	case road.MethodMixing:
		sigma := stat.PopStdDev(left, nil)
		white := make([]float64, len(left))
		for i := range white {
			white[i] = rng.NormFloat64() * sigma
		}
		right = blend(left, white, p.Correlation)
	default:
		return nil, fmt.Errorf("unsupported correlation method %q", p.Correlation.Method)
	}
	return &Tracks{Time: t, Left: left, Right: right}, nil
}

// blend returns rho·base + sqrt(1−rho²)·noise. rho == 1 copies base exactly.
func blend(base, noise []float64, c road.CorrelationSpec) []float64 {
	out := make([]float64, len(base))
	if c.RhoLR == 1 {
		copy(out, base)
		return out
	}
	k := c.Independent()
	for i := range base {
		out[i] = c.RhoLR*base[i] + k*noise[i]
	}
	return out
}

// ShapedNoise realises n samples of spatial step dz whose one-sided PSD follows psd.
//
// Each positive bin n_k = k/(n·dz) receives complex Gaussian noise scaled by
// sqrt(2·PSD(n_k)·Δn); DC is zero. The full spectrum is made Hermitian (negative
// bins mirror the conjugate of positive ones, an even-length Nyquist bin is real)
// so that the inverse transform is real.
func ShapedNoise(rng *rand.Rand, n int, dz float64, psd road.PSDParams) []float64 {
	if n < 2 {
		return make([]float64, n)
	}
	dn := 1 / (float64(n) * dz)
	spectrum := make([]complex128, n)
	half := n / 2
	scale := float64(n) / 2
	for k := 1; k <= half; k++ {
		amp := math.Sqrt(2 * psd.Target(float64(k)*dn) * dn)
		c := complex(rng.NormFloat64(), rng.NormFloat64()) / math.Sqrt2
		if n%2 == 0 && k == half {
			// Nyquist has no mirror partner and must be real.
			spectrum[k] = complex(2*scale*amp*real(c), 0)
			continue
		}
		spectrum[k] = complex(scale*amp, 0) * c
		spectrum[n-k] = cmplx.Conj(spectrum[k])
	}
	return inverseReal(spectrum)
}

// inverseReal returns the real part of the normalised inverse DFT.
func inverseReal(spectrum []complex128) []float64 {
	n := len(spectrum)
	seq := fourier.NewCmplxFFT(n).Sequence(nil, spectrum)
	out := make([]float64, n)
	for i, v := range seq {
		out[i] = real(v) / float64(n)
	}
	return out
}

// Surrogate returns a phase-randomised copy of x: same amplitude spectrum and
// therefore the same PSD, independent phases, zero mean.
func Surrogate(rng *rand.Rand, x []float64) []float64 {
	n := len(x)
	if n < 2 {
		return make([]float64, n)
	}
	coeffs := fourier.NewFFT(n).Coefficients(nil, x)
	spectrum := make([]complex128, n)
	half := n / 2
	for k := 1; k <= half; k++ {
		mag := cmplx.Abs(coeffs[k])
		if n%2 == 0 && k == half {
			sign := 1.0
			if rng.Float64() < 0.5 {
				sign = -1
			}
			spectrum[k] = complex(sign*mag, 0)
			continue
		}
		spectrum[k] = cmplx.Rect(mag, 2*math.Pi*rng.Float64())
		spectrum[n-k] = cmplx.Conj(spectrum[k])
	}
	return inverseReal(spectrum)
}
