package iso8608

import (
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Welch estimates the one-sided power spectral density of x sampled at fs.
// Segments of length segment overlap by half, are mean-detrended and Hann
// windowed; the averaged periodograms are density-scaled (units² per unit of fs).
// segment is capped at len(x).
func Welch(x []float64, fs float64, segment int) (freqs, psd []float64, err error) {
	if len(x) < 2 {
		return nil, nil, fmt.Errorf("welch needs at least 2 samples, got %d", len(x))
	}
	if fs <= 0 {
		return nil, nil, fmt.Errorf("welch sampling rate must be positive, got %v", fs)
	}
	if segment > len(x) || segment <= 0 {
		segment = len(x)
	}
	if segment < 2 {
		return nil, nil, fmt.Errorf("welch segment must hold at least 2 samples, got %d", segment)
	}
	step := max(1, segment/2)

	win := make([]float64, segment)
	floats.AddConst(1, win)
	win = window.Hann(win)
	scale := 1 / (fs * floats.Dot(win, win))

	fft := fourier.NewFFT(segment)
	bins := segment/2 + 1
	psd = make([]float64, bins)
	buf := make([]float64, segment)
	coeffs := make([]complex128, bins)
	segments := 0
	for start := 0; start+segment <= len(x); start += step {
		copy(buf, x[start:start+segment])
		floats.AddConst(-stat.Mean(buf, nil), buf)
		floats.Mul(buf, win)
		coeffs = fft.Coefficients(coeffs, buf)
		for k, c := range coeffs {
			p := cmplx.Abs(c)
			p *= p * scale
			if k != 0 && !(segment%2 == 0 && k == bins-1) {
				p *= 2
			}
			psd[k] += p
		}
		segments++
	}
	floats.Scale(1/float64(segments), psd)

	freqs = make([]float64, bins)
	for k := range freqs {
		freqs[k] = fft.Freq(k) * fs
	}
	return freqs, psd, nil
}
