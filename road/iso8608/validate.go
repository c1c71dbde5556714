package iso8608

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"github.com/pneumo-sim/road-input/road"
)

// DefaultTolerance is the accepted mean absolute log10 PSD error, in decades.
const DefaultTolerance = 0.5

// ISO 8608 reporting band in cycles/m.
const (
	BandMin = 0.011
	BandMax = 2.83
)

// DefaultSegment is the preferred Welch segment length.
const DefaultSegment = 1024

// ValidateOptions tunes Validate. Zero values select the defaults.
type ValidateOptions struct {
	Tolerance float64 // decades
	Segment   int     // Welch segment length
}

// Report is the result of a PSD conformance check.
type Report struct {
	IsValid           bool              `yaml:"is_valid"`
	IsoClass          road.Iso8608Class `yaml:"iso_class"`
	MeanLogError      float64           `yaml:"mean_log_error"`
	Tolerance         float64           `yaml:"tolerance"`
	FreqRange         [2]float64        `yaml:"freq_range"`
	TargetPSDRange    [2]float64        `yaml:"target_psd_range"`
	EstimatedPSDRange [2]float64        `yaml:"estimated_psd_range"`
	Bins              int               `yaml:"bins"`
	Gd                float64           `yaml:"gd"`
	W                 float64           `yaml:"w"`
	N0                float64           `yaml:"n0"`
}

// Validate estimates the spatial PSD of profile and compares it to the class
// target in log10 space. The profile is sampled in time at resampleHz while the
// vehicle travels at velocity. This is a statistical acceptance test: profiles
// pass when the mean absolute log10 error over the resolved band is within the
// tolerance.
func Validate(profile []float64, velocity, resampleHz float64, class road.Iso8608Class, opts ValidateOptions) (Report, error) {
	psdParams, ok := class.Params()
	if !ok {
		return Report{}, fmt.Errorf("unknown ISO 8608 class %q", class)
	}
	if velocity <= 0 || resampleHz <= 0 {
		return Report{}, fmt.Errorf("velocity and resample_hz must be positive, got %v and %v", velocity, resampleHz)
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = DefaultTolerance
	}
	if opts.Segment <= 0 {
		opts.Segment = defaultSegment(len(profile))
	}

	fs := resampleHz / velocity // samples per metre
	freqs, est, err := Welch(profile, fs, opts.Segment)
	if err != nil {
		return Report{}, err
	}

	// The two lowest bins are dominated by window leakage from the steep
	// low-frequency end of the spectrum.
	lowest := math.Max(BandMin, 2*freqs[1])
	highest := math.Min(BandMax, fs/4)

	report := Report{
		IsoClass:  class,
		Tolerance: opts.Tolerance,
		Gd:        psdParams.Gd,
		W:         psdParams.W,
		N0:        road.ReferenceSpatialFrequency,
	}
	var targets, estimates, errs []float64
	for k, f := range freqs {
		if f < lowest || f > highest || est[k] <= 0 {
			continue
		}
		target := psdParams.Target(f)
		targets = append(targets, target)
		estimates = append(estimates, est[k])
		errs = append(errs, math.Abs(math.Log10(est[k])-math.Log10(target)))
		if len(errs) == 1 {
			report.FreqRange[0] = f
		}
		report.FreqRange[1] = f
	}
	if len(errs) == 0 {
		return Report{}, fmt.Errorf("no PSD bins inside [%.3g, %.3g] cycles/m; profile too short or sampled too coarsely", lowest, highest)
	}

	report.Bins = len(errs)
	report.MeanLogError = floats.Sum(errs) / float64(len(errs))
	report.TargetPSDRange = [2]float64{floats.Min(targets), floats.Max(targets)}
	report.EstimatedPSDRange = [2]float64{floats.Min(estimates), floats.Max(estimates)}
	report.IsValid = report.MeanLogError <= report.Tolerance
	logrus.Debugf("iso8608 validation class=%s bins=%d mean_log_error=%.3f valid=%t",
		class, report.Bins, report.MeanLogError, report.IsValid)
	return report, nil
}

// defaultSegment picks the largest power of two up to DefaultSegment that still
// leaves about eight segments.
func defaultSegment(n int) int {
	seg := DefaultSegment
	for seg > 64 && seg*4 > n {
		seg /= 2
	}
	return seg
}
