package road

import (
	"fmt"
	"math"
)

// FeatureLeadIn is the time (s) at which the first discrete road feature is centred,
// capped at half the duration for short runs.
const FeatureLeadIn = 1.0

// Source is the tagged union of generator payloads. The set of variants is closed:
// Sine, Sweep, Step, Pothole, SpeedBump, Iso8608 and CSV. Consumers dispatch with a
// type switch whose default branch reports an unsupported source.
type Source interface {
	Kind() SourceKind
	isSource()
}

// Sine is a continuous sinusoidal road.
type Sine struct {
	Amplitude float64 // m
	Frequency float64 // Hz
	Phase     float64 // rad
}

// Sweep is a chirp between two temporal frequencies.
type Sweep struct {
	Amplitude      float64
	FrequencyStart float64
	FrequencyEnd   float64
	Phase          float64
	SweepType      string // "linear" or "logarithmic"
}

// Step is a (smoothed) change of road level.
type Step struct {
	Height   float64 // m
	StepTime float64 // s
	RiseTime float64 // s, 0 = hard step
}

// Pothole is a negative half-sine lobe.
type Pothole struct {
	Depth      float64 // m, positive
	Length     float64 // m along the road
	CenterTime float64 // s
	Spacing    float64 // m between repeated potholes, 0 = single
}

// SpeedBump is a positive lobe.
type SpeedBump struct {
	Height     float64
	Length     float64
	CenterTime float64
	Spacing    float64
	Profile    string // "sinusoidal" or "circular"
}

// Iso8608 is a stochastic road of the given roughness class.
type Iso8608 struct {
	Class       Iso8608Class
	Correlation CorrelationSpec
}

// CSV is a road profile recorded on disk.
type CSV struct {
	Path        string
	Format      string // "" or "auto" = detect
	Correlation CorrelationSpec
}

func (Sine) Kind() SourceKind      { return SourceSine }
func (Sweep) Kind() SourceKind     { return SourceSweep }
func (Step) Kind() SourceKind      { return SourceStep }
func (Pothole) Kind() SourceKind   { return SourcePothole }
func (SpeedBump) Kind() SourceKind { return SourceSpeedBump }
func (Iso8608) Kind() SourceKind   { return SourceISO8608 }
func (CSV) Kind() SourceKind       { return SourceCSV }

func (Sine) isSource()      {}
func (Sweep) isSource()     {}
func (Step) isSource()      {}
func (Pothole) isSource()   {}
func (SpeedBump) isSource() {}
func (Iso8608) isSource()   {}
func (CSV) isSource()       {}

// Variant builds the payload selected by e.Source.
func (e EffectiveParams) Variant() (Source, error) {
	center := math.Min(FeatureLeadIn, e.Duration/2)
	switch e.Source {
	case SourceSine:
		return Sine{Amplitude: e.Amplitude, Frequency: e.Frequency, Phase: e.Phase}, nil
	case SourceSweep:
		return Sweep{
			Amplitude: e.Amplitude, FrequencyStart: e.Frequency, FrequencyEnd: e.FrequencyEnd,
			Phase: e.Phase, SweepType: e.SweepType,
		}, nil
	case SourceStep:
		return Step{Height: e.Amplitude, StepTime: center, RiseTime: e.FeatureLength / e.Velocity}, nil
	case SourcePothole:
		return Pothole{Depth: e.FeatureHeight, Length: e.FeatureLength, CenterTime: center, Spacing: e.FeatureSpacing}, nil
	case SourceSpeedBump:
		return SpeedBump{
			Height: e.FeatureHeight, Length: e.FeatureLength, CenterTime: center,
			Spacing: e.FeatureSpacing, Profile: e.BumpProfile,
		}, nil
	case SourceISO8608:
		return Iso8608{Class: e.IsoClass, Correlation: e.Correlation}, nil
	case SourceCSV:
		return CSV{Path: e.CSVPath, Format: e.CSVFormat, Correlation: e.Correlation}, nil
	}
	return nil, fmt.Errorf("unsupported source kind %q", e.Source)
}
