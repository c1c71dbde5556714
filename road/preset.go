package road

import (
	"fmt"
	"math"
)

// Defaults applied when neither a preset nor an override supplies a value.
const (
	DefaultVelocity      = 25.0   // m/s
	DefaultDuration      = 60.0   // s
	DefaultAmplitude     = 0.01   // m
	DefaultFrequency     = 1.0    // Hz
	DefaultPhase         = 0.0    // rad
	DefaultResampleHz    = 1000.0 // Hz
	DefaultFeatureLength = 0.5    // m
	DefaultFeatureHeight = 0.05   // m
	DefaultWheelbase     = 2.7    // m
	DefaultTrack         = 1.6    // m
	DefaultIsoClass      = ClassC
	DefaultSweepType     = "linear"
	DefaultBumpProfile   = "sinusoidal"
)

// Preset is a named bundle of generator choice and parameters.
// Construct with NewPreset so that velocity and duration are checked.
type Preset struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Source      SourceKind `yaml:"source"`
	Velocity    float64    `yaml:"velocity"` // m/s, > 0
	Duration    float64    `yaml:"duration"` // s, > 0

	Amplitude    float64 `yaml:"amplitude"`               // m
	Frequency    float64 `yaml:"frequency"`               // Hz; sweep start frequency
	FrequencyEnd float64 `yaml:"frequency_end,omitempty"` // Hz; sweep end frequency
	Phase        float64 `yaml:"phase"`                   // rad
	SweepType    string  `yaml:"sweep_type,omitempty"`    // "linear" or "logarithmic"

	IsoClass *Iso8608Class `yaml:"iso_class,omitempty"`

	FeatureLength  float64 `yaml:"feature_length"`         // m along the road
	FeatureHeight  float64 `yaml:"feature_height"`         // m; depth for potholes
	FeatureSpacing float64 `yaml:"feature_spacing"`        // m between repeated features, 0 = single
	BumpProfile    string  `yaml:"bump_profile,omitempty"` // "sinusoidal" or "circular"

	Correlation CorrelationSpec `yaml:"correlation"`
	ResampleHz  float64         `yaml:"resample_hz"`
}

// NewPreset fills unset optional fields with defaults and validates the result.
// A correlation without a method is treated as unset: the default method is
// used and a zero rho_lr takes the default value. Presets decoded from YAML
// always carry a method, so an explicit rho_lr of 0 survives.
func NewPreset(p Preset) (Preset, error) {
	if p.ResampleHz == 0 {
		p.ResampleHz = DefaultResampleHz
	}
	if p.Correlation.Method == "" {
		def := DefaultCorrelation()
		def.Seed = p.Correlation.Seed
		if p.Correlation.RhoLR != 0 {
			def.RhoLR = p.Correlation.RhoLR
		}
		p.Correlation = def
	}
	if p.SweepType == "" {
		p.SweepType = DefaultSweepType
	}
	if p.BumpProfile == "" {
		p.BumpProfile = DefaultBumpProfile
	}
	if err := p.Validate(); err != nil {
		return Preset{}, err
	}
	return p, nil
}

// Validate checks the preset invariants.
func (p Preset) Validate() error {
	prefix := fmt.Sprintf("preset %q", p.Name)
	if !p.Source.IsValid() {
		return fmt.Errorf("%s: unsupported source kind %q", prefix, p.Source)
	}
	if err := validateFinitePositive(prefix+": velocity", p.Velocity); err != nil {
		return err
	}
	if err := validateFinitePositive(prefix+": duration", p.Duration); err != nil {
		return err
	}
	if err := validateFinitePositive(prefix+": resample_hz", p.ResampleHz); err != nil {
		return err
	}
	if p.IsoClass != nil {
		if _, ok := p.IsoClass.Params(); !ok {
			return fmt.Errorf("%s: unknown ISO 8608 class %q", prefix, *p.IsoClass)
		}
	}
	if p.FeatureLength < 0 || p.FeatureSpacing < 0 {
		return fmt.Errorf("%s: feature_length and feature_spacing must be non-negative", prefix)
	}
	if err := p.Correlation.Validate(); err != nil {
		return fmt.Errorf("%s: %w", prefix, err)
	}
	return nil
}

func validateFinitePositive(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return fmt.Errorf("%s must be a finite number, got %f", name, val)
	}
	if val <= 0 {
		return fmt.Errorf("%s must be positive, got %f", name, val)
	}
	return nil
}
