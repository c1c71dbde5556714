package road

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFrequencyEnd is the sweep end frequency when none is given.
const DefaultFrequencyEnd = 20.0 // Hz

// Geometry is the vehicle geometry the engine needs.
type Geometry struct {
	Wheelbase float64 `yaml:"wheelbase"` // m, front to rear axle
	Track     float64 `yaml:"track"`     // m, left to right wheel
}

// GeometryProvider is implemented by an external vehicle system that owns the
// authoritative geometry. ok=false means the system has no geometry to offer.
type GeometryProvider interface {
	Geometry() (g Geometry, ok bool)
}

// RoadConfig is the top-level configuration of a RoadInput.
// Nil override pointers mean "not set" and never replace preset values.
type RoadConfig struct {
	// PresetName is resolved through the scenario catalogue when Preset is nil.
	PresetName string  `yaml:"preset_name,omitempty"`
	Preset     *Preset `yaml:"preset,omitempty"`

	Source      *SourceKind      `yaml:"source,omitempty"`
	Velocity    *float64         `yaml:"velocity,omitempty"`
	Duration    *float64         `yaml:"duration,omitempty"`
	Amplitude   *float64         `yaml:"amplitude,omitempty"`
	Frequency   *float64         `yaml:"frequency,omitempty"`
	Phase       *float64         `yaml:"phase,omitempty"`
	IsoClass    *Iso8608Class    `yaml:"iso_class,omitempty"`
	Correlation *CorrelationSpec `yaml:"correlation,omitempty"`

	Wheelbase float64 `yaml:"wheelbase,omitempty"`
	Track     float64 `yaml:"track,omitempty"`

	CSVPath   string `yaml:"csv_path,omitempty"`
	CSVFormat string `yaml:"csv_format,omitempty"` // "" or "auto" = detect

	ResampleHz *float64 `yaml:"resample_hz,omitempty"`
}

// EffectiveParams is the fully-resolved parameter set of a RoadConfig.
type EffectiveParams struct {
	PresetName string     `yaml:"preset_name,omitempty"`
	Source     SourceKind `yaml:"source"`

	Velocity     float64 `yaml:"velocity"`
	Duration     float64 `yaml:"duration"`
	Amplitude    float64 `yaml:"amplitude"`
	Frequency    float64 `yaml:"frequency"`
	FrequencyEnd float64 `yaml:"frequency_end"`
	Phase        float64 `yaml:"phase"`
	SweepType    string  `yaml:"sweep_type"`

	IsoClass Iso8608Class `yaml:"iso_class"`

	FeatureLength  float64 `yaml:"feature_length"`
	FeatureHeight  float64 `yaml:"feature_height"`
	FeatureSpacing float64 `yaml:"feature_spacing"`
	BumpProfile    string  `yaml:"bump_profile"`

	Correlation CorrelationSpec `yaml:"correlation"`
	ResampleHz  float64         `yaml:"resample_hz"`

	Wheelbase float64 `yaml:"wheelbase"`
	Track     float64 `yaml:"track"`
	CSVPath   string  `yaml:"csv_path,omitempty"`
	CSVFormat string  `yaml:"csv_format,omitempty"`
}

// defaultParams are the built-in values used when no preset is attached.
func defaultParams() EffectiveParams {
	return EffectiveParams{
		Source:        SourceSine,
		Velocity:      DefaultVelocity,
		Duration:      DefaultDuration,
		Amplitude:     DefaultAmplitude,
		Frequency:     DefaultFrequency,
		FrequencyEnd:  DefaultFrequencyEnd,
		Phase:         DefaultPhase,
		SweepType:     DefaultSweepType,
		IsoClass:      DefaultIsoClass,
		FeatureLength: DefaultFeatureLength,
		FeatureHeight: DefaultFeatureHeight,
		BumpProfile:   DefaultBumpProfile,
		Correlation:   DefaultCorrelation(),
		ResampleHz:    DefaultResampleHz,
	}
}

// fromPreset copies the preset's values over the defaults.
func fromPreset(p *Preset) EffectiveParams {
	e := defaultParams()
	e.PresetName = p.Name
	e.Source = p.Source
	e.Velocity = p.Velocity
	e.Duration = p.Duration
	e.Amplitude = p.Amplitude
	e.Frequency = p.Frequency
	if p.FrequencyEnd != 0 {
		e.FrequencyEnd = p.FrequencyEnd
	}
	e.Phase = p.Phase
	if p.SweepType != "" {
		e.SweepType = p.SweepType
	}
	if p.IsoClass != nil {
		e.IsoClass = *p.IsoClass
	}
	e.FeatureLength = p.FeatureLength
	e.FeatureHeight = p.FeatureHeight
	e.FeatureSpacing = p.FeatureSpacing
	if p.BumpProfile != "" {
		e.BumpProfile = p.BumpProfile
	}
	if p.Correlation.Method != "" {
		e.Correlation = p.Correlation
	}
	if p.ResampleHz != 0 {
		e.ResampleHz = p.ResampleHz
	}
	return e
}

// EffectiveParams layers preset (or defaults) → manual overrides → geometry and
// sampling passthrough. Manual overrides always win. Pure function of c.
func (c *RoadConfig) EffectiveParams() EffectiveParams {
	var e EffectiveParams
	if c.Preset != nil {
		e = fromPreset(c.Preset)
	} else {
		e = defaultParams()
		e.PresetName = c.PresetName
	}

	if c.Source != nil {
		e.Source = *c.Source
	}
	if c.Velocity != nil {
		e.Velocity = *c.Velocity
	}
	if c.Duration != nil {
		e.Duration = *c.Duration
	}
	if c.Amplitude != nil {
		e.Amplitude = *c.Amplitude
	}
	if c.Frequency != nil {
		e.Frequency = *c.Frequency
	}
	if c.Phase != nil {
		e.Phase = *c.Phase
	}
	if c.IsoClass != nil {
		e.IsoClass = *c.IsoClass
	}
	if c.Correlation != nil {
		e.Correlation = *c.Correlation
	}
	if c.ResampleHz != nil {
		e.ResampleHz = *c.ResampleHz
	}

	e.Wheelbase = c.Wheelbase
	if e.Wheelbase <= 0 {
		e.Wheelbase = DefaultWheelbase
	}
	e.Track = c.Track
	if e.Track <= 0 {
		e.Track = DefaultTrack
	}
	e.CSVPath = c.CSVPath
	e.CSVFormat = c.CSVFormat
	return e
}

// Validate checks that the resolved parameters can drive a generator.
func (e EffectiveParams) Validate() error {
	if !e.Source.IsValid() {
		return fmt.Errorf("unsupported source kind %q", e.Source)
	}
	if err := validateFinitePositive("velocity", e.Velocity); err != nil {
		return err
	}
	if err := validateFinitePositive("duration", e.Duration); err != nil {
		return err
	}
	if err := validateFinitePositive("resample_hz", e.ResampleHz); err != nil {
		return err
	}
	if err := validateFinitePositive("wheelbase", e.Wheelbase); err != nil {
		return err
	}
	if _, ok := e.IsoClass.Params(); !ok {
		return fmt.Errorf("unknown ISO 8608 class %q", e.IsoClass)
	}
	return e.Correlation.Validate()
}

// LoadRoadConfig reads and parses a YAML road configuration file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadRoadConfig(path string) (*RoadConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading road config: %w", err)
	}
	return ParseRoadConfig(data)
}

// ParseRoadConfig decodes a YAML road configuration.
func ParseRoadConfig(data []byte) (*RoadConfig, error) {
	var cfg RoadConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing road config: %w", err)
	}
	if cfg.Preset != nil {
		p, err := NewPreset(*cfg.Preset)
		if err != nil {
			return nil, fmt.Errorf("parsing road config: %w", err)
		}
		cfg.Preset = &p
	}
	if cfg.Correlation != nil {
		c, err := NewCorrelationSpec(cfg.Correlation.RhoLR, cfg.Correlation.Method, cfg.Correlation.Seed)
		if err != nil {
			return nil, fmt.Errorf("parsing road config: %w", err)
		}
		cfg.Correlation = &c
	}
	return &cfg, nil
}
