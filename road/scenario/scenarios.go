// Package scenario holds the built-in road presets and the catalogue that resolves
// them by name.
//
// Each factory returns a validated road.Preset ready to attach to a RoadConfig.
// Stochastic presets carry a fixed seed so that catalogue runs are reproducible.
package scenario

import (
	"fmt"

	"github.com/pneumo-sim/road-input/road"
)

// CatalogueSeed seeds every built-in preset.
const CatalogueSeed int64 = 42

// kmh converts km/h to m/s.
func kmh(v float64) float64 { return v / 3.6 }

func seededCorrelation(rho float64, method road.CorrelationMethod) road.CorrelationSpec {
	seed := CatalogueSeed
	return road.CorrelationSpec{RhoLR: rho, Method: method, Seed: &seed}
}

// Highway creates a stochastic highway run. Highway tracks share most of their
// roughness, hence the high left/right correlation.
func Highway(speedKmh float64, class road.Iso8608Class) (road.Preset, error) {
	return road.NewPreset(road.Preset{
		Name:        fmt.Sprintf("highway_%.0fkmh", speedKmh),
		Description: fmt.Sprintf("ISO 8608 class %s highway at %.0f km/h", class, speedKmh),
		Source:      road.SourceISO8608,
		Velocity:    kmh(speedKmh),
		Duration:    60,
		IsoClass:    &class,
		Correlation: seededCorrelation(0.8, road.MethodCoherence),
	})
}

// Urban creates a class C city street run.
func Urban(speedKmh float64) (road.Preset, error) {
	class := road.ClassC
	return road.NewPreset(road.Preset{
		Name:        fmt.Sprintf("urban_%.0fkmh", speedKmh),
		Description: fmt.Sprintf("ISO 8608 class C city street at %.0f km/h", speedKmh),
		Source:      road.SourceISO8608,
		Velocity:    kmh(speedKmh),
		Duration:    60,
		IsoClass:    &class,
		Correlation: seededCorrelation(0.6, road.MethodCoherence),
	})
}

// Offroad creates a slow run over a rough class. Classes G and H are named
// offroad_extreme, anything smoother offroad_rough.
func Offroad(class road.Iso8608Class) (road.Preset, error) {
	name := "offroad_rough"
	if class >= road.ClassG {
		name = "offroad_extreme"
	}
	return road.NewPreset(road.Preset{
		Name:        name,
		Description: fmt.Sprintf("ISO 8608 class %s track at 20 km/h", class),
		Source:      road.SourceISO8608,
		Velocity:    kmh(20),
		Duration:    60,
		IsoClass:    &class,
		Correlation: seededCorrelation(0.4, road.MethodMixing),
	})
}

// Maneuver kinds.
const (
	ManeuverBumpSeries    = "bump_series"
	ManeuverPotholeSeries = "pothole_series"
)

// Maneuver creates a repeated discrete-feature run.
func Maneuver(kind string) (road.Preset, error) {
	switch kind {
	case ManeuverBumpSeries:
		return road.NewPreset(road.Preset{
			Name:           "maneuver_bump_series",
			Description:    "speed bumps every 25 m at 30 km/h",
			Source:         road.SourceSpeedBump,
			Velocity:       kmh(30),
			Duration:       20,
			FeatureLength:  3.0,
			FeatureHeight:  0.07,
			FeatureSpacing: 25,
			BumpProfile:    "circular",
			Correlation:    seededCorrelation(1.0, road.MethodCoherence),
		})
	case ManeuverPotholeSeries:
		return road.NewPreset(road.Preset{
			Name:           "maneuver_pothole_series",
			Description:    "potholes every 15 m at 40 km/h",
			Source:         road.SourcePothole,
			Velocity:       kmh(40),
			Duration:       20,
			FeatureLength:  0.6,
			FeatureHeight:  0.06,
			FeatureSpacing: 15,
			Correlation:    seededCorrelation(1.0, road.MethodCoherence),
		})
	}
	return road.Preset{}, fmt.Errorf("unknown maneuver %q; valid: %s, %s", kind, ManeuverBumpSeries, ManeuverPotholeSeries)
}

// Test creates a short deterministic signal used for rig checks. kind is a
// deterministic source kind.
func Test(kind road.SourceKind) (road.Preset, error) {
	p := road.Preset{
		Name:        "test_" + string(kind),
		Source:      kind,
		Velocity:    10,
		Duration:    10,
		Correlation: seededCorrelation(1.0, road.MethodCoherence),
	}
	switch kind {
	case road.SourceSine:
		p.Description = "0.02 m sine at 1.5 Hz"
		p.Amplitude, p.Frequency = 0.02, 1.5
	case road.SourceSweep:
		p.Description = "0.01 m linear sweep 0.5 to 20 Hz"
		p.Amplitude, p.Frequency, p.FrequencyEnd = 0.01, 0.5, 20
		p.Duration = 20
	case road.SourceStep:
		p.Description = "0.03 m step with 0.1 s rise"
		p.Amplitude, p.Velocity, p.FeatureLength = 0.03, 5, 0.5
		p.Duration = 5
	case road.SourcePothole:
		p.Description = "single 0.05 m deep pothole"
		p.FeatureHeight, p.FeatureLength = 0.05, 0.5
		p.Duration = 5
	case road.SourceSpeedBump:
		p.Description = "single 0.06 m speed bump at 18 km/h"
		p.FeatureHeight, p.FeatureLength, p.Velocity = 0.06, 1.0, 5
		p.Duration = 5
	default:
		return road.Preset{}, fmt.Errorf("no test preset for source %q", kind)
	}
	return road.NewPreset(p)
}
