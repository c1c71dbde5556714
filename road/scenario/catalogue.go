package scenario

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/pneumo-sim/road-input/road"
)

// Catalogue is a read-only set of presets keyed by lower-case name.
type Catalogue struct {
	presets map[string]road.Preset
}

// aliases map short names onto canonical preset names.
var aliases = map[string]string{
	"standard":   "urban_50kmh",
	"default":    "urban_50kmh",
	"urban":      "urban_50kmh",
	"city":       "urban_50kmh",
	"highway":    "highway_100kmh",
	"offroad":    "offroad_rough",
	"sine":       "test_sine",
	"sweep":      "test_sweep",
	"step":       "test_step",
	"pothole":    "test_pothole",
	"bump":       "test_speed_bump",
	"speed_bump": "test_speed_bump",
}

var (
	catalogueOnce sync.Once
	builtin       *Catalogue
)

// All returns the built-in catalogue, building it on first use.
func All() *Catalogue {
	catalogueOnce.Do(func() {
		builtin = newCatalogue(builtinPresets())
		logrus.Debugf("scenario catalogue built with %d presets", builtin.Len())
	})
	return builtin
}

func builtinPresets() []road.Preset {
	type factory func() (road.Preset, error)
	factories := []factory{
		func() (road.Preset, error) { return Highway(100, road.ClassB) },
		func() (road.Preset, error) { return Highway(130, road.ClassA) },
		func() (road.Preset, error) { return Urban(30) },
		func() (road.Preset, error) { return Urban(50) },
		func() (road.Preset, error) { return Offroad(road.ClassE) },
		func() (road.Preset, error) { return Offroad(road.ClassG) },
		func() (road.Preset, error) { return Maneuver(ManeuverBumpSeries) },
		func() (road.Preset, error) { return Maneuver(ManeuverPotholeSeries) },
		func() (road.Preset, error) { return Test(road.SourceSine) },
		func() (road.Preset, error) { return Test(road.SourceSweep) },
		func() (road.Preset, error) { return Test(road.SourceStep) },
		func() (road.Preset, error) { return Test(road.SourcePothole) },
		func() (road.Preset, error) { return Test(road.SourceSpeedBump) },
	}
	presets := make([]road.Preset, 0, len(factories))
	for _, f := range factories {
		p, err := f()
		if err != nil {
			panic(fmt.Sprintf("built-in preset is invalid: %v", err))
		}
		presets = append(presets, p)
	}
	return presets
}

func newCatalogue(presets []road.Preset) *Catalogue {
	return &Catalogue{presets: lo.SliceToMap(presets, func(p road.Preset) (string, road.Preset) {
		return strings.ToLower(p.Name), p
	})}
}

// Len returns the number of presets.
func (c *Catalogue) Len() int { return len(c.presets) }

// Names returns the preset names in sorted order.
func (c *Catalogue) Names() []string {
	names := lo.Keys(c.presets)
	sort.Strings(names)
	return names
}

// Get returns the preset with the exact (case-insensitive) name.
func (c *Catalogue) Get(name string) (road.Preset, bool) {
	p, ok := c.presets[strings.ToLower(name)]
	return clonePreset(p), ok
}

// Presets returns every preset sorted by name.
func (c *Catalogue) Presets() []road.Preset {
	return lo.Map(c.Names(), func(name string, _ int) road.Preset { return clonePreset(c.presets[name]) })
}

// Resolve maps a user token onto a preset name. Tokens are matched
// case-insensitively against the names first and the alias table second.
// Anything that is not a string resolves to ("", false).
func (c *Catalogue) Resolve(token any) (string, bool) {
	s, ok := token.(string)
	if !ok {
		return "", false
	}
	key := strings.ToLower(strings.TrimSpace(s))
	if _, ok := c.presets[key]; ok {
		return key, true
	}
	if target, ok := aliases[key]; ok {
		if _, ok := c.presets[target]; ok {
			return target, true
		}
	}
	return "", false
}

// Lookup resolves token and returns the preset.
func (c *Catalogue) Lookup(token any) (road.Preset, error) {
	name, ok := c.Resolve(token)
	if !ok {
		return road.Preset{}, fmt.Errorf("unknown scenario %v; valid: %s", token, strings.Join(c.Names(), ", "))
	}
	return clonePreset(c.presets[name]), nil
}

// clonePreset copies the pointer fields so callers cannot alter catalogue entries.
func clonePreset(p road.Preset) road.Preset {
	if p.IsoClass != nil {
		class := *p.IsoClass
		p.IsoClass = &class
	}
	if p.Correlation.Seed != nil {
		seed := *p.Correlation.Seed
		p.Correlation.Seed = &seed
	}
	return p
}

// With returns a new catalogue holding c's presets plus extra. Extra presets
// replace built-ins of the same name.
func (c *Catalogue) With(extra ...road.Preset) *Catalogue {
	merged := make(map[string]road.Preset, len(c.presets)+len(extra))
	for k, v := range c.presets {
		merged[k] = v
	}
	for _, p := range extra {
		key := strings.ToLower(p.Name)
		if _, ok := merged[key]; ok {
			logrus.Warnf("custom preset %q replaces the built-in preset", p.Name)
		}
		merged[key] = p
	}
	return &Catalogue{presets: merged}
}

// ResolveName resolves a token against the built-in catalogue.
func ResolveName(token any) (string, bool) {
	return All().Resolve(token)
}

// ByName returns the built-in preset for a name or alias.
func ByName(token any) (road.Preset, error) {
	return All().Lookup(token)
}

// presetFile is the on-disk layout read by LoadFile.
type presetFile struct {
	Presets []road.Preset `yaml:"presets"`
}

// LoadFile reads custom presets from a YAML file. Unknown keys are rejected and
// every preset is completed with defaults and validated.
func LoadFile(path string) ([]road.Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading preset file: %w", err)
	}
	var file presetFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("parsing preset file: %w", err)
	}
	if len(file.Presets) == 0 {
		return nil, fmt.Errorf("preset file %s defines no presets", path)
	}
	seen := make(map[string]bool, len(file.Presets))
	out := make([]road.Preset, 0, len(file.Presets))
	for i, p := range file.Presets {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("preset %d in %s has no name", i+1, path)
		}
		key := strings.ToLower(p.Name)
		if seen[key] {
			return nil, fmt.Errorf("preset %q is defined twice in %s", p.Name, path)
		}
		seen[key] = true
		valid, err := road.NewPreset(p)
		if err != nil {
			return nil, err
		}
		out = append(out, valid)
	}
	return out, nil
}
