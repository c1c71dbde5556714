package road

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// SourceKind selects which generator branch produces the road profile.
type SourceKind string

const (
	SourceSine      SourceKind = "sine"
	SourceSweep     SourceKind = "sweep"
	SourceStep      SourceKind = "step"
	SourcePothole   SourceKind = "pothole"
	SourceSpeedBump SourceKind = "speed_bump"
	SourceISO8608   SourceKind = "iso8608"
	SourceCSV       SourceKind = "csv"
)

// validSourceKinds is the closed set of recognized source kinds.
var validSourceKinds = map[SourceKind]bool{
	SourceSine: true, SourceSweep: true, SourceStep: true, SourcePothole: true,
	SourceSpeedBump: true, SourceISO8608: true, SourceCSV: true,
}

// ParseSourceKind converts a case-insensitive source name.
// "iso", "iso_8608" and "speedbump" are accepted spellings.
func ParseSourceKind(s string) (SourceKind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "iso", "iso_8608", "iso-8608":
		name = string(SourceISO8608)
	case "speedbump", "speed-bump", "bump":
		name = string(SourceSpeedBump)
	}
	k := SourceKind(name)
	if !validSourceKinds[k] {
		return "", fmt.Errorf("unsupported source kind %q; valid: sine, sweep, step, pothole, speed_bump, iso8608, csv", s)
	}
	return k, nil
}

// IsValid reports whether k is one of the recognized source kinds.
func (k SourceKind) IsValid() bool {
	return validSourceKinds[k]
}

// IsDeterministic reports whether the kind is produced by an analytic waveform.
func (k SourceKind) IsDeterministic() bool {
	switch k {
	case SourceSine, SourceSweep, SourceStep, SourcePothole, SourceSpeedBump:
		return true
	}
	return false
}

// UnmarshalYAML validates the kind while decoding.
func (k *SourceKind) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseSourceKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
