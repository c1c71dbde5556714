package road

import (
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"
)

// Iso8608Class is an ISO 8608 road roughness class, A (smoothest) to H.
type Iso8608Class string

const (
	ClassA Iso8608Class = "A"
	ClassB Iso8608Class = "B"
	ClassC Iso8608Class = "C"
	ClassD Iso8608Class = "D"
	ClassE Iso8608Class = "E"
	ClassF Iso8608Class = "F"
	ClassG Iso8608Class = "G"
	ClassH Iso8608Class = "H"
)

// ReferenceSpatialFrequency is n0 in cycles/m.
const ReferenceSpatialFrequency = 0.1

// PSDParams are the displacement PSD parameters of one roughness class.
// Gd is the PSD value at n0 in m³/cycle and W the waviness exponent.
type PSDParams struct {
	Gd float64 `yaml:"gd"`
	W  float64 `yaml:"w"`
}

// Target evaluates Gd·(n/n0)^(−w) at spatial frequency n (cycles/m).
func (p PSDParams) Target(n float64) float64 {
	return p.Gd * math.Pow(n/ReferenceSpatialFrequency, -p.W)
}

// Geometric means of the class bands; each class is four times rougher than the previous.
var isoClassTable = map[Iso8608Class]PSDParams{
	ClassA: {Gd: 16e-6, W: 2.0},
	ClassB: {Gd: 64e-6, W: 2.0},
	ClassC: {Gd: 256e-6, W: 2.0},
	ClassD: {Gd: 1024e-6, W: 2.0},
	ClassE: {Gd: 4096e-6, W: 2.0},
	ClassF: {Gd: 16384e-6, W: 2.0},
	ClassG: {Gd: 65536e-6, W: 2.0},
	ClassH: {Gd: 262144e-6, W: 2.0},
}

// Iso8608Classes lists all classes from smoothest to roughest.
var Iso8608Classes = []Iso8608Class{ClassA, ClassB, ClassC, ClassD, ClassE, ClassF, ClassG, ClassH}

// ParseIso8608Class converts a case-insensitive class letter.
func ParseIso8608Class(s string) (Iso8608Class, error) {
	c := Iso8608Class(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := isoClassTable[c]; !ok {
		return "", fmt.Errorf("unknown ISO 8608 class %q; valid: A..H", s)
	}
	return c, nil
}

// Params returns the PSD parameters of the class. Unknown classes return ok=false.
func (c Iso8608Class) Params() (PSDParams, bool) {
	p, ok := isoClassTable[c]
	return p, ok
}

// UnmarshalYAML validates the class while decoding.
func (c *Iso8608Class) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseIso8608Class(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
