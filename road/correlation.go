package road

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"gopkg.in/yaml.v3"
)

// CorrelationMethod selects how the right track is derived from the left track.
type CorrelationMethod string

const (
	// MethodCoherence blends the left track with an independent realisation that has
	// the same spectrum.
	MethodCoherence CorrelationMethod = "coherence"
	// MethodMixing blends the left track with white noise in the time domain.
	MethodMixing CorrelationMethod = "mixing"
)

var validCorrelationMethods = map[CorrelationMethod]bool{
	MethodCoherence: true, MethodMixing: true,
}

// CorrelationSpec governs left/right track correlation.
// Use NewCorrelationSpec or Validate before use; the zero value is not valid.
type CorrelationSpec struct {
	RhoLR  float64           `yaml:"rho_lr"`
	Method CorrelationMethod `yaml:"method"`
	Seed   *int64            `yaml:"seed,omitempty"` // nil = non-deterministic
}

// DefaultCorrelation is used when neither a preset nor an override supplies one.
func DefaultCorrelation() CorrelationSpec {
	return CorrelationSpec{RhoLR: 0.7, Method: MethodCoherence}
}

// NewCorrelationSpec builds and validates a correlation spec.
// The method is case-insensitive; empty defaults to coherence.
func NewCorrelationSpec(rho float64, method CorrelationMethod, seed *int64) (CorrelationSpec, error) {
	method = CorrelationMethod(strings.ToLower(strings.TrimSpace(string(method))))
	if method == "" {
		method = MethodCoherence
	}
	c := CorrelationSpec{RhoLR: rho, Method: method, Seed: seed}
	if err := c.Validate(); err != nil {
		return CorrelationSpec{}, err
	}
	return c, nil
}

// Validate checks rho ∈ [0,1] and a known method.
func (c CorrelationSpec) Validate() error {
	if math.IsNaN(c.RhoLR) || c.RhoLR < 0 || c.RhoLR > 1 {
		return fmt.Errorf("correlation rho_lr must be in [0, 1], got %v", c.RhoLR)
	}
	if !validCorrelationMethods[c.Method] {
		return fmt.Errorf("unsupported correlation method %q; valid: coherence, mixing", c.Method)
	}
	return nil
}

// Independent returns sqrt(1 − rho²), the weight of the independent component.
func (c CorrelationSpec) Independent() float64 {
	return math.Sqrt(math.Max(0, 1-c.RhoLR*c.RhoLR))
}

// Rand returns the seeded generator for the given stream.
func (c CorrelationSpec) Rand(stream string) *rand.Rand {
	return NewRand(c.Seed, stream)
}

// WithSeed returns a copy with the seed set.
func (c CorrelationSpec) WithSeed(seed int64) CorrelationSpec {
	c.Seed = &seed
	return c
}

// correlationKeys are the keys accepted in a YAML correlation block.
var correlationKeys = map[string]bool{"rho_lr": true, "method": true, "seed": true}

// UnmarshalYAML decodes a correlation block. Keys left out take their default
// values, so an explicit rho_lr of 0 is kept while an absent one reads as 0.7.
// Unknown keys are rejected.
func (c *CorrelationSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: correlation must be a mapping", value.Line)
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		if key := value.Content[i]; !correlationKeys[key.Value] {
			return fmt.Errorf("line %d: field %s not found in correlation", key.Line, key.Value)
		}
	}
	var raw struct {
		RhoLR  *float64 `yaml:"rho_lr"`
		Method string   `yaml:"method"`
		Seed   *int64   `yaml:"seed"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*c = DefaultCorrelation()
	if raw.RhoLR != nil {
		c.RhoLR = *raw.RhoLR
	}
	if m := strings.ToLower(strings.TrimSpace(raw.Method)); m != "" {
		c.Method = CorrelationMethod(m)
	}
	c.Seed = raw.Seed
	return nil
}
