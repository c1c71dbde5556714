package road

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseWheel(t *testing.T) {
	for _, in := range []string{"lf", " RF ", "Lr", "RR"} {
		w, err := ParseWheel(in)
		require.NoError(t, err, in)
		assert.Contains(t, Wheels, w)
	}
	_, err := ParseWheel("FL")
	assert.Error(t, err)

	assert.True(t, LR.IsRear())
	assert.False(t, RF.IsRear())
	assert.True(t, LF.IsLeft())
	assert.False(t, RR.IsLeft())
	assert.Len(t, WheelPositions, 4)
}

func TestParseSourceKind(t *testing.T) {
	tests := map[string]SourceKind{
		"sine":       SourceSine,
		"SWEEP":      SourceSweep,
		"iso":        SourceISO8608,
		"ISO_8608":   SourceISO8608,
		"iso8608":    SourceISO8608,
		"speedbump":  SourceSpeedBump,
		"speed_bump": SourceSpeedBump,
		"Pothole":    SourcePothole,
		"csv":        SourceCSV,
	}
	for in, want := range tests {
		got, err := ParseSourceKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseSourceKind("gravel")
	assert.ErrorContains(t, err, "gravel")

	assert.True(t, SourceStep.IsDeterministic())
	assert.False(t, SourceISO8608.IsDeterministic())
	assert.False(t, SourceCSV.IsDeterministic())
}

func TestIso8608Class_Table(t *testing.T) {
	prev := 0.0
	for _, c := range Iso8608Classes {
		p, ok := c.Params()
		require.True(t, ok, c)
		assert.Equal(t, 2.0, p.W)
		if prev > 0 {
			assert.InDelta(t, 4.0, p.Gd/prev, 1e-12, "class %s", c)
		}
		prev = p.Gd
		assert.InDelta(t, p.Gd, p.Target(ReferenceSpatialFrequency), 1e-18)
	}
	c, _ := ClassC.Params()
	assert.InDelta(t, 256e-6/4, c.Target(0.2), 1e-15)

	got, err := ParseIso8608Class("f")
	require.NoError(t, err)
	assert.Equal(t, ClassF, got)
	_, err = ParseIso8608Class("I")
	assert.Error(t, err)
	_, ok := Iso8608Class("I").Params()
	assert.False(t, ok)
}

func TestIso8608Class_ParamsIsCopy(t *testing.T) {
	p, _ := ClassA.Params()
	p.Gd = 1
	again, _ := ClassA.Params()
	assert.Equal(t, 16e-6, again.Gd)
}

func TestNewCorrelationSpec(t *testing.T) {
	tests := []struct {
		name    string
		rho     float64
		method  CorrelationMethod
		want    CorrelationMethod
		wantErr bool
	}{
		{"defaults method", 0.5, "", MethodCoherence, false},
		{"upper case", 0.5, "MIXING", MethodMixing, false},
		{"zero", 0, MethodCoherence, MethodCoherence, false},
		{"one", 1, MethodMixing, MethodMixing, false},
		{"negative", -0.01, MethodCoherence, "", true},
		{"above one", 1.01, MethodCoherence, "", true},
		{"nan", math.NaN(), MethodCoherence, "", true},
		{"unknown method", 0.5, "blend", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, err := NewCorrelationSpec(tc.rho, tc.method, nil)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, c.Method)
		})
	}
}

func TestCorrelationSpec_Independent(t *testing.T) {
	assert.Equal(t, 1.0, CorrelationSpec{RhoLR: 0}.Independent())
	assert.Equal(t, 0.0, CorrelationSpec{RhoLR: 1}.Independent())
	assert.InDelta(t, 0.6, CorrelationSpec{RhoLR: 0.8}.Independent(), 1e-12)
}

func TestCorrelationSpec_ZeroValueInvalid(t *testing.T) {
	assert.Error(t, CorrelationSpec{}.Validate())
}

func TestNewRand_SeededStreamsAreReproducibleAndIndependent(t *testing.T) {
	seed := int64(42)
	a := NewRand(&seed, StreamSynthesis)
	b := NewRand(&seed, StreamSynthesis)
	c := NewRand(&seed, StreamCSVExpansion)
	same, differs := true, false
	for i := 0; i < 5; i++ {
		va, vb, vc := a.Int63(), b.Int63(), c.Int63()
		if va != vb {
			same = false
		}
		if va != vc {
			differs = true
		}
	}
	if !same {
		t.Error("same seed and stream produced different sequences")
	}
	if !differs {
		t.Error("different streams produced identical sequences")
	}
}

func TestCorrelationSpec_WithSeed(t *testing.T) {
	base := DefaultCorrelation()
	seeded := base.WithSeed(9)
	assert.Nil(t, base.Seed)
	require.NotNil(t, seeded.Seed)
	assert.Equal(t, seeded.Rand(StreamSynthesis).Int63(), NewRand(seeded.Seed, StreamSynthesis).Int63())
}

func TestCorrelationSpec_UnmarshalYAML(t *testing.T) {
	seed := int64(3)
	tests := []struct {
		name string
		doc  string
		want CorrelationSpec
	}{
		{"explicit zero rho", "rho_lr: 0\n", CorrelationSpec{RhoLR: 0, Method: MethodCoherence}},
		{"absent rho", "method: mixing\n", CorrelationSpec{RhoLR: 0.7, Method: MethodMixing}},
		{"method case", "rho_lr: 0.4\nmethod: Mixing\nseed: 3\n", CorrelationSpec{RhoLR: 0.4, Method: MethodMixing, Seed: &seed}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got CorrelationSpec
			require.NoError(t, yaml.Unmarshal([]byte(tc.doc), &got))
			assert.Equal(t, tc.want, got)
		})
	}

	var c CorrelationSpec
	assert.ErrorContains(t, yaml.Unmarshal([]byte("rho: 0.5\n"), &c), "rho")
	assert.Error(t, yaml.Unmarshal([]byte("[0.5]\n"), &c))
}

func TestNewPreset(t *testing.T) {
	p, err := NewPreset(Preset{Name: "p", Source: SourceSine, Velocity: 10, Duration: 5})
	require.NoError(t, err)
	assert.Equal(t, DefaultResampleHz, p.ResampleHz)
	assert.Equal(t, DefaultCorrelation().Method, p.Correlation.Method)
	assert.Equal(t, DefaultSweepType, p.SweepType)
	assert.Equal(t, DefaultBumpProfile, p.BumpProfile)

	p, err = NewPreset(Preset{Name: "p", Source: SourceSine, Velocity: 10, Duration: 5,
		Correlation: CorrelationSpec{RhoLR: 0.3}})
	require.NoError(t, err)
	assert.Equal(t, 0.3, p.Correlation.RhoLR, "rho kept when method omitted")

	tests := []struct {
		name string
		p    Preset
	}{
		{"zero velocity", Preset{Source: SourceSine, Duration: 1}},
		{"negative duration", Preset{Source: SourceSine, Velocity: 1, Duration: -2}},
		{"infinite velocity", Preset{Source: SourceSine, Velocity: math.Inf(1), Duration: 1}},
		{"unknown source", Preset{Source: "gravel", Velocity: 1, Duration: 1}},
		{"bad class", Preset{Source: SourceISO8608, Velocity: 1, Duration: 1, IsoClass: ptr(Iso8608Class("X"))}},
		{"negative spacing", Preset{Source: SourcePothole, Velocity: 1, Duration: 1, FeatureSpacing: -1}},
		{"bad correlation", Preset{Source: SourceSine, Velocity: 1, Duration: 1, Correlation: CorrelationSpec{RhoLR: 2, Method: MethodMixing}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewPreset(tc.p)
			assert.Error(t, err)
		})
	}
}

func TestPreset_YAMLRoundTrip(t *testing.T) {
	p, err := NewPreset(Preset{
		Name: "iso_c", Source: SourceISO8608, Velocity: 20, Duration: 10,
		IsoClass:    ptr(ClassC),
		Correlation: CorrelationSpec{RhoLR: 0.6, Method: MethodMixing, Seed: ptr(int64(3))},
	})
	require.NoError(t, err)
	out, err := yaml.Marshal(p)
	require.NoError(t, err)

	var back Preset
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, p, back)
}
