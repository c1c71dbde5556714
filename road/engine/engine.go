// Package engine provides RoadInput, the stateful per-wheel road excitation source
// queried by the downstream simulation at every time step.
//
// Lifecycle: New → Configure → Prime → WheelExcitation. Configure resolves the
// effective parameters and axle delay; Prime generates (or loads) the profiles and
// builds one O(1) interpolator per wheel. A RoadInput is not safe for concurrent use.
package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/pneumo-sim/road-input/road"
	"github.com/pneumo-sim/road-input/road/iso8608"
	"github.com/pneumo-sim/road-input/road/profile"
	"github.com/pneumo-sim/road-input/road/scenario"
	"github.com/pneumo-sim/road-input/road/waveform"
)

// Lifecycle errors.
var (
	ErrNotConfigured  = errors.New("road input is not configured")
	ErrNotPrimed      = errors.New("road input is not primed")
	ErrMissingCSVPath = errors.New("csv source requires csv_path")
)

// PrimeBufferFactor scales the axle delay added to the primed duration so that
// rear-wheel lookups near the end stay inside the generated data.
const PrimeBufferFactor = 1.5

// State is the lifecycle state of a RoadInput.
type State string

const (
	StateUnconfigured State = "unconfigured"
	StateConfigured   State = "configured"
	StatePrimed       State = "primed"
)

// configuration is the state held after Configure.
type configuration struct {
	params    road.EffectiveParams
	source    road.Source
	axleDelay float64 // s
}

// primedData is the state held after Prime.
type primedData struct {
	requested float64 // s, duration asked for
	total     float64 // s, requested plus buffer
	time      []float64
	wheels    map[road.Wheel][]float64
	lookup    map[road.Wheel]*uniform
	warnings  []string
}

// RoadInput produces per-wheel road displacement at arbitrary query times.
type RoadInput struct {
	config *configuration
	data   *primedData
}

// New returns an unconfigured RoadInput.
func New() *RoadInput {
	return &RoadInput{}
}

// State reports the lifecycle state.
func (r *RoadInput) State() State {
	switch {
	case r.config == nil:
		return StateUnconfigured
	case r.data == nil:
		return StateConfigured
	}
	return StatePrimed
}

// Configure resolves cfg into effective parameters. When system provides a
// geometry with a positive wheelbase it takes precedence over cfg. A nil cfg uses
// the built-in defaults. Configuring again discards any primed profile.
func (r *RoadInput) Configure(cfg *road.RoadConfig, system road.GeometryProvider) error {
	resolved := road.RoadConfig{}
	if cfg != nil {
		resolved = *cfg
	}
	if resolved.Preset == nil && resolved.PresetName != "" {
		p, err := scenario.ByName(resolved.PresetName)
		if err != nil {
			return fmt.Errorf("configuring road input: %w", err)
		}
		resolved.Preset = &p
	}

	params := resolved.EffectiveParams()
	if system != nil {
		if g, ok := system.Geometry(); ok {
			if g.Wheelbase > 0 {
				params.Wheelbase = g.Wheelbase
			}
			if g.Track > 0 {
				params.Track = g.Track
			}
			logrus.Debugf("using system geometry: wheelbase %.3f m, track %.3f m", params.Wheelbase, params.Track)
		}
	}
	if err := params.Validate(); err != nil {
		return fmt.Errorf("configuring road input: %w", err)
	}
	src, err := params.Variant()
	if err != nil {
		return fmt.Errorf("configuring road input: %w", err)
	}

	r.config = &configuration{
		params:    params,
		source:    src,
		axleDelay: params.Wheelbase / params.Velocity,
	}
	r.data = nil
	logrus.Debugf("road input configured: source %s, velocity %.3f m/s, axle delay %.4f s",
		src.Kind(), params.Velocity, r.config.axleDelay)
	return nil
}

// Params returns the effective parameters resolved by Configure.
func (r *RoadInput) Params() (road.EffectiveParams, error) {
	if r.config == nil {
		return road.EffectiveParams{}, ErrNotConfigured
	}
	return r.config.params, nil
}

// AxleDelay returns wheelbase/velocity in seconds.
func (r *RoadInput) AxleDelay() (float64, error) {
	if r.config == nil {
		return 0, ErrNotConfigured
	}
	return r.config.axleDelay, nil
}

// Prime generates the wheel profiles. A nil duration uses the configured one.
// The generated span is extended by PrimeBufferFactor axle delays.
func (r *RoadInput) Prime(duration *float64) error {
	if r.config == nil {
		return ErrNotConfigured
	}
	requested := r.config.params.Duration
	if duration != nil {
		requested = *duration
	}
	if math.IsNaN(requested) || math.IsInf(requested, 0) || requested <= 0 {
		return fmt.Errorf("prime duration must be a finite positive number, got %v", requested)
	}
	total := requested + PrimeBufferFactor*r.config.axleDelay

	t, wheels, warnings, err := r.generate(total)
	if err != nil {
		return fmt.Errorf("priming %s road: %w", r.config.source.Kind(), err)
	}
	lookup := make(map[road.Wheel]*uniform, len(road.Wheels))
	for _, w := range road.Wheels {
		if lookup[w], err = newUniform(t, wheels[w], 0); err != nil {
			return fmt.Errorf("priming %s road: wheel %s: %w", r.config.source.Kind(), w, err)
		}
	}
	// Half a sample of slack: the grid end carries rounding from t0 + dt*(n-1).
	if u := lookup[road.LF]; u.end() < total-u.dt/2 {
		msg := fmt.Sprintf("profile ends at %.3f s, before the primed span of %.3f s; later queries return 0", u.end(), total)
		logrus.Warn(msg)
		warnings = append(warnings, msg)
	}

	r.data = &primedData{
		requested: requested,
		total:     total,
		time:      t,
		wheels:    wheels,
		lookup:    lookup,
		warnings:  warnings,
	}
	logrus.Debugf("road input primed: %d samples over %.3f s", len(t), total)
	return nil
}

// generate dispatches on the configured source variant.
func (r *RoadInput) generate(total float64) ([]float64, map[road.Wheel][]float64, []string, error) {
	p := r.config.params
	switch src := r.config.source.(type) {
	case road.Sine, road.Sweep, road.Step, road.Pothole, road.SpeedBump:
		grid := waveform.Grid{Duration: total, Velocity: p.Velocity, ResampleHz: p.ResampleHz}
		t, y, err := waveform.FromSource(grid, src)
		if err != nil {
			return nil, nil, nil, err
		}
		wheels := make(map[road.Wheel][]float64, len(road.Wheels))
		for _, w := range road.Wheels {
			wheels[w] = append([]float64(nil), y...)
		}
		return t, wheels, nil, nil

	case road.Iso8608:
		tracks, err := iso8608.Generate(nil, iso8608.Params{
			Class:       src.Class,
			Velocity:    p.Velocity,
			Duration:    total,
			ResampleHz:  p.ResampleHz,
			Correlation: src.Correlation,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		return tracks.Time, map[road.Wheel][]float64{
			road.LF: tracks.Left,
			road.LR: append([]float64(nil), tracks.Left...),
			road.RF: tracks.Right,
			road.RR: append([]float64(nil), tracks.Right...),
		}, nil, nil

	case road.CSV:
		if src.Path == "" {
			return nil, nil, nil, ErrMissingCSVPath
		}
		// The rear delay is applied at query time, so the file is loaded undelayed.
		prof, err := profile.Load(src.Path, profile.Options{
			Format:      src.Format,
			ResampleHz:  p.ResampleHz,
			Velocity:    p.Velocity,
			Correlation: src.Correlation,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		return prof.Time, prof.Wheels, prof.Warnings, nil
	}
	return nil, nil, nil, fmt.Errorf("unsupported source %T", r.config.source)
}

// Excitation is the vertical road displacement (m) under each wheel.
type Excitation struct {
	LF float64 `yaml:"LF"`
	RF float64 `yaml:"RF"`
	LR float64 `yaml:"LR"`
	RR float64 `yaml:"RR"`
}

// Wheel returns the value for w; unknown wheels return 0.
func (e Excitation) Wheel(w road.Wheel) float64 {
	switch w {
	case road.LF:
		return e.LF
	case road.RF:
		return e.RF
	case road.LR:
		return e.LR
	case road.RR:
		return e.RR
	}
	return 0
}

func (e *Excitation) set(w road.Wheel, v float64) {
	switch w {
	case road.LF:
		e.LF = v
	case road.RF:
		e.RF = v
	case road.LR:
		e.LR = v
	case road.RR:
		e.RR = v
	}
}

// Finite reports whether every wheel value is a finite number.
func (e Excitation) Finite() bool {
	for _, v := range []float64{e.LF, e.RF, e.LR, e.RR} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Map returns the excitation keyed by wheel.
func (e Excitation) Map() map[road.Wheel]float64 {
	return map[road.Wheel]float64{road.LF: e.LF, road.RF: e.RF, road.LR: e.LR, road.RR: e.RR}
}

// WheelExcitation returns the displacement under each wheel at time t. Front
// wheels are sampled at t, rear wheels at t plus the axle delay. Outside the
// primed span every wheel reads 0. A non-finite result is replaced by zeros.
func (r *RoadInput) WheelExcitation(t float64) (Excitation, error) {
	if r.config == nil {
		return Excitation{}, ErrNotConfigured
	}
	if r.data == nil {
		return Excitation{}, ErrNotPrimed
	}
	var e Excitation
	for _, w := range road.Wheels {
		at := t
		if w.IsRear() {
			at += r.config.axleDelay
		}
		e.set(w, r.data.lookup[w].at(at))
	}
	if !e.Finite() {
		logrus.Warnf("non-finite road excitation at t=%.6f s (%+v); returning zeros", t, e)
		return Excitation{}, nil
	}
	return e, nil
}

// Profiles returns copies of the primed time base and wheel profiles.
func (r *RoadInput) Profiles() ([]float64, map[road.Wheel][]float64, error) {
	if r.config == nil {
		return nil, nil, ErrNotConfigured
	}
	if r.data == nil {
		return nil, nil, ErrNotPrimed
	}
	wheels := make(map[road.Wheel][]float64, len(r.data.wheels))
	for w, y := range r.data.wheels {
		wheels[w] = append([]float64(nil), y...)
	}
	return append([]float64(nil), r.data.time...), wheels, nil
}

// Warnings returns the data issues reported while priming.
func (r *RoadInput) Warnings() []string {
	if r.data == nil {
		return nil
	}
	return append([]string(nil), r.data.warnings...)
}
