package engine

import (
	"fmt"
	"maps"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pneumo-sim/road-input/road"
)

// Preview is WheelExcitation sampled on a regular grid.
type Preview struct {
	Time   []float64
	Wheels map[road.Wheel][]float64
}

// ProfilePreview samples WheelExcitation on [0, duration) with step dt. A
// configured but unprimed RoadInput is primed for the preview duration first.
func (r *RoadInput) ProfilePreview(duration, dt float64) (*Preview, error) {
	if r.config == nil {
		return nil, ErrNotConfigured
	}
	if !(duration > 0) || math.IsInf(duration, 0) || !(dt > 0) || math.IsInf(dt, 0) {
		return nil, fmt.Errorf("preview needs finite positive duration and dt, got %v and %v", duration, dt)
	}
	if r.data == nil {
		if err := r.Prime(&duration); err != nil {
			return nil, err
		}
	}

	n := int(math.Ceil(duration/dt - 1e-9))
	p := &Preview{Time: make([]float64, n), Wheels: make(map[road.Wheel][]float64, len(road.Wheels))}
	for _, w := range road.Wheels {
		p.Wheels[w] = make([]float64, n)
	}
	for i := range p.Time {
		t := float64(i) * dt
		e, err := r.WheelExcitation(t)
		if err != nil {
			return nil, err
		}
		p.Time[i] = t
		for _, w := range road.Wheels {
			p.Wheels[w][i] = e.Wheel(w)
		}
	}
	return p, nil
}

// WheelStats summarises one primed wheel profile.
type WheelStats struct {
	Min  float64 `yaml:"min"`
	Max  float64 `yaml:"max"`
	Mean float64 `yaml:"mean"`
	RMS  float64 `yaml:"rms"`
	Std  float64 `yaml:"std"`
}

// Info is a snapshot of a RoadInput for diagnostics.
type Info struct {
	State       State                             `yaml:"state"`
	PresetName  string                            `yaml:"preset,omitempty"`
	Source      road.SourceKind                   `yaml:"source,omitempty"`
	Velocity    float64                           `yaml:"velocity,omitempty"`
	Duration    float64                           `yaml:"duration,omitempty"`
	Wheelbase   float64                           `yaml:"wheelbase,omitempty"`
	Track       float64                           `yaml:"track,omitempty"`
	AxleDelay   float64                           `yaml:"axle_delay,omitempty"`
	ResampleHz  float64                           `yaml:"resample_hz,omitempty"`
	IsoClass    road.Iso8608Class                 `yaml:"iso_class,omitempty"`
	Correlation *road.CorrelationSpec             `yaml:"correlation,omitempty"`
	CSVPath     string                            `yaml:"csv_path,omitempty"`
	PrimedSpan  float64                           `yaml:"primed_span,omitempty"`
	Samples     int                               `yaml:"samples,omitempty"`
	SampleRate  float64                           `yaml:"sample_rate,omitempty"`
	Wheels      map[road.Wheel]WheelStats         `yaml:"wheels,omitempty"`
	Positions   map[road.Wheel]road.WheelPosition `yaml:"positions,omitempty"`
	Warnings    []string                          `yaml:"warnings,omitempty"`
}

// Info reports the configuration and, once primed, per-wheel statistics.
func (r *RoadInput) Info() Info {
	info := Info{State: r.State()}
	if r.config == nil {
		return info
	}
	p := r.config.params
	info.PresetName = p.PresetName
	info.Source = p.Source
	info.Velocity = p.Velocity
	info.Duration = p.Duration
	info.Wheelbase = p.Wheelbase
	info.Track = p.Track
	info.AxleDelay = r.config.axleDelay
	info.ResampleHz = p.ResampleHz
	info.Positions = maps.Clone(road.WheelPositions)
	switch p.Source {
	case road.SourceISO8608:
		info.IsoClass = p.IsoClass
		info.Correlation = &p.Correlation
	case road.SourceCSV:
		info.CSVPath = p.CSVPath
		info.Correlation = &p.Correlation
	}
	if r.data == nil {
		return info
	}

	info.PrimedSpan = r.data.total
	info.Samples = len(r.data.time)
	if n := len(r.data.time); n > 1 {
		info.SampleRate = float64(n-1) / (r.data.time[n-1] - r.data.time[0])
	}
	info.Wheels = make(map[road.Wheel]WheelStats, len(road.Wheels))
	for _, w := range road.Wheels {
		info.Wheels[w] = wheelStats(r.data.wheels[w])
	}
	info.Warnings = append([]string(nil), r.data.warnings...)
	return info
}

func wheelStats(y []float64) WheelStats {
	if len(y) == 0 {
		return WheelStats{}
	}
	mean, std := stat.PopMeanStdDev(y, nil)
	return WheelStats{
		Min:  floats.Min(y),
		Max:  floats.Max(y),
		Mean: mean,
		RMS:  math.Sqrt(floats.Dot(y, y) / float64(len(y))),
		Std:  std,
	}
}
