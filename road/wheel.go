package road

import (
	"fmt"
	"strings"
)

// Wheel identifies one of the four road-contact channels.
type Wheel string

const (
	LF Wheel = "LF" // left front
	RF Wheel = "RF" // right front
	LR Wheel = "LR" // left rear
	RR Wheel = "RR" // right rear
)

// Wheels lists the channels in CSV column order.
var Wheels = []Wheel{LF, RF, LR, RR}

// IsRear reports whether the wheel sits on the rear axle.
func (w Wheel) IsRear() bool {
	return w == LR || w == RR
}

// IsLeft reports whether the wheel runs on the left track.
func (w Wheel) IsLeft() bool {
	return w == LF || w == LR
}

// ParseWheel converts a case-insensitive wheel code.
func ParseWheel(s string) (Wheel, error) {
	switch w := Wheel(strings.ToUpper(strings.TrimSpace(s))); w {
	case LF, RF, LR, RR:
		return w, nil
	}
	return "", fmt.Errorf("unknown wheel %q; valid: LF, RF, LR, RR", s)
}

// WheelPosition is a wheel's offset from the vehicle reference point in metres.
// Positive lateral is left, positive longitudinal is forward.
type WheelPosition struct {
	Lateral      float64 `yaml:"lateral"`
	Longitudinal float64 `yaml:"longitudinal"`
}

// WheelPositions documents the nominal wheel layout for metadata output.
// It is not used for dynamics.
var WheelPositions = map[Wheel]WheelPosition{
	LF: {Lateral: 0.8, Longitudinal: 1.35},
	RF: {Lateral: -0.8, Longitudinal: 1.35},
	LR: {Lateral: 0.8, Longitudinal: -1.35},
	RR: {Lateral: -0.8, Longitudinal: -1.35},
}
