package engine

import (
	"fmt"
	"math"
)

// endpointSlack absorbs rounding when a query lands on the last sample.
const endpointSlack = 1e-9

// uniform is a linear interpolator over an evenly spaced grid. Lookups index the
// grid directly, so each query is O(1). Queries outside the grid return fill.
type uniform struct {
	t0   float64
	dt   float64
	y    []float64
	fill float64
}

func newUniform(t, y []float64, fill float64) (*uniform, error) {
	n := len(t)
	if n < 2 || len(y) != n {
		return nil, fmt.Errorf("interpolator needs at least 2 samples of equal length, got %d time and %d values", n, len(y))
	}
	span := t[n-1] - t[0]
	if !(span > 0) {
		return nil, fmt.Errorf("interpolator time grid must increase, spans %v s", span)
	}
	return &uniform{t0: t[0], dt: span / float64(n-1), y: y, fill: fill}, nil
}

func (u *uniform) at(x float64) float64 {
	last := len(u.y) - 1
	pos := (x - u.t0) / u.dt
	switch {
	case math.IsNaN(pos):
		return math.NaN()
	case pos < -endpointSlack || pos > float64(last)+endpointSlack:
		return u.fill
	case pos <= 0:
		return u.y[0]
	case pos >= float64(last):
		return u.y[last]
	}
	i := int(pos)
	frac := pos - float64(i)
	return u.y[i] + frac*(u.y[i+1]-u.y[i])
}

// end returns the last sample instant.
func (u *uniform) end() float64 {
	return u.t0 + u.dt*float64(len(u.y)-1)
}
