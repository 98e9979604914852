package rotd

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidStep is returned for angle steps outside (0, 180].
var ErrInvalidStep = errors.New("rotd: angle step must be in (0, 180] degrees")

// Angles is an ascending set of rotation angles in [0, 180) degrees. 180°
// duplicates 0° up to sign, which does not change a peak absolute response.
type Angles struct {
	deg []float64
	cos []float64
	sin []float64
}

// DefaultAngles returns 0..179 degrees at 1° resolution.
func DefaultAngles() Angles {
	a, _ := NewAngles(1)
	return a
}

// NewAngles returns 0, step, 2·step, ... below 180 degrees.
func NewAngles(step float64) (Angles, error) {
	if !(step > 0 && step <= 180) {
		return Angles{}, fmt.Errorf("%w: %v", ErrInvalidStep, step)
	}

	n := int(math.Ceil(180/step - 1e-9))
	a := Angles{
		deg: make([]float64, n),
		cos: make([]float64, n),
		sin: make([]float64, n),
	}

	for i := range n {
		d := float64(i) * step
		a.deg[i] = d
		a.sin[i], a.cos[i] = math.Sincos(d * math.Pi / 180)
	}

	return a, nil
}

// Len returns the number of angles.
func (a Angles) Len() int { return len(a.deg) }

// Degrees returns a copy of the angles in degrees.
func (a Angles) Degrees() []float64 { return append([]float64(nil), a.deg...) }
