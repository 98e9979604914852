package record

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-specmatch/dsp/core"
)

// Errors describing invalid records. Each is wrapped with the offending
// field or value.
var (
	ErrInvalidTimeStep = errors.New("record: time step must be > 0")
	ErrTooShort        = errors.New("record: at least two samples required")
	ErrNonFinite       = errors.New("record: non-finite value")
	ErrLengthMismatch  = errors.New("record: periods and ordinates differ in length")
	ErrInvalidPeriod   = errors.New("record: periods must be > 0")
	ErrDuplicatePeriod = errors.New("record: duplicate period")
	ErrEmpty           = errors.New("record: empty spectrum")
)

// Accelerogram is a uniformly sampled ground-acceleration history.
type Accelerogram struct {
	Name    string
	DT      float64
	samples []float64
}

// NewAccelerogram validates and copies samples.
func NewAccelerogram(name string, dt float64, samples []float64) (Accelerogram, error) {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return Accelerogram{}, fmt.Errorf("%w: dt = %v", ErrInvalidTimeStep, dt)
	}

	if len(samples) < 2 {
		return Accelerogram{}, fmt.Errorf("%w: got %d", ErrTooShort, len(samples))
	}

	if i := core.FirstNonFinite(samples); i >= 0 {
		return Accelerogram{}, fmt.Errorf("%w: samples[%d] = %v", ErrNonFinite, i, samples[i])
	}

	return Accelerogram{
		Name:    name,
		DT:      dt,
		samples: append([]float64(nil), samples...),
	}, nil
}

// Samples returns a copy of the acceleration values.
func (a Accelerogram) Samples() []float64 { return append([]float64(nil), a.samples...) }

// Len returns the number of samples.
func (a Accelerogram) Len() int { return len(a.samples) }

// Duration returns (n-1)·dt.
func (a Accelerogram) Duration() float64 {
	if len(a.samples) == 0 {
		return 0
	}

	return float64(len(a.samples)-1) * a.DT
}

// Time returns the sample instants starting at zero.
func (a Accelerogram) Time() []float64 {
	t := make([]float64, len(a.samples))
	for i := range t {
		t[i] = float64(i) * a.DT
	}

	return t
}

// PGA returns the peak absolute acceleration.
func (a Accelerogram) PGA() float64 { return core.MaxAbs(a.samples) }
