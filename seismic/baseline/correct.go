package baseline

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Errors returned by the correctors.
var (
	ErrInvalidTimeStep = errors.New("baseline: time step must be > 0")
	ErrTooShort        = errors.New("baseline: record too short")
	ErrInvalidOrder    = errors.New("baseline: polynomial order too high for record")
	ErrInvalidWindow   = errors.New("baseline: taper window must span at least two samples and less than half the record")
)

// MaxOrder bounds the detrending polynomial order.
const MaxOrder = 10

func check(accel []float64, dt float64) error {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidTimeStep, dt)
	}

	if len(accel) < 2 {
		return fmt.Errorf("%w: %d samples", ErrTooShort, len(accel))
	}

	return nil
}

// Correct removes a polynomial displacement trend of the given order.
//
// For order < 0 it returns an exact copy of accel. Otherwise it fits
//
//	p(t) = Σ c_j t^j,  j = 2 .. order+2
//
// to the doubly integrated record in the least-squares sense and returns
// accel - p''(t). The fit omits the constant and linear terms so that the
// corrected record still starts from rest.
func Correct(accel []float64, dt float64, order int) ([]float64, error) {
	out := append([]float64(nil), accel...)
	if order < 0 {
		return out, nil
	}

	if err := check(accel, dt); err != nil {
		return nil, err
	}

	m := order + 1
	if order > MaxOrder || m >= len(accel) {
		return nil, fmt.Errorf("%w: order %d, %d samples", ErrInvalidOrder, order, len(accel))
	}

	_, disp := Integrate(accel, dt, 0, 0)

	// Fit on normalized time to keep the design matrix conditioned.
	n := len(accel)
	dur := dt * float64(n-1)
	a := mat.NewDense(n, m, nil)

	for i := range n {
		tau := float64(i) / float64(n-1)
		pw := tau * tau
		for j := range m {
			a.Set(i, j, pw)
			pw *= tau
		}
	}

	var qr mat.QR
	qr.Factorize(a)

	var c mat.VecDense
	if err := qr.SolveVecTo(&c, false, mat.NewVecDense(n, disp)); err != nil {
		return nil, fmt.Errorf("baseline: least-squares fit: %w", err)
	}

	scale := 1 / (dur * dur)
	for i := range n {
		tau := float64(i) / float64(n-1)
		pw := 1.0
		var ddp float64
		for j := range m {
			p := float64(j + 2)
			ddp += c.AtVec(j) * p * (p - 1) * pw
			pw *= tau
		}
		out[i] -= ddp * scale
	}

	return out, nil
}
