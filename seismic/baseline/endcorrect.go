package baseline

import (
	"fmt"
	"math"
)

const (
	defaultMaxIterations = 80
	defaultTolerance     = 0.01
)

type endConfig struct {
	maxIter int
	tol     float64
}

// Option configures EndCorrect.
type Option func(*endConfig)

// WithMaxIterations bounds the number of correction passes (default 80).
func WithMaxIterations(n int) Option {
	return func(cfg *endConfig) {
		if n > 0 {
			cfg.maxIter = n
		}
	}
}

// WithTolerance sets the convergence threshold for the final velocity and
// displacement relative to their peaks (default 0.01).
func WithTolerance(tol float64) Option {
	return func(cfg *endConfig) {
		if tol > 0 {
			cfg.tol = tol
		}
	}
}

// Report describes an EndCorrect run.
type Report struct {
	Iterations        int
	Converged         bool
	VelocityError     float64 // |v(end)| / max|v|
	DisplacementError float64 // |d(end)| / max|d|
}

// DefaultWindow returns the taper length used when none is configured:
// one second or a twentieth of the record, whichever is longer, capped at a
// quarter of the record.
func DefaultWindow(duration float64) float64 {
	return math.Min(math.Max(1, duration/20), duration/4)
}

// EndCorrect rescales samples in the leading window seconds to cancel the
// final displacement, and samples in the trailing window to cancel the final
// velocity. Positive and negative samples get separate factors so the
// correction does not shift the zero crossings. Passes repeat until both
// end values fall below the tolerance or the iteration limit is reached.
func EndCorrect(accel []float64, dt, window float64, opts ...Option) ([]float64, Report, error) {
	if err := check(accel, dt); err != nil {
		return nil, Report{}, err
	}

	n := len(accel)
	l := int(math.Ceil(window/dt)) - 1

	if !(window > 0) || l < 1 || 2*l >= n {
		return nil, Report{}, fmt.Errorf("%w: %v s at dt %v, %d samples", ErrInvalidWindow, window, dt, n)
	}

	cfg := endConfig{maxIter: defaultMaxIterations, tol: defaultTolerance}
	for _, o := range opts {
		o(&cfg)
	}

	out := append([]float64(nil), accel...)
	vel := make([]float64, n)
	disp := make([]float64, n)
	m := n - l

	var rep Report
	tEnd := dt * float64(n-1)

	for rep.Iterations < cfg.maxIter {
		rep.Iterations++

		// Final displacement expressed as a weighted sum of accelerations.
		var du, ap, an float64
		for i := 1; i < n; i++ {
			du += (tEnd - dt*float64(i)) * out[i] * dt
		}

		for i := 0; i <= l; i++ {
			v := float64(l-i) / float64(l) * (tEnd - dt*float64(i)) * out[i] * dt
			if v >= 0 {
				ap += v
			} else {
				an += v
			}
		}

		alfap, alfan := split(du, ap, an)
		for i := 1; i <= l; i++ {
			w := float64(l-i) / float64(l)
			out[i] *= 1 + w*pick(out[i], alfap, alfan)
		}

		var dv, vp, vn float64
		for i := 1; i < n; i++ {
			dv += out[i] * dt
		}

		for i := m - 1; i < n; i++ {
			v := float64(i+1-m) / float64(n-m) * out[i] * dt
			if v >= 0 {
				vp += v
			} else {
				vn += v
			}
		}

		valfap, valfan := split(dv, vp, vn)
		for i := m - 1; i < n; i++ {
			w := float64(i+1-m) / float64(n-m)
			out[i] *= 1 + w*pick(out[i], valfap, valfan)
		}

		IntegrateTo(vel, disp, out, dt, 0, 0)
		rep.VelocityError = endRatio(vel)
		rep.DisplacementError = endRatio(disp)

		if rep.VelocityError <= cfg.tol && rep.DisplacementError <= cfg.tol {
			rep.Converged = true
			break
		}
	}

	return out, rep, nil
}

// split shares the correction -total evenly between the positive and
// negative contributions. A missing side contributes nothing.
func split(total, pos, neg float64) (float64, float64) {
	var a, b float64
	if pos != 0 {
		a = -total / (2 * pos)
	}

	if neg != 0 {
		b = -total / (2 * neg)
	}

	return a, b
}

func pick(x, pos, neg float64) float64 {
	if x > 0 {
		return pos
	}

	return neg
}

func endRatio(x []float64) float64 {
	peak := 0.0
	for _, v := range x {
		peak = math.Max(peak, math.Abs(v))
	}

	if peak == 0 {
		return 0
	}

	return math.Abs(x[len(x)-1]) / peak
}
