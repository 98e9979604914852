package response

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-specmatch/internal/parallel"
)

// Errors returned by spectrum construction.
var (
	ErrInvalidTimeStep = errors.New("response: time step must be > 0")
	ErrInvalidPeriod   = errors.New("response: periods must be > 0")
	ErrInvalidDamping  = errors.New("response: damping ratio must be in [0, 1)")
	ErrEmptyPeriods    = errors.New("response: no periods")
)

// Spectrum is a response spectrum aligned to a caller-supplied period vector.
type Spectrum struct {
	Periods []float64 // oscillator periods in seconds
	PSA     []float64 // pseudo-spectral acceleration, same unit as the input
	Damping float64   // damping ratio used
}

// Max returns the largest ordinate and its index, or (0, -1) when empty.
func (s Spectrum) Max() (float64, int) {
	idx := -1
	best := 0.0

	for i, v := range s.PSA {
		if idx < 0 || v > best {
			best = v
			idx = i
		}
	}

	return best, idx
}

// oscillator holds the recurrence constants of one SDOF oscillator.
//
//	u[i+1] = a*u[i] + b*v[i] + c*p[i] + d*p[i+1]
//	v[i+1] = ap*u[i] + bp*v[i] + cp*p[i] + dp*p[i+1]
//
// with p = -ground acceleration (unit mass).
type oscillator struct {
	omega2         float64
	a, b, c, d     float64
	ap, bp, cp, dp float64
}

func newOscillator(period, damping, dt float64) oscillator {
	w := 2 * math.Pi / period
	k := w * w
	sq := math.Sqrt(1 - damping*damping)
	wd := w * sq

	e := math.Exp(-damping * w * dt)
	s := math.Sin(wd * dt)
	c := math.Cos(wd * dt)
	r := damping / sq
	zwdt := 2 * damping / (w * dt)

	return oscillator{
		omega2: k,
		a:      e * (r*s + c),
		b:      e * s / wd,
		c:      (zwdt + e*(((1-2*damping*damping)/(wd*dt)-r)*s-(1+zwdt)*c)) / k,
		d:      (1 - zwdt + e*((2*damping*damping-1)/(wd*dt)*s+zwdt*c)) / k,
		ap:     -e * w / sq * s,
		bp:     e * (c - r*s),
		cp:     (-1/dt + e*((w/sq+r/dt)*s+c/dt)) / k,
		dp:     (1 - e*(r*s+c)) / (k * dt),
	}
}

// displacement integrates the relative displacement history into dst and
// returns the peak absolute displacement.
func (o *oscillator) displacement(dst, accel []float64) float64 {
	var u, v, peak float64
	if len(dst) > 0 {
		dst[0] = 0
	}

	for i := 1; i < len(accel); i++ {
		p0 := -accel[i-1]
		p1 := -accel[i]
		un := o.a*u + o.b*v + o.c*p0 + o.d*p1
		v = o.ap*u + o.bp*v + o.cp*p0 + o.dp*p1
		u = un

		if dst != nil {
			dst[i] = u
		}

		if au := math.Abs(u); au > peak {
			peak = au
		}
	}

	return peak
}

// Engine evaluates response spectra for a fixed time step, damping ratio and
// period vector. It is safe for concurrent use.
type Engine struct {
	dt      float64
	damping float64
	periods []float64
	osc     []oscillator
	workers int
}

type engineConfig struct {
	workers int
}

// Option configures an Engine.
type Option func(*engineConfig)

// WithWorkers bounds the number of goroutines used to evaluate periods.
// Values <= 0 select GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(cfg *engineConfig) {
		cfg.workers = n
	}
}

// NewEngine precomputes the oscillator constants for every period.
func NewEngine(dt float64, periods []float64, damping float64, opts ...Option) (*Engine, error) {
	if err := validate(dt, periods, damping); err != nil {
		return nil, err
	}

	var cfg engineConfig
	for _, o := range opts {
		o(&cfg)
	}

	e := &Engine{
		dt:      dt,
		damping: damping,
		periods: append([]float64(nil), periods...),
		osc:     make([]oscillator, len(periods)),
		workers: cfg.workers,
	}
	for i, T := range periods {
		e.osc[i] = newOscillator(T, damping, dt)
	}

	return e, nil
}

func validate(dt float64, periods []float64, damping float64) error {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidTimeStep, dt)
	}

	if len(periods) == 0 {
		return ErrEmptyPeriods
	}

	for i, T := range periods {
		if !(T > 0) || math.IsInf(T, 0) {
			return fmt.Errorf("%w: periods[%d] = %v", ErrInvalidPeriod, i, T)
		}
	}

	if !(damping >= 0 && damping < 1) {
		return fmt.Errorf("%w: %v", ErrInvalidDamping, damping)
	}

	return nil
}

// DT returns the time step the engine was built for.
func (e *Engine) DT() float64 { return e.dt }

// Damping returns the damping ratio.
func (e *Engine) Damping() float64 { return e.damping }

// Periods returns a copy of the period vector.
func (e *Engine) Periods() []float64 { return append([]float64(nil), e.periods...) }

// NumPeriods returns the number of oscillators.
func (e *Engine) NumPeriods() int { return len(e.periods) }

// Workers returns the configured worker bound (0 = GOMAXPROCS).
func (e *Engine) Workers() int { return e.workers }

// Omega2 returns ω² of oscillator k, the factor between peak displacement and PSA.
func (e *Engine) Omega2(k int) float64 { return e.osc[k].omega2 }

// Compute returns the PSA spectrum of accel at the engine periods.
func (e *Engine) Compute(accel []float64) Spectrum {
	psa := make([]float64, len(e.osc))
	e.ComputeTo(psa, accel)

	return Spectrum{
		Periods: e.Periods(),
		PSA:     psa,
		Damping: e.damping,
	}
}

// ComputeTo writes the PSA ordinates of accel into dst, which must have
// NumPeriods elements.
func (e *Engine) ComputeTo(dst, accel []float64) {
	parallel.For(len(e.osc), e.workers, func(_, k int) {
		dst[k] = e.osc[k].omega2 * e.osc[k].displacement(nil, accel)
	})
}

// Displacement writes the relative displacement history of oscillator k
// under accel into dst (reallocated if too short) and returns it.
func (e *Engine) Displacement(k int, accel, dst []float64) []float64 {
	if cap(dst) < len(accel) {
		dst = make([]float64, len(accel))
	}
	dst = dst[:len(accel)]
	e.osc[k].displacement(dst, accel)

	return dst
}

// Compute returns the PSA spectrum of accel sampled at dt for the given
// periods and damping ratio.
func Compute(accel []float64, dt float64, periods []float64, damping float64) (Spectrum, error) {
	e, err := NewEngine(dt, periods, damping)
	if err != nil {
		return Spectrum{}, err
	}

	return e.Compute(accel), nil
}

// LogPeriods returns n periods spaced logarithmically between lo and hi inclusive.
func LogPeriods(lo, hi float64, n int) []float64 {
	if n <= 0 || lo <= 0 || hi <= 0 {
		return nil
	}

	if n == 1 {
		return []float64{lo}
	}

	out := make([]float64, n)
	step := math.Log(hi/lo) / float64(n-1)
	for i := range out {
		out[i] = lo * math.Exp(step*float64(i))
	}
	out[n-1] = hi

	return out
}
