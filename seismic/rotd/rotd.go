package rotd

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/cwbudde/algo-specmatch/internal/parallel"
	"github.com/cwbudde/algo-specmatch/seismic/response"
)

// Errors returned by RotDnn evaluation.
var (
	ErrInvalidPercentile = errors.New("rotd: percentile must be in [0, 100]")
	ErrLengthMismatch    = errors.New("rotd: components differ in length")
	ErrNoAngles          = errors.New("rotd: empty angle set")
)

// Calculator evaluates RotDnn spectra with a shared spectrum engine.
// It is safe for concurrent use.
type Calculator struct {
	engine *response.Engine
	angles Angles
}

// NewCalculator binds an engine to an angle set.
func NewCalculator(engine *response.Engine, angles Angles) (*Calculator, error) {
	if angles.Len() == 0 {
		return nil, ErrNoAngles
	}

	return &Calculator{engine: engine, angles: angles}, nil
}

// Angles returns the angle set.
func (c *Calculator) Angles() Angles { return c.angles }

// Engine returns the underlying spectrum engine.
func (c *Calculator) Engine() *response.Engine { return c.engine }

// Compute returns the percentile-th RotD spectrum of the pair (s1, s2).
// Percentile 100 is the maximum over angles, 0 the minimum.
func (c *Calculator) Compute(s1, s2 []float64, percentile float64) (response.Spectrum, error) {
	if !(percentile >= 0 && percentile <= 100) {
		return response.Spectrum{}, fmt.Errorf("%w: %v", ErrInvalidPercentile, percentile)
	}

	psa := make([]float64, c.engine.NumPeriods())
	if err := c.ComputeTo(psa, s1, s2, percentile); err != nil {
		return response.Spectrum{}, err
	}

	return response.Spectrum{
		Periods: c.engine.Periods(),
		PSA:     psa,
		Damping: c.engine.Damping(),
	}, nil
}

// ComputeTo writes the RotD ordinates into dst, which must have one element
// per engine period.
func (c *Calculator) ComputeTo(dst, s1, s2 []float64, percentile float64) error {
	if !(percentile >= 0 && percentile <= 100) {
		return fmt.Errorf("%w: %v", ErrInvalidPercentile, percentile)
	}

	p := percentile / 100

	return c.each(s1, s2, func(k int, vals []float64) {
		sort.Float64s(vals)
		dst[k] = quantile(vals, p)
	})
}

// quantile interpolates linearly between the order statistics of sorted at
// position p·(n-1), so p = 0.5 over an even count is the mean of the two
// middle values.
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}

	pos := p * float64(n-1)
	i := int(math.Floor(pos))
	if i >= n-1 {
		return sorted[n-1]
	}

	frac := pos - float64(i)

	return sorted[i] + frac*(sorted[i+1]-sorted[i])
}

// Distribution returns the PSA of every rotated record, indexed
// [period][angle].
func (c *Calculator) Distribution(s1, s2 []float64) ([][]float64, error) {
	out := make([][]float64, c.engine.NumPeriods())

	err := c.each(s1, s2, func(k int, vals []float64) {
		out[k] = append([]float64(nil), vals...)
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

type scratch struct {
	u1, u2, vals []float64
}

// each evaluates the per-angle PSA at every period and hands it to emit.
// vals is reused per worker and must not be retained.
func (c *Calculator) each(s1, s2 []float64, emit func(k int, vals []float64)) error {
	if len(s1) != len(s2) {
		return fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(s1), len(s2))
	}

	workers := parallel.Workers(c.engine.Workers())
	buf := make([]scratch, workers)

	for w := range buf {
		buf[w] = scratch{
			u1:   make([]float64, len(s1)),
			u2:   make([]float64, len(s2)),
			vals: make([]float64, c.angles.Len()),
		}
	}

	parallel.For(c.engine.NumPeriods(), workers, func(w, k int) {
		sc := &buf[w]
		u1 := c.engine.Displacement(k, s1, sc.u1)
		u2 := c.engine.Displacement(k, s2, sc.u2)
		w2 := c.engine.Omega2(k)

		for j := range sc.vals {
			sc.vals[j] = w2 * rotatedPeak(u1, u2, c.angles.cos[j], c.angles.sin[j])
		}

		emit(k, sc.vals)
	})

	return nil
}

func rotatedPeak(u1, u2 []float64, cos, sin float64) float64 {
	var peak float64
	for i := range u1 {
		if v := math.Abs(cos*u1[i] + sin*u2[i]); v > peak {
			peak = v
		}
	}

	return peak
}

// Compute is a one-shot RotDnn evaluation over DefaultAngles.
func Compute(s1, s2 []float64, dt float64, periods []float64, damping, percentile float64) (response.Spectrum, error) {
	engine, err := response.NewEngine(dt, periods, damping)
	if err != nil {
		return response.Spectrum{}, err
	}

	calc, err := NewCalculator(engine, DefaultAngles())
	if err != nil {
		return response.Spectrum{}, err
	}

	return calc.Compute(s1, s2, percentile)
}
