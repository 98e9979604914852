package interp

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Errors returned by NewTable.
var (
	ErrLengthMismatch = errors.New("interp: x and y differ in length")
	ErrTooFew         = errors.New("interp: at least one point required")
	ErrNotIncreasing  = errors.New("interp: x must be strictly increasing")
)

// Linear2 interpolates between x0 and x1 at frac in [0, 1].
func Linear2(frac, x0, x1 float64) float64 {
	return x0 + frac*(x1-x0)
}

// Table is a tabulated function with strictly increasing abscissae.
type Table struct {
	x, y []float64
}

// NewTable copies x and y into a Table.
func NewTable(x, y []float64) (*Table, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(x), len(y))
	}

	if len(x) == 0 {
		return nil, ErrTooFew
	}

	for i := 1; i < len(x); i++ {
		if !(x[i] > x[i-1]) {
			return nil, fmt.Errorf("%w: x[%d] = %v after %v", ErrNotIncreasing, i, x[i], x[i-1])
		}
	}

	return &Table{
		x: append([]float64(nil), x...),
		y: append([]float64(nil), y...),
	}, nil
}

// Domain returns the first and last abscissa.
func (t *Table) Domain() (lo, hi float64) {
	return t.x[0], t.x[len(t.x)-1]
}

// Contains reports whether x lies inside the tabulated range.
func (t *Table) Contains(x float64) bool {
	lo, hi := t.Domain()
	return x >= lo && x <= hi
}

// At returns the linear interpolant at x, or NaN outside the domain.
func (t *Table) At(x float64) float64 {
	if !t.Contains(x) {
		return math.NaN()
	}

	i := sort.SearchFloat64s(t.x, x)
	if t.x[i] == x {
		return t.y[i]
	}

	x0, x1 := t.x[i-1], t.x[i]

	return Linear2((x-x0)/(x1-x0), t.y[i-1], t.y[i])
}

// Eval writes At(xs[i]) into dst, reallocating when dst is too short.
func (t *Table) Eval(dst, xs []float64) []float64 {
	if cap(dst) < len(xs) {
		dst = make([]float64, len(xs))
	}
	dst = dst[:len(xs)]

	for i, x := range xs {
		dst[i] = t.At(x)
	}

	return dst
}
