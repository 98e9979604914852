package record

import (
	"fmt"
	"sort"

	"github.com/cwbudde/algo-specmatch/dsp/core"
	"github.com/cwbudde/algo-specmatch/dsp/interp"
)

// Target is a design response spectrum tabulated at ascending periods.
type Target struct {
	Periods []float64
	PSA     []float64

	table *interp.Table
}

type point struct{ period, psa float64 }

// NewTarget validates the pairs and sorts them by period.
func NewTarget(periods, psa []float64) (Target, error) {
	if len(periods) != len(psa) {
		return Target{}, fmt.Errorf("%w: %d periods, %d ordinates", ErrLengthMismatch, len(periods), len(psa))
	}

	if len(periods) == 0 {
		return Target{}, ErrEmpty
	}

	pts := make([]point, len(periods))
	for i := range periods {
		if !core.IsFinite(periods[i]) || !core.IsFinite(psa[i]) {
			return Target{}, fmt.Errorf("%w: pair %d = (%v, %v)", ErrNonFinite, i, periods[i], psa[i])
		}

		if periods[i] <= 0 {
			return Target{}, fmt.Errorf("%w: periods[%d] = %v", ErrInvalidPeriod, i, periods[i])
		}

		pts[i] = point{periods[i], psa[i]}
	}

	sort.Slice(pts, func(i, j int) bool { return pts[i].period < pts[j].period })

	t := Target{
		Periods: make([]float64, len(pts)),
		PSA:     make([]float64, len(pts)),
	}

	for i, p := range pts {
		if i > 0 && p.period == pts[i-1].period {
			return Target{}, fmt.Errorf("%w: %v s", ErrDuplicatePeriod, p.period)
		}
		t.Periods[i] = p.period
		t.PSA[i] = p.psa
	}

	table, err := interp.NewTable(t.Periods, t.PSA)
	if err != nil {
		return Target{}, err
	}
	t.table = table

	return t, nil
}

// Len returns the number of tabulated periods.
func (t Target) Len() int { return len(t.Periods) }

// Range returns the shortest and longest tabulated period.
func (t Target) Range() (lo, hi float64) {
	if len(t.Periods) == 0 {
		return 0, 0
	}

	return t.Periods[0], t.Periods[len(t.Periods)-1]
}

// Covers reports whether [t1, t2] lies within the tabulated periods.
func (t Target) Covers(t1, t2 float64) bool {
	lo, hi := t.Range()
	return len(t.Periods) > 0 && t1 >= lo && t2 <= hi
}

// At interpolates the target linearly in period. Periods outside the
// tabulated range yield NaN.
func (t Target) At(periods []float64) []float64 {
	if t.table == nil {
		return nil
	}

	return t.table.Eval(nil, periods)
}

// HasPositive reports whether any tabulated ordinate inside [t1, t2], or
// the interpolated ordinate at either bound, is positive.
func (t Target) HasPositive(t1, t2 float64) bool {
	for i, p := range t.Periods {
		if p >= t1 && p <= t2 && t.PSA[i] > 0 {
			return true
		}
	}

	for _, v := range t.At([]float64{t1, t2}) {
		if v > 0 {
			return true
		}
	}

	return false
}
