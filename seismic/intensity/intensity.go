package intensity

import (
	"math"

	"github.com/cwbudde/algo-specmatch/seismic/baseline"
)

// StandardGravity in m/s².
const StandardGravity = 9.80665

// Measures holds the intensity measures of one record.
type Measures struct {
	Length   int
	Duration float64 // (n-1)·dt

	PGA     float64 // peak absolute acceleration
	PGATime float64 // time of PGA
	PGV     float64 // peak absolute velocity
	PGD     float64 // peak absolute displacement
	RMS     float64 // root-mean-square acceleration

	AriasIntensity float64 // π/(2g)·∫a² dt in m/s
	CAV            float64 // ∫|a| dt
	D575           float64 // 5–75 % significant duration
	D595           float64 // 5–95 % significant duration

	ZeroCrossings int
}

// Calculate computes all measures in one pass over the acceleration plus one
// integration for the velocity and displacement peaks.
func Calculate(accel []float64, dt float64) Measures {
	n := len(accel)
	if n == 0 || !(dt > 0) {
		return Measures{}
	}

	var (
		sumSq, sumAbs float64
		pga           float64
		pgaPos        int
		zc            int
		husid         = make([]float64, n)
	)

	for i, x := range accel {
		sumSq += x * x
		sumAbs += math.Abs(x)
		husid[i] = sumSq

		if a := math.Abs(x); a > pga {
			pga = a
			pgaPos = i
		}

		if i > 0 && accel[i-1]*x < 0 {
			zc++
		}
	}

	vel, disp := baseline.Integrate(accel, dt, 0, 0)

	m := Measures{
		Length:         n,
		Duration:       float64(n-1) * dt,
		PGA:            pga,
		PGATime:        float64(pgaPos) * dt,
		PGV:            peak(vel),
		PGD:            peak(disp),
		RMS:            math.Sqrt(sumSq / float64(n)),
		AriasIntensity: math.Pi / 2 * StandardGravity * sumSq * dt,
		CAV:            sumAbs * dt,
		ZeroCrossings:  zc,
	}

	if sumSq > 0 {
		t5 := crossing(husid, 0.05*sumSq, dt)
		m.D575 = crossing(husid, 0.75*sumSq, dt) - t5
		m.D595 = crossing(husid, 0.95*sumSq, dt) - t5
	}

	return m
}

// crossing returns the time at which the non-decreasing cumulative curve c
// first reaches level, interpolating linearly between samples.
func crossing(c []float64, level, dt float64) float64 {
	for i, v := range c {
		if v < level {
			continue
		}

		if i == 0 || v == c[i-1] {
			return float64(i) * dt
		}

		frac := (level - c[i-1]) / (v - c[i-1])

		return (float64(i-1) + frac) * dt
	}

	return float64(len(c)-1) * dt
}

func peak(x []float64) float64 {
	p := 0.0
	for _, v := range x {
		if a := math.Abs(v); a > p {
			p = a
		}
	}

	return p
}

// Ratio returns after/before for every measure, useful to show how much
// matching changed a record. Zero reference values yield 0.
func Ratio(before, after Measures) map[string]float64 {
	r := func(a, b float64) float64 {
		if b == 0 {
			return 0
		}
		return a / b
	}

	return map[string]float64{
		"PGA":   r(after.PGA, before.PGA),
		"PGV":   r(after.PGV, before.PGV),
		"PGD":   r(after.PGD, before.PGD),
		"Arias": r(after.AriasIntensity, before.AriasIntensity),
		"CAV":   r(after.CAV, before.CAV),
		"D5-95": r(after.D595, before.D595),
	}
}
