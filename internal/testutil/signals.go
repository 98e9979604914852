package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Envelope returns the Saragoni-Hart style shape used for synthetic records:
// a quadratic build-up over the first 15% of the duration, a plateau to 45%
// and an exponential decay to about 2% at the end.
func Envelope(n int, dt float64) []float64 {
	out := make([]float64, n)
	if n < 2 {
		return out
	}

	dur := float64(n-1) * dt
	rise := 0.15 * dur
	hold := 0.45 * dur
	decay := math.Log(50) / (dur - hold)

	for i := range out {
		t := float64(i) * dt
		switch {
		case t < rise:
			out[i] = (t / rise) * (t / rise)
		case t < hold:
			out[i] = 1
		default:
			out[i] = math.Exp(-decay * (t - hold))
		}
	}
	return out
}

// SyntheticAccelerogram returns a deterministic zero-mean ground-motion-like
// record of n samples at dt with the given peak absolute value. White noise
// is shaped by a Kanai-Tajimi ground filter (2.5 Hz, 60% damping) and by
// [Envelope].
func SyntheticAccelerogram(seed int64, n int, dt, peak float64) []float64 {
	const (
		fg   = 2.5
		zeta = 0.6
	)

	noise := DeterministicNoise(seed, 1, n)
	env := Envelope(n, dt)

	w := 2 * math.Pi * fg
	sub := int(math.Ceil(w * dt / 0.05))
	h := dt / float64(sub)

	out := make([]float64, n)

	var x, v float64
	for i := range out {
		f := -noise[i] * env[i]
		for range sub {
			acc := f - 2*zeta*w*v - w*w*x
			v += acc * h
			x += v * h
		}
		out[i] = 2*zeta*w*v + w*w*x
	}

	// Remove the mean in proportion to the envelope so the record still
	// starts and ends near rest.
	var sum, envSum float64
	for i := range out {
		out[i] *= env[i]
		sum += out[i]
		envSum += env[i]
	}

	for i := range out {
		out[i] -= sum / envSum * env[i]
	}

	if p := Peak(out); p > 0 {
		for i := range out {
			out[i] *= peak / p
		}
	}
	return out
}

// Peak returns the largest absolute value in x.
func Peak(x []float64) float64 {
	p := 0.0
	for _, v := range x {
		if a := math.Abs(v); a > p {
			p = a
		}
	}
	return p
}
