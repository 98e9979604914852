package wavelet

import (
	"errors"
	"fmt"
	"math"
	"sort"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// Errors returned by bank construction and decomposition.
var (
	ErrTooShort         = errors.New("wavelet: signal needs at least 2 samples")
	ErrInvalidTimeStep  = errors.New("wavelet: time step must be > 0")
	ErrLengthMismatch   = errors.New("wavelet: signal length does not match bank")
	ErrInvalidFrequency = errors.New("wavelet: invalid frequency range")
)

const (
	defaultScales = 100

	// maxFFTSize bounds the zero padding used to resolve the lowest bands.
	maxFFTSize = 1 << 20
)

// Band describes one scale of the bank.
type Band struct {
	CenterFreq float64 // center frequency in Hz
	Period     float64 // characteristic period, 1/CenterFreq
	LowEdge    float64 // window starts rising here (0 for the lowest band)
	HighEdge   float64 // window reaches zero here (+Inf for the highest band)
}

// Gain returns the band window at freqHz.
func (b Band) Gain(freqHz float64) float64 {
	f := math.Abs(freqHz)

	switch {
	case f == b.CenterFreq:
		return 1
	case f < b.CenterFreq:
		if b.LowEdge == 0 {
			return 1
		}
		if f <= b.LowEdge {
			return 0
		}
		x := math.Log(f/b.LowEdge) / math.Log(b.CenterFreq/b.LowEdge)
		s := math.Sin(math.Pi / 2 * x)

		return s * s
	default:
		if math.IsInf(b.HighEdge, 1) {
			return 1
		}
		if f >= b.HighEdge {
			return 0
		}
		x := math.Log(f/b.CenterFreq) / math.Log(b.HighEdge/b.CenterFreq)
		c := math.Cos(math.Pi / 2 * x)

		return c * c
	}
}

// window is the non-zero run of a band window over non-negative FFT bins.
type window struct {
	start int
	gain  []float64
}

// Bank is a fixed decomposition for records of one length and time step.
// A Bank is safe for concurrent Decompose calls.
type Bank struct {
	bands   []Band
	windows []window
	n       int
	dt      float64
	fftSize int
}

type bankConfig struct {
	scales  int
	lowerHz float64
	upperHz float64
}

// Option configures a Bank.
type Option func(*bankConfig)

// WithScales sets the number of bands. Values below 2 are ignored.
func WithScales(n int) Option {
	return func(cfg *bankConfig) {
		if n >= 2 {
			cfg.scales = n
		}
	}
}

// WithFrequencyRange sets the lowest and highest band centers in Hz.
// The upper limit is clipped to the Nyquist frequency.
func WithFrequencyRange(lower, upper float64) Option {
	return func(cfg *bankConfig) {
		if lower > 0 && upper > lower {
			cfg.lowerHz = lower
			cfg.upperHz = upper
		}
	}
}

// NewBank builds a bank for records of n samples at time step dt.
//
// By default band centers run from min(4/duration, 0.1 Hz) up to the
// Nyquist frequency.
func NewBank(n int, dt float64, opts ...Option) (*Bank, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: %d", ErrTooShort, n)
	}
	if !(dt > 0) || math.IsInf(dt, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTimeStep, dt)
	}

	nyquist := 0.5 / dt
	duration := float64(n-1) * dt

	cfg := bankConfig{
		scales:  defaultScales,
		lowerHz: math.Min(4/duration, 0.1),
		upperHz: nyquist,
	}
	for _, o := range opts {
		o(&cfg)
	}
	cfg.upperHz = math.Min(cfg.upperHz, nyquist)

	if !(cfg.lowerHz > 0) || cfg.lowerHz >= cfg.upperHz {
		return nil, fmt.Errorf("%w: [%v, %v] Hz", ErrInvalidFrequency, cfg.lowerHz, cfg.upperHz)
	}

	bands := bandSpecs(cfg.scales, cfg.lowerHz, cfg.upperHz)
	fftSize := paddedSize(n, dt, bands)

	return &Bank{
		bands:   bands,
		windows: bandWindows(bands, fftSize, dt),
		n:       n,
		dt:      dt,
		fftSize: fftSize,
	}, nil
}

func bandSpecs(scales int, lowerHz, upperHz float64) []Band {
	centers := make([]float64, scales)
	step := math.Log(upperHz/lowerHz) / float64(scales-1)
	for i := range centers {
		centers[i] = lowerHz * math.Exp(step*float64(i))
	}
	centers[scales-1] = upperHz
	sort.Float64s(centers)

	bands := make([]Band, scales)
	for i, fc := range centers {
		b := Band{CenterFreq: fc, Period: 1 / fc, HighEdge: math.Inf(1)}
		if i > 0 {
			b.LowEdge = centers[i-1]
		}
		if i < scales-1 {
			b.HighEdge = centers[i+1]
		}
		bands[i] = b
	}

	return bands
}

// paddedSize picks a power-of-two FFT size of at least 2n that resolves the
// spacing between the two lowest band centers with two bins.
func paddedSize(n int, dt float64, bands []Band) int {
	size := nextPowerOf2(2 * n)

	spacing := bands[1].CenterFreq - bands[0].CenterFreq
	if need := 2 / (spacing * dt); need > float64(size) {
		size = nextPowerOf2(int(math.Min(math.Ceil(need), maxFFTSize)))
	}

	return size
}

func bandWindows(bands []Band, fftSize int, dt float64) []window {
	half := fftSize / 2
	df := 1 / (float64(fftSize) * dt)

	windows := make([]window, len(bands))
	for i, b := range bands {
		lo := 0
		if b.LowEdge > 0 {
			lo = int(math.Floor(b.LowEdge/df)) + 1
		}

		hi := half
		if !math.IsInf(b.HighEdge, 1) {
			hi = min(int(math.Ceil(b.HighEdge/df))-1, half)
		}

		if hi < lo {
			windows[i] = window{start: lo}
			continue
		}

		gain := make([]float64, hi-lo+1)
		for k := range gain {
			gain[k] = b.Gain(float64(lo+k) * df)
		}
		windows[i] = window{start: lo, gain: gain}
	}

	return windows
}

// Bands returns the bands ordered from low to high center frequency.
func (b *Bank) Bands() []Band { return b.bands }

// NumBands returns the number of bands.
func (b *Bank) NumBands() int { return len(b.bands) }

// Len returns the record length the bank was built for.
func (b *Bank) Len() int { return b.n }

// DT returns the time step the bank was built for.
func (b *Bank) DT() float64 { return b.dt }

// FFTSize returns the padded transform size.
func (b *Bank) FFTSize() int { return b.fftSize }

// Periods returns the characteristic period of every band, in band order.
func (b *Bank) Periods() []float64 {
	out := make([]float64, len(b.bands))
	for i, band := range b.bands {
		out[i] = band.Period
	}

	return out
}

// Nearest returns the band whose period is closest to period on a
// logarithmic axis.
func (b *Bank) Nearest(period float64) int {
	best := 0
	bestDist := math.Inf(1)
	lp := math.Log(period)

	for i, band := range b.bands {
		if d := math.Abs(math.Log(band.Period) - lp); d < bestDist {
			best = i
			bestDist = d
		}
	}

	return best
}

// InWindow returns the indices of the bands whose period lies in [t1, t2],
// in band order.
func (b *Bank) InWindow(t1, t2 float64) []int {
	var idx []int
	for i, band := range b.bands {
		if band.Period >= t1 && band.Period <= t2 {
			idx = append(idx, i)
		}
	}

	return idx
}

// Decompose splits signal into one component per band.
func (b *Bank) Decompose(signal []float64) (*Set, error) {
	if len(signal) != b.n {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrLengthMismatch, len(signal), b.n)
	}

	plan, err := algofft.NewPlan64(b.fftSize)
	if err != nil {
		return nil, fmt.Errorf("wavelet: failed to create FFT plan: %w", err)
	}

	padded := make([]complex128, b.fftSize)
	for i, v := range signal {
		padded[i] = complex(v, 0)
	}

	bins := make([]complex128, b.fftSize)
	if err := plan.Forward(bins, padded); err != nil {
		return nil, fmt.Errorf("wavelet: forward FFT failed: %w", err)
	}

	half := b.fftSize / 2
	re := make([]float64, half+1)
	im := make([]float64, half+1)
	for k := range re {
		re[k] = real(bins[k])
		im[k] = imag(bins[k])
	}

	var (
		bufRe = make([]float64, half+1)
		bufIm = make([]float64, half+1)
		band  = make([]complex128, b.fftSize)
		out   = make([]complex128, b.fftSize)
	)

	comps := make([][]float64, len(b.bands))
	for j, w := range b.windows {
		comp := make([]float64, b.n)
		comps[j] = comp

		if len(w.gain) == 0 {
			continue
		}

		end := w.start + len(w.gain)
		vecmath.MulBlock(bufRe[w.start:end], re[w.start:end], w.gain)
		vecmath.MulBlock(bufIm[w.start:end], im[w.start:end], w.gain)

		for i := range band {
			band[i] = 0
		}
		for k := w.start; k < end; k++ {
			band[k] = complex(bufRe[k], bufIm[k])
			if k > 0 && k < half {
				band[b.fftSize-k] = complex(bufRe[k], -bufIm[k])
			}
		}

		if err := plan.Inverse(out, band); err != nil {
			return nil, fmt.Errorf("wavelet: inverse FFT failed: %w", err)
		}

		for i := range comp {
			comp[i] = real(out[i])
		}
	}

	coef := make([]float64, len(b.bands))
	for i := range coef {
		coef[i] = 1
	}

	return &Set{bank: b, comps: comps, coef: coef}, nil
}

// Decompose builds a bank for signal and decomposes it.
func Decompose(signal []float64, dt float64, opts ...Option) (*Set, error) {
	b, err := NewBank(len(signal), dt, opts...)
	if err != nil {
		return nil, err
	}

	return b.Decompose(signal)
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
