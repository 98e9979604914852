package match

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-specmatch/dsp/core"
	"github.com/cwbudde/algo-specmatch/seismic/baseline"
	"github.com/cwbudde/algo-specmatch/seismic/record"
	"github.com/cwbudde/algo-specmatch/seismic/wavelet"
)

// nearZero is the response level, relative to the spectrum peak, below
// which a correction ratio is not trusted.
const nearZero = 1e-12

// Matcher runs spectral matching with a fixed configuration.
type Matcher struct {
	cfg Config
	log *zap.Logger
}

// New applies opts on top of DefaultConfig and validates the result.
func New(opts ...Option) (*Matcher, error) {
	cfg := DefaultConfig()
	for _, o := range opts {
		o(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Matcher{cfg: cfg, log: log}, nil
}

// Config returns the validated configuration.
func (m *Matcher) Config() Config { return m.cfg }

// checkSeed validates a seed record. A non-positive time step is a
// configuration problem; everything else about the samples is a data error.
func checkSeed(field string, a record.Accelerogram) error {
	if !(a.DT > 0) || math.IsInf(a.DT, 0) {
		return &ConfigurationError{Field: field + ".dt", Value: a.DT, Reason: "time step must be > 0", Err: record.ErrInvalidTimeStep}
	}

	if _, err := record.NewAccelerogram(a.Name, a.DT, a.Samples()); err != nil {
		return dataError(field, err)
	}

	return nil
}

// window resolves the matching window against the target.
func (m *Matcher) window(target record.Target) (float64, float64, error) {
	if target.Len() == 0 {
		return 0, 0, dataError("target", record.ErrEmpty)
	}

	t1, t2 := m.cfg.T1, m.cfg.T2
	if t1 == 0 && t2 == 0 {
		t1, t2 = target.Range()
		if t1 >= t2 {
			return 0, 0, configError("t1", [2]float64{t1, t2}, "target spans a single period; set an explicit window")
		}
	}

	if !target.Covers(t1, t2) {
		lo, hi := target.Range()
		return 0, 0, configError("t1", [2]float64{t1, t2}, fmt.Sprintf("window not covered by target periods [%g, %g] s", lo, hi))
	}

	if !target.HasPositive(t1, t2) {
		return 0, 0, &DataError{Field: "target", Reason: "no positive ordinate inside the matching window"}
	}

	return t1, t2, nil
}

// spectrumFunc evaluates the spectrum driving the corrections of the
// current iterate into dst.
type spectrumFunc func(dst []float64, current [][]float64) error

// session is the state of one matching call.
type session struct {
	cfg *Config
	log *zap.Logger

	periods []float64 // evaluation periods, ascending
	target  []float64
	valid   []bool // target > 0
	bandOf  []int  // nearest band of every period
	active  []int  // distinct bands receiving corrections

	sets     []*wavelet.Set
	current  [][]float64
	psa      []float64
	spectrum spectrumFunc

	history  []Iteration
	warnings []NumericalWarning

	best     int
	bestRMSE float64
	bestMis  float64
	bestAcc  [][]float64
	bestPSA  []float64
}

// evaluationPeriods returns the tabulated target periods inside [t1, t2]
// with their ordinates. A window that falls between two tabulated periods
// is evaluated at its geometric center.
func evaluationPeriods(target record.Target, t1, t2 float64) (periods, psa []float64) {
	for i, p := range target.Periods {
		if p >= t1 && p <= t2 {
			periods = append(periods, p)
			psa = append(psa, target.PSA[i])
		}
	}

	if len(periods) == 0 {
		periods = []float64{math.Sqrt(t1 * t2)}
		psa = target.At(periods)
	}

	return periods, psa
}

func newSession(m *Matcher, runID uuid.UUID, bank *wavelet.Bank, t1, t2 float64, target record.Target, sets []*wavelet.Set) (*session, error) {
	periods, sa := evaluationPeriods(target, t1, t2)

	s := &session{
		cfg:     &m.cfg,
		log:     m.log.With(zap.String("run_id", runID.String())),
		periods: periods,
		target:  sa,
		valid:   make([]bool, len(periods)),
		bandOf:  make([]int, len(periods)),
		sets:    sets,
		psa:     make([]float64, len(periods)),
		current: make([][]float64, len(sets)),
		bestAcc: make([][]float64, len(sets)),
	}

	seen := make(map[int]bool)
	anyValid := false

	for j, p := range periods {
		k := bank.Nearest(p)
		s.bandOf[j] = k

		s.valid[j] = sa[j] > 0
		if !s.valid[j] {
			s.warn(0, p, ZeroTarget, sa[j])
			continue
		}
		anyValid = true

		if !seen[k] {
			seen[k] = true
			s.active = append(s.active, k)
		}
	}

	if !anyValid {
		return nil, &DataError{Field: "target", Reason: "no positive ordinate inside the matching window"}
	}

	for i, set := range sets {
		s.current[i] = make([]float64, set.Samples())
		s.bestAcc[i] = make([]float64, set.Samples())
	}

	return s, nil
}

func (s *session) warn(it int, period float64, kind WarningKind, ratio float64) {
	w := NumericalWarning{Iteration: it, Period: period, Kind: kind, Ratio: ratio}
	s.warnings = append(s.warnings, w)
	s.log.Warn("numerical warning",
		zap.Int("iteration", it),
		zap.Float64("period", period),
		zap.String("kind", string(kind)),
		zap.Float64("ratio", ratio))
}

func (s *session) reconstruct() {
	for i, set := range s.sets {
		set.ReconstructTo(s.current[i])
	}
}

func (s *session) evaluate() error {
	s.reconstruct()
	return s.spectrum(s.psa, s.current)
}

// metrics returns the RMSE and mean misfit in percent over valid periods.
func (s *session) metrics() (rmse, misfit float64) {
	var sq, abs float64
	m := 0

	for j, sa := range s.target {
		if !s.valid[j] {
			continue
		}
		rel := (s.psa[j] - sa) / sa
		sq += rel * rel
		abs += math.Abs(rel)
		m++
	}

	return math.Sqrt(sq/float64(m)) * 100, abs / float64(m) * 100
}

func (s *session) record(it int) float64 {
	rmse, misfit := s.metrics()
	s.history = append(s.history, Iteration{Index: it, RMSE: rmse, Misfit: misfit})

	s.log.Debug("iteration", zap.Int("iteration", it), zap.Float64("rmse", rmse), zap.Float64("misfit", misfit))

	if it == 0 || rmse < s.bestRMSE || math.IsNaN(s.bestRMSE) {
		s.best, s.bestRMSE, s.bestMis = it, rmse, misfit
		for i := range s.current {
			copy(s.bestAcc[i], s.current[i])
		}
		s.bestPSA = append(s.bestPSA[:0], s.psa...)
	}

	return rmse
}

// scaleToTarget multiplies every coefficient by Σ target / Σ response.
func (s *session) scaleToTarget() error {
	var num, den float64
	for j := range s.psa {
		if s.valid[j] {
			num += s.target[j]
			den += s.psa[j]
		}
	}

	sf := num / den
	if !(sf > 0) || math.IsInf(sf, 0) {
		s.warn(0, 0, NearZeroResponse, sf)
		return nil
	}

	for _, set := range s.sets {
		set.ScaleAll(sf)
	}

	return s.evaluate()
}

// correct applies one relaxed ratio update. Ratios of periods sharing a
// band are combined by their geometric mean.
func (s *session) correct(it int) {
	peak := 0.0
	for _, v := range s.psa {
		if core.IsFinite(v) {
			peak = math.Max(peak, v)
		}
	}

	logSum := make(map[int]float64, len(s.active))
	count := make(map[int]int, len(s.active))

	maxR := s.cfg.MaxRatio
	for j, k := range s.bandOf {
		if !s.valid[j] {
			continue
		}

		p := s.psa[j]
		if !core.IsFinite(p) || p <= nearZero*peak || p == 0 {
			s.warn(it, s.periods[j], NearZeroResponse, p)
			continue
		}

		r := s.target[j] / p
		if r > maxR || r < 1/maxR {
			s.warn(it, s.periods[j], ClampedRatio, r)
			r = core.Clamp(r, 1/maxR, maxR)
		}

		logSum[k] += math.Log(r)
		count[k]++
	}

	for _, k := range s.active {
		if count[k] == 0 {
			continue
		}

		r := math.Exp(logSum[k] / float64(count[k]))
		f := 1 + s.cfg.Relaxation*(r-1)
		for _, set := range s.sets {
			set.Scale(k, f)
		}
	}
}

// run executes the iteration loop. On cancellation the best iterate so far
// stays available and the context error is returned.
func (s *session) run(ctx context.Context) (int, error) {
	if err := s.evaluate(); err != nil {
		return 0, err
	}

	if s.cfg.InitialScaling {
		if err := s.scaleToTarget(); err != nil {
			return 0, err
		}
	}
	s.record(0)

	ran := 0
	converged := false

	for it := 1; it <= s.cfg.Iterations; it++ {
		if err := ctx.Err(); err != nil {
			s.log.Info("matching cancelled", zap.Int("iteration", it), zap.Error(err))
			return ran, err
		}

		s.correct(it)
		if err := s.evaluate(); err != nil {
			return ran, err
		}
		ran = it

		if rmse := s.record(it); s.cfg.Tolerance > 0 && rmse < s.cfg.Tolerance {
			converged = true
			break
		}
	}

	if s.cfg.Tolerance > 0 && !converged {
		s.warn(ran, 0, NotConverged, s.bestRMSE)
	}

	return ran, nil
}

func (s *session) report(runID uuid.UUID, dt float64, ran int) Report {
	return Report{
		RunID:         runID,
		DT:            dt,
		History:       s.history,
		Iterations:    ran,
		BestIteration: s.best,
		RMSE:          s.bestRMSE,
		Misfit:        s.bestMis,
		Periods:       s.periods,
		TargetPSA:     s.target,
		PSA:           s.bestPSA,
		Warnings:      s.warnings,
	}
}

// finish baseline-corrects accel when configured and integrates it.
func (s *session) finish(accel []float64, dt float64, field string) (acc, vel, disp []float64, err error) {
	acc = accel

	if s.cfg.Baseline {
		duration := dt * float64(len(acc)-1)

		corrected, rep, err := baseline.EndCorrect(acc, dt, baseline.DefaultWindow(duration))
		switch {
		case errors.Is(err, baseline.ErrInvalidWindow):
			s.warn(s.best, 0, BaselineIncomplete, 0)
		case err != nil:
			return nil, nil, nil, dataError(field, err)
		default:
			acc = corrected
			if !rep.Converged {
				s.warn(s.best, 0, BaselineIncomplete, math.Max(rep.VelocityError, rep.DisplacementError))
			}
		}

		acc, err = baseline.Correct(acc, dt, s.cfg.Order)
		if err != nil {
			return nil, nil, nil, dataError(field, err)
		}
	}

	vel, disp = baseline.Integrate(acc, dt, 0, 0)

	return acc, vel, disp, nil
}
