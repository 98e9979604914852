package match

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-specmatch/seismic/record"
	"github.com/cwbudde/algo-specmatch/seismic/response"
	"github.com/cwbudde/algo-specmatch/seismic/wavelet"
)

// Match fits the response spectrum of seed to target over the configured
// window and returns the best iterate.
//
// Configuration and data problems are reported before iterating as
// *ConfigurationError or *DataError. If ctx is cancelled between
// iterations, Match returns the best iterate so far together with
// ctx.Err().
func (m *Matcher) Match(ctx context.Context, seed record.Accelerogram, target record.Target) (*SingleResult, error) {
	if err := checkSeed("seed", seed); err != nil {
		return nil, err
	}

	t1, t2, err := m.window(target)
	if err != nil {
		return nil, err
	}

	samples := seed.Samples()

	bank, err := wavelet.NewBank(len(samples), seed.DT, wavelet.WithScales(m.cfg.Scales))
	if err != nil {
		return nil, dataError("seed", err)
	}

	set, err := bank.Decompose(samples)
	if err != nil {
		return nil, dataError("seed", err)
	}

	runID := uuid.New()

	s, err := newSession(m, runID, bank, t1, t2, target, []*wavelet.Set{set})
	if err != nil {
		return nil, err
	}

	engine, err := response.NewEngine(seed.DT, s.periods, m.cfg.Damping, response.WithWorkers(m.cfg.Workers))
	if err != nil {
		return nil, &ConfigurationError{Field: "damping", Value: m.cfg.Damping, Reason: err.Error(), Err: err}
	}

	s.spectrum = func(dst []float64, current [][]float64) error {
		engine.ComputeTo(dst, current[0])
		return nil
	}

	s.log.Info("matching started",
		zap.String("seed", seed.Name),
		zap.Int("samples", len(samples)),
		zap.Float64("t1", t1),
		zap.Float64("t2", t2),
		zap.Int("periods", len(s.periods)),
		zap.Int("bands", len(s.active)))

	ran, runErr := s.run(ctx)
	if runErr != nil && ctx.Err() == nil {
		return nil, runErr
	}

	acc, vel, disp, err := s.finish(s.bestAcc[0], seed.DT, "seed")
	if err != nil {
		return nil, err
	}

	res := &SingleResult{
		Report: s.report(runID, seed.DT, ran),
		Accel:  acc,
		Vel:    vel,
		Disp:   disp,
	}

	s.log.Info("matching finished",
		zap.Int("iterations", ran),
		zap.Int("best", res.BestIteration),
		zap.Float64("rmse", res.RMSE),
		zap.Float64("misfit", res.Misfit),
		zap.Int("warnings", len(res.Warnings)))

	return res, runErr
}
