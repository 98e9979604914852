package match

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-specmatch/dsp/core"
	"github.com/cwbudde/algo-specmatch/seismic/record"
	"github.com/cwbudde/algo-specmatch/seismic/response"
	"github.com/cwbudde/algo-specmatch/seismic/rotd"
	"github.com/cwbudde/algo-specmatch/seismic/wavelet"
)

// MatchPair fits the RotDnn spectrum (Config.Percentile) of two orthogonal
// components to target. Both components are decomposed over the same bank
// and every correction is applied to both, so they move together.
//
// Errors and cancellation behave as for Match.
func (m *Matcher) MatchPair(ctx context.Context, seed1, seed2 record.Accelerogram, target record.Target) (*PairResult, error) {
	if err := checkSeed("seed1", seed1); err != nil {
		return nil, err
	}

	if err := checkSeed("seed2", seed2); err != nil {
		return nil, err
	}

	if seed1.Len() != seed2.Len() {
		return nil, &DataError{Field: "seed2", Reason: fmt.Sprintf("length %d differs from seed1 length %d", seed2.Len(), seed1.Len())}
	}

	if !core.NearlyEqual(seed1.DT, seed2.DT, 1e-12) {
		return nil, &DataError{Field: "seed2", Reason: fmt.Sprintf("time step %v differs from seed1 time step %v", seed2.DT, seed1.DT)}
	}

	t1, t2, err := m.window(target)
	if err != nil {
		return nil, err
	}

	dt := seed1.DT
	s1, s2 := seed1.Samples(), seed2.Samples()

	bank, err := wavelet.NewBank(len(s1), dt, wavelet.WithScales(m.cfg.Scales))
	if err != nil {
		return nil, dataError("seed1", err)
	}

	set1, err := bank.Decompose(s1)
	if err != nil {
		return nil, dataError("seed1", err)
	}

	set2, err := bank.Decompose(s2)
	if err != nil {
		return nil, dataError("seed2", err)
	}

	angles, err := rotd.NewAngles(m.cfg.AngleStep)
	if err != nil {
		return nil, &ConfigurationError{Field: "anglestep", Value: m.cfg.AngleStep, Reason: err.Error(), Err: err}
	}

	runID := uuid.New()

	s, err := newSession(m, runID, bank, t1, t2, target, []*wavelet.Set{set1, set2})
	if err != nil {
		return nil, err
	}

	engine, err := response.NewEngine(dt, s.periods, m.cfg.Damping, response.WithWorkers(m.cfg.Workers))
	if err != nil {
		return nil, &ConfigurationError{Field: "damping", Value: m.cfg.Damping, Reason: err.Error(), Err: err}
	}

	calc, err := rotd.NewCalculator(engine, angles)
	if err != nil {
		return nil, &ConfigurationError{Field: "anglestep", Value: m.cfg.AngleStep, Reason: err.Error(), Err: err}
	}

	percentile := m.cfg.Percentile
	s.spectrum = func(dst []float64, current [][]float64) error {
		return calc.ComputeTo(dst, current[0], current[1], percentile)
	}

	s.log.Info("pair matching started",
		zap.String("seed1", seed1.Name),
		zap.String("seed2", seed2.Name),
		zap.Int("samples", len(s1)),
		zap.Float64("percentile", percentile),
		zap.Int("angles", angles.Len()),
		zap.Float64("t1", t1),
		zap.Float64("t2", t2),
		zap.Int("periods", len(s.periods)),
		zap.Int("bands", len(s.active)))

	ran, runErr := s.run(ctx)
	if runErr != nil && ctx.Err() == nil {
		return nil, runErr
	}

	acc1, vel1, disp1, err := s.finish(s.bestAcc[0], dt, "seed1")
	if err != nil {
		return nil, err
	}

	acc2, vel2, disp2, err := s.finish(s.bestAcc[1], dt, "seed2")
	if err != nil {
		return nil, err
	}

	res := &PairResult{
		Report:     s.report(runID, dt, ran),
		Percentile: percentile,
		Accel1:     acc1,
		Vel1:       vel1,
		Disp1:      disp1,
		Accel2:     acc2,
		Vel2:       vel2,
		Disp2:      disp2,
	}

	s.log.Info("pair matching finished",
		zap.Int("iterations", ran),
		zap.Int("best", res.BestIteration),
		zap.Float64("rmse", res.RMSE),
		zap.Float64("misfit", res.Misfit),
		zap.Int("warnings", len(res.Warnings)))

	return res, runErr
}
