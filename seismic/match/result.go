package match

import "github.com/google/uuid"

// Mode tags which matching variant produced a result.
type Mode int

// Result modes.
const (
	SingleMode Mode = iota + 1
	PairMode
)

func (m Mode) String() string {
	switch m {
	case SingleMode:
		return "single"
	case PairMode:
		return "pair"
	default:
		return "unknown"
	}
}

// Iteration holds the error metrics of one iterate. Index 0 is the seed
// after optional initial scaling.
type Iteration struct {
	Index  int
	RMSE   float64 // percent
	Misfit float64 // mean absolute relative misfit, percent
}

// Summary is a compact, mode-independent view of a result.
type Summary struct {
	RunID         string
	Mode          Mode
	Iterations    int
	BestIteration int
	RMSE          float64
	Misfit        float64
	Warnings      int
}

// Result is implemented by *SingleResult and *PairResult.
type Result interface {
	Mode() Mode
	Summary() Summary
}

// Report carries the fields shared by both result variants.
type Report struct {
	RunID uuid.UUID
	DT    float64

	History       []Iteration
	Iterations    int // loop iterations actually run
	BestIteration int
	RMSE          float64 // of the returned iterate
	Misfit        float64

	Periods   []float64 // target periods inside the window, ascending
	TargetPSA []float64 // target at Periods
	PSA       []float64 // spectrum of the returned iterate before baseline correction

	Warnings []NumericalWarning
}

func (r *Report) summary(mode Mode) Summary {
	return Summary{
		RunID:         r.RunID.String(),
		Mode:          mode,
		Iterations:    r.Iterations,
		BestIteration: r.BestIteration,
		RMSE:          r.RMSE,
		Misfit:        r.Misfit,
		Warnings:      len(r.Warnings),
	}
}

// SingleResult is the outcome of Matcher.Match.
type SingleResult struct {
	Report

	Accel []float64
	Vel   []float64
	Disp  []float64
}

// Mode returns SingleMode.
func (r *SingleResult) Mode() Mode { return SingleMode }

// Summary condenses the result.
func (r *SingleResult) Summary() Summary { return r.summary(SingleMode) }

// PairResult is the outcome of Matcher.MatchPair.
type PairResult struct {
	Report

	Percentile float64

	Accel1, Vel1, Disp1 []float64
	Accel2, Vel2, Disp2 []float64
}

// Mode returns PairMode.
func (r *PairResult) Mode() Mode { return PairMode }

// Summary condenses the result.
func (r *PairResult) Summary() Summary { return r.summary(PairMode) }
