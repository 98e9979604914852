// Command specmatch adjusts accelerograms so that their response spectra fit
// a target spectrum.
//
// Usage:
//
//	specmatch -target target.txt -seed rec.AT2 [-seed2 rec2.AT2] [flags]
//
// With -seed2 the RotDnn spectrum of the pair is matched; otherwise the
// single record is matched. Parameters can be given as individual flags or
// as one query string, e.g. -params "t1=0.05&t2=4&nit=20"; individual flags
// win over -params.
//
// Examples:
//
//	specmatch -target uhs.txt -seed RSN15.AT2 -out matched
//	specmatch -target uhs.txt -seed H1.AT2 -seed2 H2.AT2 -percentile 50 -format 2col
//	specmatch -target uhs.txt -seed RSN15.AT2 -baseline -order 1 -v
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"text/tabwriter"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cwbudde/algo-specmatch/seismic/intensity"
	"github.com/cwbudde/algo-specmatch/seismic/match"
	"github.com/cwbudde/algo-specmatch/seismic/peer"
	"github.com/cwbudde/algo-specmatch/seismic/record"
)

// paramFlags maps individual flags to ParseConfig keys.
var paramFlags = []struct {
	name, key, usage string
}{
	{"damping", "damping", "damping ratio"},
	{"t1", "t1", "matching window start in s (0 = target range)"},
	{"t2", "t2", "matching window end in s (0 = target range)"},
	{"nit", "nit", "iterations"},
	{"percentile", "percentile", "RotDnn percentile for pair matching"},
	{"order", "order", "baseline detrending order, -1 disables"},
	{"relaxation", "relaxation", "fraction of each correction ratio applied"},
	{"scales", "scales", "wavelet bands"},
	{"tolerance", "tolerance", "stop when RMSE (%) drops below, 0 runs all iterations"},
}

type options struct {
	target, seed, seed2 string
	out, format         string
	verbose             bool
	values              url.Values
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRunner().run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("specmatch", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var o options
	fs.StringVar(&o.target, "target", "", "two-column period/PSA target spectrum (required)")
	fs.StringVar(&o.seed, "seed", "", "seed record in PEER .AT2 format (required)")
	fs.StringVar(&o.seed2, "seed2", "", "second horizontal component; enables RotDnn matching")
	fs.StringVar(&o.out, "out", "matched", "output path prefix")
	fs.StringVar(&o.format, "format", "at2", "output format: at2, 2col or 1col")
	fs.BoolVar(&o.verbose, "v", false, "debug logging")
	params := fs.String("params", "", "matching parameters as a query string")
	baseline := fs.Bool("baseline", false, "baseline-correct the matched records")

	individual := make(map[string]*string, len(paramFlags))
	for _, p := range paramFlags {
		individual[p.name] = fs.String(p.name, "", p.usage)
	}

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: specmatch -target FILE -seed FILE [-seed2 FILE] [flags]\n\n")
		fmt.Fprintf(stderr, "Matches the response spectrum of one record, or the RotDnn spectrum of a pair,\n")
		fmt.Fprintf(stderr, "to a target spectrum.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if o.target == "" || o.seed == "" {
		fs.Usage()
		return options{}, errors.New("-target and -seed are required")
	}

	switch o.format {
	case "at2", "2col", "1col":
	default:
		return options{}, fmt.Errorf("unknown -format %q", o.format)
	}

	values, err := url.ParseQuery(*params)
	if err != nil {
		return options{}, fmt.Errorf("-params: %w", err)
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	for _, p := range paramFlags {
		if set[p.name] {
			values.Set(p.key, *individual[p.name])
		}
	}

	if set["baseline"] {
		values.Set("baseline", strconv.FormatBool(*baseline))
	}

	o.values = values

	return o, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)

	return cfg.Build()
}

// runner owns the state shared by successive runs: parsed inputs are
// cached by content, so repeated runs over the same files parse them once.
type runner struct {
	inputs *record.Cache
	log    *zap.Logger // nil builds one from -v per run
}

func newRunner() *runner {
	return &runner{inputs: record.NewCache(8)}
}

func (r *runner) logger(verbose bool) (*zap.Logger, error) {
	if r.log != nil {
		return r.log, nil
	}

	return newLogger(verbose)
}

func (r *runner) run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	cfg, err := match.ParseConfig(o.values)
	if err != nil {
		return err
	}

	log, err := r.logger(o.verbose)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	m, err := match.New(match.WithConfig(cfg), match.WithLogger(log))
	if err != nil {
		return err
	}

	target, err := loadTarget(r.inputs, o.target)
	if err != nil {
		return err
	}

	seed, err := loadAT2(r.inputs, log, o.seed)
	if err != nil {
		return err
	}

	if o.seed2 == "" {
		res, err := m.Match(ctx, seed, target)
		if res == nil {
			return err
		}

		if werr := writeSingle(o, seed, res); werr != nil {
			return werr
		}

		rows := []intensityRow{compareIntensity(seed.Name, seed, res.Accel)}

		return errors.Join(printReport(stdout, res.Summary(), &res.Report, rows), err)
	}

	seed2, err := loadAT2(r.inputs, log, o.seed2)
	if err != nil {
		return err
	}

	res, err := m.MatchPair(ctx, seed, seed2, target)
	if res == nil {
		return err
	}

	if werr := writePair(o, seed, seed2, res); werr != nil {
		return werr
	}

	rows := []intensityRow{
		compareIntensity(seed.Name, seed, res.Accel1),
		compareIntensity(seed2.Name, seed2, res.Accel2),
	}

	return errors.Join(printReport(stdout, res.Summary(), &res.Report, rows), err)
}

func loadAT2(c *record.Cache, log *zap.Logger, path string) (record.Accelerogram, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return record.Accelerogram{}, err
	}

	parse := func(raw []byte) (record.Accelerogram, error) {
		f, err := peer.ReadAT2(bytes.NewReader(raw))
		if err != nil {
			return record.Accelerogram{}, err
		}

		if f.CountMismatch() {
			log.Warn("point count differs from header",
				zap.String("file", path),
				zap.Int("declared", f.Declared),
				zap.Int("read", f.Record.Len()))
		}

		return f.Record, nil
	}

	a, err := c.Accelerogram(raw, parse)
	if err != nil {
		return record.Accelerogram{}, fmt.Errorf("%s: %w", path, err)
	}

	return a, nil
}

func loadTarget(c *record.Cache, path string) (record.Target, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return record.Target{}, err
	}

	t, err := c.Target(raw, peer.ParseTarget)
	if err != nil {
		return record.Target{}, fmt.Errorf("%s: %w", path, err)
	}

	return t, nil
}

type intensityRow struct {
	name          string
	before, after intensity.Measures
}

func compareIntensity(name string, seed record.Accelerogram, matched []float64) intensityRow {
	return intensityRow{
		name:   name,
		before: intensity.Calculate(seed.Samples(), seed.DT),
		after:  intensity.Calculate(matched, seed.DT),
	}
}

func printReport(w io.Writer, sum match.Summary, r *match.Report, rows []intensityRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Run\t%s\n", sum.RunID)
	fmt.Fprintf(tw, "Mode\t%s\n", sum.Mode)
	fmt.Fprintf(tw, "Periods\t%d (%.3g-%.3g s)\n\n", len(r.Periods), r.Periods[0], r.Periods[len(r.Periods)-1])
	fmt.Fprintf(tw, "Iteration\tRMSE [%%]\tMisfit [%%]\t\n")
	fmt.Fprintf(tw, "---------\t--------\t----------\t\n")

	for _, it := range r.History {
		mark := ""
		if it.Index == sum.BestIteration {
			mark = "best"
		}
		fmt.Fprintf(tw, "%d\t%.2f\t%.2f\t%s\n", it.Index, it.RMSE, it.Misfit, mark)
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintf(tw, "\nWarnings\t%d\n", len(r.Warnings))
	}

	if len(rows) > 0 {
		fmt.Fprintf(tw, "\nRecord\tPGA [g]\tPGV [g·s]\tArias [m/s]\tCAV [g·s]\tD5-95 [s]\t\n")

		for _, row := range rows {
			for _, v := range []struct {
				label string
				m     intensity.Measures
			}{{"seed", row.before}, {"matched", row.after}} {
				fmt.Fprintf(tw, "%s (%s)\t%.4f\t%.4f\t%.4f\t%.4f\t%.2f\t\n",
					row.name, v.label, v.m.PGA, v.m.PGV, v.m.AriasIntensity, v.m.CAV, v.m.D595)
			}
		}
	}

	return tw.Flush()
}
