package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/algo-specmatch/seismic/match"
	"github.com/cwbudde/algo-specmatch/seismic/peer"
	"github.com/cwbudde/algo-specmatch/seismic/record"
)

// series is one output time history.
type series struct {
	key  string
	data []float64
}

func writeSingle(o options, seed record.Accelerogram, res *match.SingleResult) error {
	return writeComponent(o, o.out, seed, res.DT, []series{
		{"accel", res.Accel},
		{"vel", res.Vel},
		{"disp", res.Disp},
	})
}

func writePair(o options, seed1, seed2 record.Accelerogram, res *match.PairResult) error {
	err := writeComponent(o, o.out+"_1", seed1, res.DT, []series{
		{"accel", res.Accel1},
		{"vel", res.Vel1},
		{"disp", res.Disp1},
	})
	if err != nil {
		return err
	}

	return writeComponent(o, o.out+"_2", seed2, res.DT, []series{
		{"accel", res.Accel2},
		{"vel", res.Vel2},
		{"disp", res.Disp2},
	})
}

// writeComponent writes the acceleration as .AT2, or every series as a
// column file for the text formats.
func writeComponent(o options, prefix string, seed record.Accelerogram, dt float64, data []series) error {
	if o.format == "at2" {
		return writeFile(prefix+".AT2", func(f *os.File) error {
			return peer.WriteAT2(f, data[0].data, dt, peer.Header{
				Title:     "SPECTRALLY MATCHED RECORD, SEED " + seed.Name,
				Component: "Matched " + seed.Name,
			})
		})
	}

	twoCol := o.format == "2col"
	for _, s := range data {
		path := fmt.Sprintf("%s_%s.txt", prefix, s.key)

		err := writeFile(path, func(f *os.File) error {
			return peer.WriteColumns(f, peer.DefaultHeader(s.key, dt, twoCol), dt, s.data, twoCol)
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}

	return f.Close()
}
