package peer

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-specmatch/seismic/record"
)

// ReadTarget parses a two-column period/PSA table. Blank lines and lines
// starting with '#' are skipped; columns may be separated by whitespace or
// commas.
func ReadTarget(r io.Reader) (record.Target, error) {
	sc := bufio.NewScanner(r)

	var periods, psa []float64
	for lineNo := 1; sc.Scan(); lineNo++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
		if len(fields) < 2 {
			return record.Target{}, fmt.Errorf("%w: line %d %q: want period and PSA", ErrFormat, lineNo, line)
		}

		p, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return record.Target{}, fmt.Errorf("%w: line %d period: %v", ErrFormat, lineNo, err)
		}

		a, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return record.Target{}, fmt.Errorf("%w: line %d PSA: %v", ErrFormat, lineNo, err)
		}

		periods = append(periods, p)
		psa = append(psa, a)
	}

	if err := sc.Err(); err != nil {
		return record.Target{}, err
	}

	return record.NewTarget(periods, psa)
}

// ParseTarget is ReadTarget over raw bytes. It fits record.Cache.Target.
func ParseTarget(raw []byte) (record.Target, error) {
	return ReadTarget(bytes.NewReader(raw))
}

// WriteColumns writes data as one value per line, or as "time,value" pairs
// when twoCol is set. Each header line is prefixed with "# ".
func WriteColumns(w io.Writer, header string, dt float64, data []float64, twoCol bool) error {
	bw := bufio.NewWriter(w)

	if header != "" {
		for _, line := range strings.Split(header, "\n") {
			fmt.Fprintf(bw, "# %s\n", line)
		}
	}

	for i, v := range data {
		if twoCol {
			fmt.Fprintf(bw, "%.8e,%.8e\n", float64(i)*dt, v)
		} else {
			fmt.Fprintf(bw, "%.8e\n", v)
		}
	}

	return bw.Flush()
}

// DefaultHeader describes a matched time series for WriteColumns.
func DefaultHeader(key string, dt float64, twoCol bool) string {
	last := "Data points follow:"
	if twoCol {
		last = "Time (s), Value (units vary)"
	}

	return fmt.Sprintf("Spectrally matched time series\nData key: '%s'\nTime Step (dt): %.8f s\n%s", key, dt, last)
}
