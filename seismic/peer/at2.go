package peer

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-specmatch/seismic/record"
)

// ErrFormat reports malformed input. It is wrapped with the line number and
// the offending content.
var ErrFormat = errors.New("peer: malformed input")

const valuesPerLine = 8

// Header carries the descriptive fields of an .AT2 file.
type Header struct {
	Title     string
	Date      string // MM/DD/YYYY
	Station   string
	Component string
}

// AT2 is a parsed .AT2 file.
type AT2 struct {
	Header   Header
	Event    string
	Declared int // NPTS from the header; the data count wins on mismatch
	Record   record.Accelerogram
}

// CountMismatch reports whether the header NPTS differs from the number of
// samples actually read.
func (f AT2) CountMismatch() bool { return f.Declared != f.Record.Len() }

// ReadAT2 parses a PEER NGA .AT2 file. The record name is built as
// YEAR_EVENT_STATION_comp_COMPONENT from line 2.
func ReadAT2(r io.Reader) (AT2, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines [4]string
	for i := range lines {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return AT2{}, err
			}

			return AT2{}, fmt.Errorf("%w: header ends at line %d", ErrFormat, i+1)
		}
		lines[i] = sc.Text()
	}

	var out AT2
	out.Header.Title = strings.TrimSpace(lines[0])

	f2 := strings.Split(lines[1], ",")
	if len(f2) < 4 {
		return AT2{}, fmt.Errorf("%w: line 2 %q: want EVENT, DATE, STATION, COMPONENT", ErrFormat, lines[1])
	}

	for i := range f2 {
		f2[i] = strings.TrimSpace(f2[i])
	}
	out.Event = f2[0]
	out.Header.Date = f2[1]
	out.Header.Station = f2[2]
	out.Header.Component = f2[3]

	date := strings.Split(out.Header.Date, "/")
	if len(date) < 3 {
		return AT2{}, fmt.Errorf("%w: line 2 date %q: want MM/DD/YYYY", ErrFormat, out.Header.Date)
	}
	year := strings.TrimSpace(date[2])

	npts, dt, err := parseSampling(lines[3])
	if err != nil {
		return AT2{}, err
	}
	out.Declared = npts

	samples := make([]float64, 0, max(npts, 0))
	for lineNo := 5; sc.Scan(); lineNo++ {
		for _, tok := range strings.Fields(sc.Text()) {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return AT2{}, fmt.Errorf("%w: line %d: %q", ErrFormat, lineNo, tok)
			}
			samples = append(samples, v)
		}
	}

	if err := sc.Err(); err != nil {
		return AT2{}, err
	}

	name := fmt.Sprintf("%s_%s_%s_comp_%s", year, out.Event, out.Header.Station, out.Header.Component)

	out.Record, err = record.NewAccelerogram(name, dt, samples)
	if err != nil {
		return AT2{}, err
	}

	return out, nil
}

// parseSampling reads "NPTS= 5000, DT= .0050 SEC".
func parseSampling(line string) (int, float64, error) {
	parts := strings.Split(line, ",")
	if len(parts) < 2 || !strings.Contains(parts[0], "NPTS=") || !strings.Contains(parts[1], "DT=") {
		return 0, 0, fmt.Errorf("%w: line 4 %q: want NPTS=..., DT=...", ErrFormat, line)
	}

	_, nStr, _ := strings.Cut(parts[0], "=")

	npts, err := strconv.Atoi(strings.TrimSpace(nStr))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: line 4 NPTS: %v", ErrFormat, err)
	}

	_, dtStr, _ := strings.Cut(parts[1], "=")

	fields := strings.Fields(dtStr)
	if len(fields) == 0 {
		return 0, 0, fmt.Errorf("%w: line 4: missing DT value", ErrFormat)
	}

	dt, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: line 4 DT: %v", ErrFormat, err)
	}

	return npts, dt, nil
}

// ParseAT2 is ReadAT2 over raw bytes, returning only the record. It fits
// record.Cache.Accelerogram.
func ParseAT2(raw []byte) (record.Accelerogram, error) {
	f, err := ReadAT2(bytes.NewReader(raw))
	if err != nil {
		return record.Accelerogram{}, err
	}

	return f.Record, nil
}

// WriteAT2 writes accel in .AT2 layout, eight values per line. Empty header
// fields get generic defaults.
func WriteAT2(w io.Writer, accel []float64, dt float64, h Header) error {
	if h.Title == "" {
		h.Title = "SPECTRALLY MATCHED RECORD"
	}

	if h.Date == "" {
		h.Date = "01/01/2025"
	}

	if h.Station == "" {
		h.Station = "SPECMATCH"
	}

	if h.Component == "" {
		h.Component = "Matched"
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s\n", h.Title)
	fmt.Fprintf(bw, "EARTHQUAKE, %s, %s, %s\n", h.Date, h.Station, h.Component)
	fmt.Fprintf(bw, "ACCELERATION IN G\n")
	fmt.Fprintf(bw, "NPTS= %d, DT= %.8f SEC\n", len(accel), dt)

	for i, v := range accel {
		fmt.Fprintf(bw, " % 15.7e", v)
		if (i+1)%valuesPerLine == 0 && i != len(accel)-1 {
			bw.WriteByte('\n')
		}
	}
	bw.WriteByte('\n')

	return bw.Flush()
}
