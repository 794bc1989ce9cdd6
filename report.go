package numbench

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var ErrMalformedReport = errors.New("malformed report")

// WriteTo serializes the report:
//
//	,10,,100,,
//	add,0.0010, 0.0001,0.0020, 0.0002,
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	write := func(s string) {
		m, _ := bw.WriteString(s)
		n += int64(m)
	}

	write(",")
	for _, sz := range r.Sizes {
		write(sz)
		write(",,")
	}
	write("\n")
	for _, row := range r.Rows {
		write(row.Label)
		write(",")
		for _, s := range row.Stats {
			write(fmt.Sprintf("%.4f, %.4f,", s.Mean, s.Std))
		}
		write("\n")
	}
	return n, bw.Flush()
}

func (r *Report) String() string {
	var sb strings.Builder
	r.WriteTo(&sb)
	return sb.String()
}

// Validate checks that every row has one summary per size and that no label
// contains the delimiter.
func (r *Report) Validate() error {
	for _, sz := range r.Sizes {
		if strings.ContainsRune(sz, ',') {
			return fmt.Errorf("%w: size label %q contains a comma", ErrMalformedReport, sz)
		}
	}
	for _, row := range r.Rows {
		if strings.ContainsRune(row.Label, ',') {
			return fmt.Errorf("%w: row label %q contains a comma", ErrMalformedReport, row.Label)
		}
		if len(row.Stats) != len(r.Sizes) {
			return fmt.Errorf("%w: row %q has %d values for %d sizes",
				ErrMalformedReport, row.Label, len(row.Stats), len(r.Sizes))
		}
	}
	return nil
}

// ParseReport reads a report written by WriteTo, or by any runner using the
// same layout. Family and Library are not part of the text and stay empty.
func ParseReport(in io.Reader) (*Report, error) {
	cr := csv.NewReader(in)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty input", ErrMalformedReport)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrMalformedReport, err)
	}

	r := &Report{}
	for i := 1; i < len(header); i += 2 {
		label := strings.TrimSpace(header[i])
		if label == "" {
			// trailing delimiter
			if i == len(header)-1 {
				break
			}
			return nil, fmt.Errorf("%w: header has an empty size label at field %d", ErrMalformedReport, i)
		}
		r.Sizes = append(r.Sizes, label)
	}

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedReport, line, err)
		}
		row, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedReport, line, err)
		}
		if len(row.Stats) != len(r.Sizes) {
			return nil, fmt.Errorf("%w: line %d: %d values for %d sizes",
				ErrMalformedReport, line, len(row.Stats), len(r.Sizes))
		}
		r.Rows = append(r.Rows, row)
	}
	return r, nil
}

func parseRow(rec []string) (Row, error) {
	row := Row{Label: strings.TrimSpace(rec[0])}
	if row.Label == "" {
		return row, fmt.Errorf("empty row label")
	}
	fields := rec[1:]
	if n := len(fields); n > 0 && strings.TrimSpace(fields[n-1]) == "" {
		fields = fields[:n-1]
	}
	if len(fields)%2 != 0 {
		return row, fmt.Errorf("row %q: odd number of values", row.Label)
	}
	for i := 0; i < len(fields); i += 2 {
		mean, err := strconv.ParseFloat(strings.TrimSpace(fields[i]), 64)
		if err != nil {
			return row, fmt.Errorf("row %q: mean: %v", row.Label, err)
		}
		std, err := strconv.ParseFloat(strings.TrimSpace(fields[i+1]), 64)
		if err != nil {
			return row, fmt.Errorf("row %q: std: %v", row.Label, err)
		}
		row.Stats = append(row.Stats, Summary{Mean: mean, Std: std})
	}
	return row, nil
}

// Means returns the row's means in size order.
func (r Row) Means() []float64 {
	out := make([]float64, len(r.Stats))
	for i, s := range r.Stats {
		out[i] = s.Mean
	}
	return out
}

// Stds returns the row's standard deviations in size order.
func (r Row) Stds() []float64 {
	out := make([]float64, len(r.Stats))
	for i, s := range r.Stats {
		out[i] = s.Std
	}
	return out
}

// SizeValues parses the size labels as numbers ("1e4" is 10000). ok is false
// when any label is not numeric, e.g. "10*300*3000".
func (r *Report) SizeValues() (values []float64, ok bool) {
	values = make([]float64, len(r.Sizes))
	for i, s := range r.Sizes {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, false
		}
		values[i] = v
	}
	return values, true
}
