package numbench

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// Family names one group of operations that share an input size axis.
type Family string

const (
	FamilySimple Family = "simple"
	FamilyAxis   Family = "axis"
	FamilyAxes   Family = "axes"
	FamilyRepeat Family = "repeat"
	FamilySlice  Family = "slice"
	FamilyLinalg Family = "linalg"
)

// Families lists every family in report order.
var Families = []Family{FamilySimple, FamilyAxis, FamilyAxes, FamilyRepeat, FamilySlice, FamilyLinalg}

var ErrUnknownFamily = errors.New("unknown family")

// ParseFamily accepts the family names used in file names and on the
// command line.
func ParseFamily(s string) (Family, error) {
	for _, f := range Families {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFamily, s)
}

// Size is one input configuration. Label is what the report header shows.
type Size struct {
	Label string
	Shape []int
}

// Elems returns the number of elements of an input of this size.
func (s Size) Elems() int {
	n := 1
	for _, d := range s.Shape {
		n *= d
	}
	return n
}

// Call is the timed part of a trial.
type Call func() error

// Op describes one benchmarked operation. Prepare builds fresh input for a
// single trial outside the timed region and returns the call to time.
type Op struct {
	Label   Label
	Prepare func(rng *rand.Rand, sz Size) (Call, error)
}

// Plan is everything to benchmark for one report.
type Plan struct {
	Family Family
	Sizes  []Size
	Ops    []Op
}

type Summary struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

type Row struct {
	Label string    `json:"label"`
	Stats []Summary `json:"stats"`
}

// Report is the result of running one plan against one library.
type Report struct {
	Family  Family   `json:"family"`
	Library string   `json:"library"`
	Sizes   []string `json:"sizes"`
	Rows    []Row    `json:"rows"`
}

// Row returns the row with the given label.
func (r *Report) Row(label string) (Row, bool) {
	for _, row := range r.Rows {
		if row.Label == label {
			return row, true
		}
	}
	return Row{}, false
}

// BenchOutput is the JSON envelope used to upload or archive a report.
type BenchOutput struct {
	Date   string  `json:"date"`
	Commit string  `json:"commit,omitempty"`
	Report *Report `json:"report"`
}
