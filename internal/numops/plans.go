package numops

import (
	"fmt"
	"strconv"

	"github.com/tiancaiamao/numbench"
	"github.com/tiancaiamao/numbench/internal/ndarray"
)

var (
	defaultLengths = []int{10, 100, 1000, 10000, 100000, 200000, 400000, 600000, 800000, 1000000}
	axisSides      = []int{10, 20, 30, 40, 50, 60}
	axesSides      = []int{10, 20, 30, 40, 50, 60, 70}
	repeatSides    = []int{10, 15, 20, 25, 30, 35}
	sliceShapes    = [][]int{{10, 300, 3000}, {3000, 300, 10}}
	matrixSides    = []int{10, 50, 100, 150, 200, 300, 400, 600, 800, 1000}

	reduceAxis = []int{0, 3}
	sumAxes    = [][]int{{0, 3}, {0, 2}}
	repeatReps = [][]int{{1, 1, 1, 5}, {1, 4, 4, 1}, {3, 3, 3, 1}}
)

// Index expressions for get_slice, labelled the way every runner writes them
// so rows line up across libraries.
var sliceCases = []struct {
	expr string
	idx  []ndarray.Index
}{
	{"[[0;-1]; []; []]", []ndarray.Index{ndarray.Span(0, -1), ndarray.All(), ndarray.All()}},
	{"[[-1;0]; [0;1]; []]", []ndarray.Index{ndarray.SpanStep(-1, 0, -1), ndarray.Span(0, 1), ndarray.All()}},
	{"[[-1;0]; [-1;0]; [0]]", []ndarray.Index{ndarray.SpanStep(-1, 0, -1), ndarray.SpanStep(-1, 0, -1), ndarray.Pick(0)}},
	{"[[-1]; [-1;0];[]]", []ndarray.Index{ndarray.Pick(-1), ndarray.SpanStep(-1, 0, -1), ndarray.All()}},
	{"[[]; [-1;0]; []]", []ndarray.Index{ndarray.All(), ndarray.SpanStep(-1, 0, -1), ndarray.All()}},
	{"[[]; [0;-1]; [-1;0]]", []ndarray.Index{ndarray.All(), ndarray.Span(0, -1), ndarray.SpanStep(-1, 0, -1)}},
	{"[[]; [-1;0]; [0;1]]", []ndarray.Index{ndarray.All(), ndarray.SpanStep(-1, 0, -1), ndarray.Span(0, 1)}},
	{"[[]; [0;-1]; [-1;0;-2]]", []ndarray.Index{ndarray.All(), ndarray.Span(0, -1), ndarray.SpanStep(-1, 0, -2)}},
}

// CountLabel formats a flat length the way report headers show it: 1000
// stays as is, 200000 becomes 2e5.
func CountLabel(n int) string {
	if n < 10000 {
		return strconv.Itoa(n)
	}
	exp := 0
	m := n
	for m%10 == 0 {
		m /= 10
		exp++
	}
	if m >= 10 {
		return strconv.Itoa(n)
	}
	return fmt.Sprintf("%de%d", m, exp)
}

func flatSizes(lengths []int) []numbench.Size {
	sizes := make([]numbench.Size, len(lengths))
	for i, n := range lengths {
		sizes[i] = numbench.Size{Label: CountLabel(n), Shape: []int{n}}
	}
	return sizes
}

func cubeSizes(sides []int, rank int) []numbench.Size {
	sizes := make([]numbench.Size, len(sides))
	for i, s := range sides {
		shape := make([]int, rank)
		for d := range shape {
			shape[d] = s
		}
		sizes[i] = numbench.Size{Label: strconv.Itoa(s), Shape: shape}
	}
	return sizes
}

func shapeSizes(shapes [][]int) []numbench.Size {
	sizes := make([]numbench.Size, len(shapes))
	for i, s := range shapes {
		sizes[i] = numbench.Size{Label: numbench.JoinInts(s), Shape: s}
	}
	return sizes
}

// Sizes turns configured shapes into the size axis of family. Flat families
// take one-element shapes, cube families take the side length, matrices
// take a single side or rows*cols.
func Sizes(family numbench.Family, shapes [][]int) ([]numbench.Size, error) {
	for _, s := range shapes {
		if len(s) == 0 {
			return nil, fmt.Errorf("%s: empty shape", family)
		}
		for _, d := range s {
			if d <= 0 {
				return nil, fmt.Errorf("%s: non-positive dimension in %v", family, s)
			}
		}
	}
	switch family {
	case numbench.FamilySimple:
		lengths := make([]int, len(shapes))
		for i, s := range shapes {
			lengths[i] = numbench.Size{Shape: s}.Elems()
		}
		return flatSizes(lengths), nil
	case numbench.FamilyAxis, numbench.FamilyAxes, numbench.FamilyRepeat:
		sides := make([]int, len(shapes))
		for i, s := range shapes {
			sides[i] = s[0]
		}
		return cubeSizes(sides, 4), nil
	case numbench.FamilySlice:
		for _, s := range shapes {
			if len(s) != 3 {
				return nil, fmt.Errorf("slice shapes must be 3-d, got %v", s)
			}
		}
		return shapeSizes(shapes), nil
	case numbench.FamilyLinalg:
		sizes := make([]numbench.Size, len(shapes))
		for i, s := range shapes {
			if len(s) > 2 {
				return nil, fmt.Errorf("matrix shape %v has more than two dimensions", s)
			}
			rows, cols := s[0], s[len(s)-1]
			if rows != cols {
				return nil, fmt.Errorf("matrix shape %v is not square", s)
			}
			sizes[i] = numbench.Size{Label: strconv.Itoa(rows), Shape: []int{rows, cols}}
		}
		return sizes, nil
	}
	return nil, fmt.Errorf("%w: %q", numbench.ErrUnknownFamily, family)
}

func simplePlan() numbench.Plan {
	ops := make([]numbench.Op, 0, len(unaryOps)+len(binaryOps))
	ops = append(ops, unaryOps...)
	ops = append(ops, binaryOps...)
	return numbench.Plan{Family: numbench.FamilySimple, Sizes: flatSizes(defaultLengths), Ops: ops}
}

func axisPlan() numbench.Plan {
	type axisFn func(name string, axis int, r ndarray.Reducer) numbench.Op
	fns := []struct {
		name string
		fn   axisFn
		r    ndarray.Reducer
	}{
		{"max", Reduce, ndarray.Max},
		{"sum", Reduce, ndarray.Sum},
		{"prod", Reduce, ndarray.Prod},
		{"cumprod", Accumulate, ndarray.Prod},
		{"cummax", Accumulate, ndarray.Max},
	}
	var ops []numbench.Op
	for _, f := range fns {
		for _, axis := range reduceAxis {
			ops = append(ops, f.fn(f.name, axis, f.r))
		}
	}
	return numbench.Plan{Family: numbench.FamilyAxis, Sizes: cubeSizes(axisSides, 4), Ops: ops}
}

func axesPlan() numbench.Plan {
	var ops []numbench.Op
	for _, axes := range sumAxes {
		ops = append(ops, ReduceAxes("sum_reduce", axes, ndarray.Sum))
	}
	return numbench.Plan{Family: numbench.FamilyAxes, Sizes: cubeSizes(axesSides, 4), Ops: ops}
}

func repeatPlan() numbench.Plan {
	var ops []numbench.Op
	for _, reps := range repeatReps {
		ops = append(ops, Tile(reps))
	}
	for _, reps := range repeatReps {
		ops = append(ops, Repeat(reps))
	}
	return numbench.Plan{Family: numbench.FamilyRepeat, Sizes: cubeSizes(repeatSides, 4), Ops: ops}
}

func slicePlan() numbench.Plan {
	ops := make([]numbench.Op, 0, len(sliceCases))
	for _, c := range sliceCases {
		ops = append(ops, GetSlice(c.expr, c.idx))
	}
	return numbench.Plan{Family: numbench.FamilySlice, Sizes: shapeSizes(sliceShapes), Ops: ops}
}

func linalgPlan() numbench.Plan {
	sizes := make([]numbench.Size, len(matrixSides))
	for i, n := range matrixSides {
		sizes[i] = numbench.Size{Label: strconv.Itoa(n), Shape: []int{n, n}}
	}
	return numbench.Plan{Family: numbench.FamilyLinalg, Sizes: sizes, Ops: linalgOps}
}

// Plans returns the default plan of every family in report order.
func Plans() []numbench.Plan {
	return []numbench.Plan{simplePlan(), axisPlan(), axesPlan(), repeatPlan(), slicePlan(), linalgPlan()}
}

// Plan returns the default plan of one family.
func Plan(family numbench.Family) (numbench.Plan, error) {
	for _, p := range Plans() {
		if p.Family == family {
			return p, nil
		}
	}
	return numbench.Plan{}, fmt.Errorf("%w: %q", numbench.ErrUnknownFamily, family)
}

// Filter narrows plan to the op labelled label.
func Filter(plan numbench.Plan, label string) (numbench.Plan, error) {
	for _, op := range plan.Ops {
		if op.Label.String() == label {
			plan.Ops = []numbench.Op{op}
			return plan, nil
		}
	}
	return numbench.Plan{}, fmt.Errorf("%s: no op labelled %q", plan.Family, label)
}

// FilterSize narrows plan to the size labelled label.
func FilterSize(plan numbench.Plan, label string) (numbench.Plan, error) {
	for _, sz := range plan.Sizes {
		if sz.Label == label {
			plan.Sizes = []numbench.Size{sz}
			return plan, nil
		}
	}
	return numbench.Plan{}, fmt.Errorf("%s: no size labelled %q", plan.Family, label)
}
