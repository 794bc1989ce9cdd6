package ndarray

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
)

// Reducer combines values along an axis.
type Reducer int

const (
	Sum Reducer = iota
	Prod
	Max
)

func (r Reducer) String() string {
	switch r {
	case Sum:
		return "sum"
	case Prod:
		return "prod"
	case Max:
		return "max"
	}
	return fmt.Sprintf("Reducer(%d)", int(r))
}

// combine folds src into dst elementwise.
func (r Reducer) combine(dst, src []float64) {
	switch r {
	case Sum:
		floats.Add(dst, src)
	case Prod:
		floats.Mul(dst, src)
	case Max:
		for i, v := range src {
			if v > dst[i] {
				dst[i] = v
			}
		}
	}
}

func (r Reducer) fold(s []float64) float64 {
	switch r {
	case Sum:
		return floats.Sum(s)
	case Prod:
		return floats.Prod(s)
	default:
		if len(s) == 0 {
			return math.Inf(-1)
		}
		return floats.Max(s)
	}
}

// Reduce collapses axis, returning an array with that axis removed.
func (a *Array) Reduce(axis int, r Reducer) (*Array, error) {
	if err := a.checkAxis(axis); err != nil {
		return nil, err
	}
	if a.Shape[axis] == 0 && r == Max {
		return nil, fmt.Errorf("max of an empty axis")
	}
	outer, n, inner := a.split(axis)
	shape := slices.Delete(slices.Clone(a.Shape), axis, axis+1)
	out := New(shape...)

	if n == 0 {
		if r == Prod {
			for i := range out.Data {
				out.Data[i] = 1
			}
		}
		return out, nil
	}
	if inner == 1 {
		for o := range outer {
			out.Data[o] = r.fold(a.Data[o*n : (o+1)*n])
		}
		return out, nil
	}
	for o := range outer {
		dst := out.Data[o*inner : (o+1)*inner]
		src := a.Data[o*n*inner:]
		copy(dst, src[:inner])
		for k := 1; k < n; k++ {
			r.combine(dst, src[k*inner:(k+1)*inner])
		}
	}
	return out, nil
}

// ReduceAxes collapses every axis in axes. Axes may be given in any order
// but must be distinct.
func (a *Array) ReduceAxes(axes []int, r Reducer) (*Array, error) {
	sorted := slices.Clone(axes)
	slices.Sort(sorted)
	if len(slices.Compact(slices.Clone(sorted))) != len(sorted) {
		return nil, fmt.Errorf("duplicate axis in %v", axes)
	}
	out := a
	// highest axis first so the remaining indices stay valid
	for i := len(sorted) - 1; i >= 0; i-- {
		var err error
		out, err = out.Reduce(sorted[i], r)
		if err != nil {
			return nil, err
		}
	}
	if out == a {
		out = &Array{Shape: slices.Clone(a.Shape), Data: slices.Clone(a.Data)}
	}
	return out, nil
}

// Accumulate returns the running reduction along axis; the result has the
// same shape as a. Only Prod and Max are used by the benchmarks but Sum
// works too.
func (a *Array) Accumulate(axis int, r Reducer) (*Array, error) {
	if err := a.checkAxis(axis); err != nil {
		return nil, err
	}
	outer, n, inner := a.split(axis)
	out := New(a.Shape...)
	if n == 0 {
		return out, nil
	}

	for o := range outer {
		base := o * n * inner
		if inner == 1 {
			dst := out.Data[base : base+n]
			src := a.Data[base : base+n]
			switch r {
			case Sum:
				floats.CumSum(dst, src)
			case Prod:
				floats.CumProd(dst, src)
			default:
				dst[0] = src[0]
				for k := 1; k < n; k++ {
					dst[k] = math.Max(dst[k-1], src[k])
				}
			}
			continue
		}
		copy(out.Data[base:base+inner], a.Data[base:base+inner])
		for k := 1; k < n; k++ {
			dst := out.Data[base+k*inner : base+(k+1)*inner]
			copy(dst, out.Data[base+(k-1)*inner:base+k*inner])
			r.combine(dst, a.Data[base+k*inner:base+(k+1)*inner])
		}
	}
	return out, nil
}
