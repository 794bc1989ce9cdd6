// Package numops defines the benchmarked operations and the default test
// plans. Every operation is a thin call into gonum (floats, mat) or into
// the ndarray package built on it.
package numops

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/tiancaiamao/numbench"
	"github.com/tiancaiamao/numbench/internal/ndarray"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Library is the name reports produced by these operations carry.
const Library = "gonum"

func uniform(rng *rand.Rand, n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = rng.Float64()
	}
	return s
}

func mapTo(fn func(float64) float64) func(dst, src []float64) {
	return func(dst, src []float64) {
		for i, v := range src {
			dst[i] = fn(v)
		}
	}
}

func zipTo(fn func(x, y float64) float64) func(dst, s, t []float64) {
	return func(dst, s, t []float64) {
		for i := range dst {
			dst[i] = fn(s[i], t[i])
		}
	}
}

// Unary times fn over one fresh array of sz.Elems() values.
func Unary(name string, fn func(dst, src []float64)) numbench.Op {
	return numbench.Op{
		Label: numbench.Label{Name: name},
		Prepare: func(rng *rand.Rand, sz numbench.Size) (numbench.Call, error) {
			src := uniform(rng, sz.Elems())
			return func() error {
				dst := make([]float64, len(src))
				fn(dst, src)
				return nil
			}, nil
		},
	}
}

// Binary times fn over two fresh arrays of matching length.
func Binary(name string, fn func(dst, s, t []float64)) numbench.Op {
	return numbench.Op{
		Label: numbench.Label{Name: name},
		Prepare: func(rng *rand.Rand, sz numbench.Size) (numbench.Call, error) {
			s := uniform(rng, sz.Elems())
			t := uniform(rng, sz.Elems())
			return func() error {
				dst := make([]float64, len(s))
				fn(dst, s, t)
				return nil
			}, nil
		},
	}
}

func randArray(rng *rand.Rand, sz numbench.Size) (*ndarray.Array, error) {
	if len(sz.Shape) == 0 {
		return nil, fmt.Errorf("size %s has no shape", sz.Label)
	}
	return ndarray.Rand(rng, sz.Shape...), nil
}

// Reduce collapses one axis of a random array.
func Reduce(name string, axis int, r ndarray.Reducer) numbench.Op {
	return axisOp(name, axis, func(a *ndarray.Array) (*ndarray.Array, error) {
		return a.Reduce(axis, r)
	})
}

// Accumulate computes the running reduction along one axis.
func Accumulate(name string, axis int, r ndarray.Reducer) numbench.Op {
	return axisOp(name, axis, func(a *ndarray.Array) (*ndarray.Array, error) {
		return a.Accumulate(axis, r)
	})
}

func axisOp(name string, axis int, fn func(*ndarray.Array) (*ndarray.Array, error)) numbench.Op {
	return numbench.Op{
		Label: numbench.Label{Name: name, Key: "axis", Value: fmt.Sprint(axis)},
		Prepare: func(rng *rand.Rand, sz numbench.Size) (numbench.Call, error) {
			a, err := randArray(rng, sz)
			if err != nil {
				return nil, err
			}
			return func() error {
				_, err := fn(a)
				return err
			}, nil
		},
	}
}

// ReduceAxes collapses several axes at once.
func ReduceAxes(name string, axes []int, r ndarray.Reducer) numbench.Op {
	axes = slices.Clone(axes)
	return numbench.Op{
		Label: numbench.Label{Name: name, Key: "axes", Value: numbench.JoinInts(axes)},
		Prepare: func(rng *rand.Rand, sz numbench.Size) (numbench.Call, error) {
			a, err := randArray(rng, sz)
			if err != nil {
				return nil, err
			}
			return func() error {
				_, err := a.ReduceAxes(axes, r)
				return err
			}, nil
		},
	}
}

// Tile repeats a ones-filled array as a whole.
func Tile(reps []int) numbench.Op {
	reps = slices.Clone(reps)
	return reshapeOp("tile", reps, func(a *ndarray.Array) (*ndarray.Array, error) {
		return a.Tile(reps)
	})
}

// Repeat repeats every element of a ones-filled array along each axis.
func Repeat(reps []int) numbench.Op {
	reps = slices.Clone(reps)
	return reshapeOp("repeat", reps, func(a *ndarray.Array) (*ndarray.Array, error) {
		return a.RepeatAxes(reps)
	})
}

func reshapeOp(name string, reps []int, fn func(*ndarray.Array) (*ndarray.Array, error)) numbench.Op {
	return numbench.Op{
		Label: numbench.Label{Name: name, Key: "axes", Value: numbench.JoinInts(reps)},
		Prepare: func(_ *rand.Rand, sz numbench.Size) (numbench.Call, error) {
			if len(sz.Shape) == 0 {
				return nil, fmt.Errorf("size %s has no shape", sz.Label)
			}
			a := ndarray.Ones(sz.Shape...)
			return func() error {
				_, err := fn(a)
				return err
			}, nil
		},
	}
}

// GetSlice copies the part of a random array selected by idx. expr is the
// index expression as written in report labels.
func GetSlice(expr string, idx []ndarray.Index) numbench.Op {
	idx = slices.Clone(idx)
	return numbench.Op{
		Label: numbench.Label{Name: "get_slice", Key: "index", Value: expr},
		Prepare: func(rng *rand.Rand, sz numbench.Size) (numbench.Call, error) {
			a, err := randArray(rng, sz)
			if err != nil {
				return nil, err
			}
			return func() error {
				_, err := a.Slice(idx)
				return err
			}, nil
		},
	}
}

// Linalg times fn on a random square matrix of side sz.Shape[0].
func Linalg(name string, fn func(x *mat.Dense) error) numbench.Op {
	return numbench.Op{
		Label: numbench.Label{Name: name},
		Prepare: func(rng *rand.Rand, sz numbench.Size) (numbench.Call, error) {
			if len(sz.Shape) != 2 {
				return nil, fmt.Errorf("size %s is not a matrix shape", sz.Label)
			}
			r, c := sz.Shape[0], sz.Shape[1]
			x := mat.NewDense(r, c, uniform(rng, r*c))
			return func() error { return fn(x) }, nil
		},
	}
}

func matmul(x *mat.Dense) error {
	var c mat.Dense
	c.Mul(x, x)
	return nil
}

// inv fails only on an exactly singular matrix. A finite condition number
// means the inverse was still computed.
func inv(x *mat.Dense) error {
	var c mat.Dense
	err := c.Inverse(x)
	var cond mat.Condition
	if errors.As(err, &cond) && !math.IsInf(float64(cond), 1) {
		return nil
	}
	return err
}

func eigvals(x *mat.Dense) error {
	var e mat.Eigen
	if !e.Factorize(x, mat.EigenNone) {
		return fmt.Errorf("eigen decomposition did not converge")
	}
	e.Values(nil)
	return nil
}

func svd(x *mat.Dense) error {
	var s mat.SVD
	if !s.Factorize(x, mat.SVDFull) {
		return fmt.Errorf("svd did not converge")
	}
	return nil
}

func lu(x *mat.Dense) error {
	var f mat.LU
	f.Factorize(x)
	return nil
}

func qr(x *mat.Dense) error {
	var f mat.QR
	f.Factorize(x)
	return nil
}

func sigmoid(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

func sortTo(dst, src []float64) {
	copy(dst, src)
	slices.Sort(dst)
}

var unaryOps = []numbench.Op{
	Unary("copy", func(dst, src []float64) { copy(dst, src) }),
	Unary("abs", mapTo(math.Abs)),
	Unary("exp", mapTo(math.Exp)),
	Unary("log", mapTo(math.Log)),
	Unary("sqrt", mapTo(math.Sqrt)),
	Unary("cbrt", mapTo(math.Cbrt)),
	Unary("sin", mapTo(math.Sin)),
	Unary("tan", mapTo(math.Tan)),
	Unary("asin", mapTo(math.Asin)),
	Unary("sinh", mapTo(math.Sinh)),
	Unary("asinh", mapTo(math.Asinh)),
	Unary("round", mapTo(math.RoundToEven)),
	Unary("sort", sortTo),
	Unary("sigmoid", mapTo(sigmoid)),
}

var binaryOps = []numbench.Op{
	Binary("add", func(dst, s, t []float64) { floats.AddTo(dst, s, t) }),
	Binary("mul", func(dst, s, t []float64) { floats.MulTo(dst, s, t) }),
	Binary("div", func(dst, s, t []float64) { floats.DivTo(dst, s, t) }),
	Binary("pow", zipTo(math.Pow)),
	Binary("hypot", zipTo(math.Hypot)),
	Binary("min2", zipTo(math.Min)),
	Binary("fmod", zipTo(math.Mod)),
}

var linalgOps = []numbench.Op{
	Linalg("matmul", matmul),
	Linalg("inv", inv),
	Linalg("eigvals", eigvals),
	Linalg("svd", svd),
	Linalg("lu", lu),
	Linalg("qr", qr),
}
