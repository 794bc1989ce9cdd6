// Package ndarray is a minimal row-major N-dimensional float64 array. It
// provides the shape manipulations gonum has no N-d equivalent for (axis
// reductions, repeat, tile and strided slicing); contiguous inner loops are
// delegated to gonum's floats package.
package ndarray

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

type Array struct {
	Shape []int
	Data  []float64
}

func numel(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// New returns a zero-filled array.
func New(shape ...int) *Array {
	return &Array{Shape: slices.Clone(shape), Data: make([]float64, numel(shape))}
}

// Rand returns an array of values drawn uniformly from [0, 1).
func Rand(rng *rand.Rand, shape ...int) *Array {
	a := New(shape...)
	for i := range a.Data {
		a.Data[i] = rng.Float64()
	}
	return a
}

func Ones(shape ...int) *Array {
	a := New(shape...)
	for i := range a.Data {
		a.Data[i] = 1
	}
	return a
}

func (a *Array) Size() int { return len(a.Data) }

func (a *Array) Ndim() int { return len(a.Shape) }

// At returns the element at the given index. Intended for tests and small
// inspections, not inner loops.
func (a *Array) At(idx ...int) float64 {
	off := 0
	for i, x := range idx {
		off = off*a.Shape[i] + x
	}
	return a.Data[off]
}

// split returns the number of elements before, along and after axis.
func (a *Array) split(axis int) (outer, n, inner int) {
	outer = numel(a.Shape[:axis])
	n = a.Shape[axis]
	inner = numel(a.Shape[axis+1:])
	return
}

func (a *Array) checkAxis(axis int) error {
	if axis < 0 || axis >= len(a.Shape) {
		return fmt.Errorf("axis %d out of range for %d-d array", axis, len(a.Shape))
	}
	return nil
}
