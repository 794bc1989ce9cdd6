package ndarray

import (
	"fmt"
	"slices"
)

// Repeat repeats every element count times along axis, like numpy.repeat.
func (a *Array) Repeat(axis, count int) (*Array, error) {
	if err := a.checkAxis(axis); err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, fmt.Errorf("negative repeat count %d", count)
	}
	outer, n, inner := a.split(axis)
	shape := slices.Clone(a.Shape)
	shape[axis] *= count
	out := New(shape...)

	dst := out.Data
	for o := range outer {
		for k := range n {
			block := a.Data[(o*n+k)*inner : (o*n+k+1)*inner]
			for range count {
				dst = dst[copy(dst, block):]
			}
		}
	}
	return out, nil
}

// RepeatAxes applies Repeat along every axis i with counts[i].
func (a *Array) RepeatAxes(counts []int) (*Array, error) {
	if len(counts) > a.Ndim() {
		return nil, fmt.Errorf("%d repeat counts for %d-d array", len(counts), a.Ndim())
	}
	out := a
	for axis, c := range counts {
		var err error
		out, err = out.Repeat(axis, c)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Tile repeats the whole array reps[i] times along axis i, like numpy.tile.
// Shorter reps are padded with leading ones; longer reps add leading axes.
func (a *Array) Tile(reps []int) (*Array, error) {
	shape := slices.Clone(a.Shape)
	for len(shape) < len(reps) {
		shape = slices.Insert(shape, 0, 1)
	}
	full := slices.Clone(reps)
	for len(full) < len(shape) {
		full = slices.Insert(full, 0, 1)
	}
	out := &Array{Shape: shape, Data: slices.Clone(a.Data)}

	for axis, r := range full {
		if r < 0 {
			return nil, fmt.Errorf("negative tile count %d", r)
		}
		if r == 1 {
			continue
		}
		outer, n, inner := out.split(axis)
		next := slices.Clone(out.Shape)
		next[axis] *= r
		tiled := New(next...)
		chunk := n * inner
		dst := tiled.Data
		for o := range outer {
			src := out.Data[o*chunk : (o+1)*chunk]
			for range r {
				dst = dst[copy(dst, src):]
			}
		}
		out = tiled
	}
	return out, nil
}
