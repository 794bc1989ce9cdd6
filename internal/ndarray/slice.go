package ndarray

import (
	"fmt"
)

// Index selects positions along one axis using Python slice semantics
// (negative positions count from the end, negative steps walk backwards), or
// an explicit list of positions when List is non-nil.
type Index struct {
	Start, Stop       int
	HasStart, HasStop bool
	Step              int
	List              []int
}

// All selects the whole axis: [:].
func All() Index { return Index{Step: 1} }

// Span selects [start:stop].
func Span(start, stop int) Index { return SpanStep(start, stop, 1) }

// SpanStep selects [start:stop:step].
func SpanStep(start, stop, step int) Index {
	return Index{Start: start, Stop: stop, HasStart: true, HasStop: true, Step: step}
}

// Pick selects the listed positions and keeps the axis.
func Pick(pos ...int) Index { return Index{List: pos} }

// Positions resolves the index against an axis of length n.
func (ix Index) Positions(n int) ([]int, error) {
	if ix.List != nil {
		out := make([]int, len(ix.List))
		for i, p := range ix.List {
			if p < 0 {
				p += n
			}
			if p < 0 || p >= n {
				return nil, fmt.Errorf("index %d out of range for axis of length %d", ix.List[i], n)
			}
			out[i] = p
		}
		return out, nil
	}

	step := ix.Step
	if step == 0 {
		step = 1
	}
	var start, stop int
	if step > 0 {
		start, stop = 0, n
		if ix.HasStart {
			start = clamp(ix.Start, n, 0, n)
		}
		if ix.HasStop {
			stop = clamp(ix.Stop, n, 0, n)
		}
	} else {
		start, stop = n-1, -1
		if ix.HasStart {
			start = clamp(ix.Start, n, -1, n-1)
		}
		if ix.HasStop {
			stop = clamp(ix.Stop, n, -1, n-1)
		}
	}

	var out []int
	for i := start; (step > 0 && i < stop) || (step < 0 && i > stop); i += step {
		out = append(out, i)
	}
	return out, nil
}

// clamp maps a possibly negative position onto [lo, hi].
func clamp(p, n, lo, hi int) int {
	if p < 0 {
		p += n
	}
	if p < lo {
		return lo
	}
	if p > hi {
		return hi
	}
	return p
}

// Slice copies the selected elements into a new array. Every axis must have
// an index; the result keeps all axes.
func (a *Array) Slice(idx []Index) (*Array, error) {
	if len(idx) != a.Ndim() {
		return nil, fmt.Errorf("%d indices for %d-d array", len(idx), a.Ndim())
	}
	pos := make([][]int, len(idx))
	shape := make([]int, len(idx))
	for d, ix := range idx {
		p, err := ix.Positions(a.Shape[d])
		if err != nil {
			return nil, fmt.Errorf("axis %d: %w", d, err)
		}
		pos[d] = p
		shape[d] = len(p)
	}
	out := New(shape...)
	if out.Size() == 0 {
		return out, nil
	}
	if len(idx) == 0 {
		copy(out.Data, a.Data)
		return out, nil
	}

	strides := make([]int, len(a.Shape))
	s := 1
	for d := len(a.Shape) - 1; d >= 0; d-- {
		strides[d] = s
		s *= a.Shape[d]
	}

	last := len(pos) - 1
	contiguous := isRun(pos[last])
	w := 0
	var gather func(d, off int)
	gather = func(d, off int) {
		if d == last {
			if contiguous {
				start := off + pos[d][0]
				w += copy(out.Data[w:], a.Data[start:start+len(pos[d])])
				return
			}
			for _, p := range pos[d] {
				out.Data[w] = a.Data[off+p]
				w++
			}
			return
		}
		for _, p := range pos[d] {
			gather(d+1, off+p*strides[d])
		}
	}
	gather(0, 0)
	return out, nil
}

// isRun reports whether positions are consecutive and ascending.
func isRun(p []int) bool {
	for i := 1; i < len(p); i++ {
		if p[i] != p[i-1]+1 {
			return false
		}
	}
	return true
}
