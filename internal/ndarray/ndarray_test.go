package ndarray

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seq returns an array holding 0, 1, 2, ... in row-major order.
func seq(shape ...int) *Array {
	a := New(shape...)
	for i := range a.Data {
		a.Data[i] = float64(i)
	}
	return a
}

func TestRandRange(t *testing.T) {
	a := Rand(rand.New(rand.NewPCG(1, 2)), 4, 5)
	assert.Equal(t, []int{4, 5}, a.Shape)
	require.Len(t, a.Data, 20)
	for _, v := range a.Data {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestReduce(t *testing.T) {
	a := seq(2, 3)
	// [[0 1 2] [3 4 5]]
	tests := []struct {
		axis  int
		r     Reducer
		shape []int
		want  []float64
	}{
		{0, Sum, []int{3}, []float64{3, 5, 7}},
		{1, Sum, []int{2}, []float64{3, 12}},
		{0, Prod, []int{3}, []float64{0, 4, 10}},
		{1, Prod, []int{2}, []float64{0, 60}},
		{0, Max, []int{3}, []float64{3, 4, 5}},
		{1, Max, []int{2}, []float64{2, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.r.String(), func(t *testing.T) {
			out, err := a.Reduce(tt.axis, tt.r)
			require.NoError(t, err)
			assert.Equal(t, tt.shape, out.Shape)
			assert.Equal(t, tt.want, out.Data)
		})
	}

	_, err := a.Reduce(2, Sum)
	assert.Error(t, err)
}

func TestReduceFourD(t *testing.T) {
	a := seq(2, 3, 4, 5)
	first, err := a.Reduce(0, Sum)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4, 5}, first.Shape)
	// element (1,2,3) sums a[0,1,2,3] and a[1,1,2,3]
	assert.Equal(t, a.At(0, 1, 2, 3)+a.At(1, 1, 2, 3), first.At(1, 2, 3))

	last, err := a.Reduce(3, Max)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 4}, last.Shape)
	assert.Equal(t, a.At(1, 2, 3, 4), last.At(1, 2, 3))
}

func TestReduceAxes(t *testing.T) {
	a := seq(2, 3, 4, 5)
	out, err := a.ReduceAxes([]int{0, 3}, Sum)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4}, out.Shape)

	var want float64
	for i := range 2 {
		for l := range 5 {
			want += a.At(i, 1, 2, l)
		}
	}
	assert.Equal(t, want, out.At(1, 2))

	_, err = a.ReduceAxes([]int{1, 1}, Sum)
	assert.Error(t, err)
}

func TestAccumulate(t *testing.T) {
	a := &Array{Shape: []int{2, 3}, Data: []float64{1, 3, 2, 4, 1, 5}}

	p, err := a.Accumulate(1, Prod)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3, 6, 4, 4, 20}, p.Data)

	m, err := a.Accumulate(1, Max)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3, 3, 4, 4, 5}, m.Data)

	m0, err := a.Accumulate(0, Max)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3, 2, 4, 3, 5}, m0.Data)

	p0, err := a.Accumulate(0, Prod)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3, 2, 4, 3, 10}, p0.Data)
}

func TestRepeat(t *testing.T) {
	a := seq(2, 2)
	out, err := a.Repeat(1, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4}, out.Shape)
	assert.Equal(t, []float64{0, 0, 1, 1, 2, 2, 3, 3}, out.Data)

	out, err = a.Repeat(0, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 0, 1, 2, 3, 2, 3}, out.Data)

	out, err = a.RepeatAxes([]int{2, 3})
	require.NoError(t, err)
	assert.Equal(t, []int{4, 6}, out.Shape)
	assert.Equal(t, 3.0, out.At(3, 5))
}

func TestTile(t *testing.T) {
	a := seq(2, 2)
	out, err := a.Tile([]int{2, 3})
	require.NoError(t, err)
	assert.Equal(t, []int{4, 6}, out.Shape)
	assert.Equal(t, []float64{0, 1, 0, 1, 0, 1}, out.Data[:6])
	assert.Equal(t, a.At(1, 1), out.At(3, 5))

	// reps shorter than ndim are padded with leading ones
	out, err = a.Tile([]int{2})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4}, out.Shape)
	assert.Equal(t, []float64{0, 1, 0, 1, 2, 3, 2, 3}, out.Data)

	out, err = seq(3).Tile([]int{2, 1})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, out.Shape)
}

func TestPositions(t *testing.T) {
	tests := []struct {
		name string
		ix   Index
		n    int
		want []int
	}{
		{"all", All(), 4, []int{0, 1, 2, 3}},
		{"drop last", Span(0, -1), 4, []int{0, 1, 2}},
		{"reverse to 1", SpanStep(-1, 0, -1), 4, []int{3, 2, 1}},
		{"reverse step 2", SpanStep(-1, 0, -2), 5, []int{4, 2}},
		{"first", Span(0, 1), 4, []int{0}},
		{"out of range stop", Span(1, 100), 3, []int{1, 2}},
		{"empty", Span(3, 1), 4, nil},
		{"pick last", Pick(-1), 4, []int{3}},
		{"pick first", Pick(0), 4, []int{0}},
		{"reverse all", Index{Step: -1}, 3, []int{2, 1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.ix.Positions(tt.n)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Pick(4).Positions(4)
	assert.Error(t, err)
}

func TestSlice(t *testing.T) {
	a := seq(2, 3, 4)
	out, err := a.Slice([]Index{SpanStep(-1, 0, -1), All(), Span(0, 1)})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 1}, out.Shape)
	assert.Equal(t, []float64{12, 16, 20}, out.Data)

	out, err = a.Slice([]Index{All(), SpanStep(-1, 0, -1), SpanStep(-1, 0, -2)})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 2}, out.Shape)
	assert.Equal(t, a.At(0, 2, 3), out.At(0, 0, 0))
	assert.Equal(t, a.At(1, 1, 1), out.At(1, 1, 1))

	out, err = a.Slice([]Index{Pick(-1), All(), All()})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 4}, out.Shape)
	assert.Equal(t, a.Data[12:], out.Data)

	_, err = a.Slice([]Index{All()})
	assert.Error(t, err)
}
