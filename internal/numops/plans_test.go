package numops

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tiancaiamao/numbench"
)

func labels(p numbench.Plan) []string {
	out := make([]string, len(p.Ops))
	for i, op := range p.Ops {
		out[i] = op.Label.String()
	}
	return out
}

func sizeLabels(p numbench.Plan) []string {
	out := make([]string, len(p.Sizes))
	for i, s := range p.Sizes {
		out[i] = s.Label
	}
	return out
}

func TestPlans(t *testing.T) {
	plans := Plans()
	require.Len(t, plans, len(numbench.Families))
	for i, p := range plans {
		assert.Equal(t, numbench.Families[i], p.Family)
		assert.NotEmpty(t, p.Sizes)
		assert.NotEmpty(t, p.Ops)
	}

	simple, err := Plan(numbench.FamilySimple)
	require.NoError(t, err)
	assert.Equal(t, []string{"10", "100", "1000", "1e4", "1e5", "2e5", "4e5", "6e5", "8e5", "1e6"}, sizeLabels(simple))
	assert.Len(t, simple.Ops, 21)
	assert.Equal(t, "copy", simple.Ops[0].Label.String())
	assert.Equal(t, "fmod", simple.Ops[20].Label.String())

	axis, err := Plan(numbench.FamilyAxis)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"max(axis=0)", "max(axis=3)", "sum(axis=0)", "sum(axis=3)", "prod(axis=0)", "prod(axis=3)",
		"cumprod(axis=0)", "cumprod(axis=3)", "cummax(axis=0)", "cummax(axis=3)",
	}, labels(axis))
	assert.Equal(t, []int{60, 60, 60, 60}, axis.Sizes[5].Shape)

	axes, err := Plan(numbench.FamilyAxes)
	require.NoError(t, err)
	assert.Equal(t, []string{"sum_reduce(axes=0*3)", "sum_reduce(axes=0*2)"}, labels(axes))
	assert.Len(t, axes.Sizes, 7)

	repeat, err := Plan(numbench.FamilyRepeat)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"tile(axes=1*1*1*5)", "tile(axes=1*4*4*1)", "tile(axes=3*3*3*1)",
		"repeat(axes=1*1*1*5)", "repeat(axes=1*4*4*1)", "repeat(axes=3*3*3*1)",
	}, labels(repeat))

	slice, err := Plan(numbench.FamilySlice)
	require.NoError(t, err)
	assert.Equal(t, []string{"10*300*3000", "3000*300*10"}, sizeLabels(slice))
	assert.Equal(t, "get_slice(index=[[0;-1]; []; []])", slice.Ops[0].Label.String())
	assert.Len(t, slice.Ops, 8)

	linalg, err := Plan(numbench.FamilyLinalg)
	require.NoError(t, err)
	assert.Equal(t, []string{"matmul", "inv", "eigvals", "svd", "lu", "qr"}, labels(linalg))

	_, err = Plan("nope")
	assert.ErrorIs(t, err, numbench.ErrUnknownFamily)
}

func TestLabelsParse(t *testing.T) {
	for _, p := range Plans() {
		for _, op := range p.Ops {
			l, err := numbench.ParseLabel(op.Label.String())
			require.NoError(t, err, op.Label.String())
			assert.Equal(t, op.Label, l)
		}
	}
}

func TestCountLabel(t *testing.T) {
	assert.Equal(t, "10", CountLabel(10))
	assert.Equal(t, "9999", CountLabel(9999))
	assert.Equal(t, "1e4", CountLabel(10000))
	assert.Equal(t, "6e5", CountLabel(600000))
	assert.Equal(t, "12000", CountLabel(12000))
}

func TestSizes(t *testing.T) {
	sizes, err := Sizes(numbench.FamilySimple, [][]int{{8}, {100000}})
	require.NoError(t, err)
	assert.Equal(t, "1e5", sizes[1].Label)

	sizes, err = Sizes(numbench.FamilyAxis, [][]int{{3}})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 3, 3, 3}, sizes[0].Shape)

	sizes, err = Sizes(numbench.FamilyLinalg, [][]int{{4}, {5, 5}})
	require.NoError(t, err)
	assert.Equal(t, []int{4, 4}, sizes[0].Shape)
	assert.Equal(t, "5", sizes[1].Label)

	_, err = Sizes(numbench.FamilyLinalg, [][]int{{4, 5}})
	assert.Error(t, err)
	_, err = Sizes(numbench.FamilySlice, [][]int{{4, 5}})
	assert.Error(t, err)
	_, err = Sizes(numbench.FamilySimple, [][]int{{0}})
	assert.Error(t, err)
}

// smallShapes keeps every op cheap enough to run in unit tests.
var smallShapes = map[numbench.Family][][]int{
	numbench.FamilySimple: {{7}, {16}},
	numbench.FamilyAxis:   {{2}, {3}},
	numbench.FamilyAxes:   {{2}, {3}},
	numbench.FamilyRepeat: {{2}},
	numbench.FamilySlice:  {{2, 3, 4}, {4, 3, 2}},
	numbench.FamilyLinalg: {{3}, {6}},
}

func TestEveryOpRuns(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	for _, p := range Plans() {
		sizes, err := Sizes(p.Family, smallShapes[p.Family])
		require.NoError(t, err)
		for _, op := range p.Ops {
			for _, sz := range sizes {
				call, err := op.Prepare(rng, sz)
				require.NoError(t, err, "%s %s", op.Label, sz.Label)
				assert.NoError(t, call(), "%s %s", op.Label, sz.Label)
			}
		}
	}
}

func TestFilter(t *testing.T) {
	p, err := Plan(numbench.FamilyAxis)
	require.NoError(t, err)

	one, err := Filter(p, "sum(axis=3)")
	require.NoError(t, err)
	require.Len(t, one.Ops, 1)
	assert.Equal(t, p.Sizes, one.Sizes)

	one, err = FilterSize(one, "30")
	require.NoError(t, err)
	require.Len(t, one.Sizes, 1)
	assert.Equal(t, []int{30, 30, 30, 30}, one.Sizes[0].Shape)

	_, err = Filter(p, "sum")
	assert.Error(t, err)
	_, err = FilterSize(p, "1e6")
	assert.Error(t, err)
}

func TestRunSmallPlanShape(t *testing.T) {
	p, err := Plan(numbench.FamilyRepeat)
	require.NoError(t, err)
	p.Sizes, err = Sizes(p.Family, [][]int{{2}, {3}, {4}})
	require.NoError(t, err)

	run := func() *numbench.Report {
		r := numbench.NewRunner(Library, 42)
		r.Trials = 4
		rep, err := r.RunPlan(p)
		require.NoError(t, err)
		return rep
	}
	a, b := run(), run()
	assert.Equal(t, a.Sizes, b.Sizes)
	require.Len(t, a.Rows, len(p.Ops))
	require.Len(t, b.Rows, len(p.Ops))
	for i := range a.Rows {
		assert.Equal(t, a.Rows[i].Label, b.Rows[i].Label)
		assert.Len(t, a.Rows[i].Stats, 3)
	}
}
