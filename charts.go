package numbench

import (
	"fmt"
)

// Chart is a backend-neutral description of one comparison chart.
type Chart struct {
	Title  string
	XLabel string
	YLabel string
	LogX   bool
	// Categories label the x positions. X holds their numeric values when
	// the axis is numeric and is nil for a categorical axis.
	Categories []string
	X          []float64
	Series     []Series
}

type Series struct {
	Name string
	Mean []float64
	Std  []float64
}

var xLabels = map[Family]string{
	FamilySimple: "Input array size",
	FamilyAxis:   "Single dimension size for a 4d array input",
	FamilyAxes:   "Single dimension size for a 4d array input",
	FamilyRepeat: "Single dimension size for a 4d array input",
	FamilySlice:  "Index",
	FamilyLinalg: "Height and width size of input matrix",
}

// BuildCharts regroups the reports of one family, one report per library, into
// charts. Rows are matched by label; every label of the first report must be
// present in the others, and all reports must share the same size axis.
func BuildCharts(family Family, reports []*Report) ([]Chart, error) {
	if len(reports) == 0 {
		return nil, nil
	}
	base := reports[0]
	for _, r := range reports[1:] {
		if len(r.Sizes) != len(base.Sizes) {
			return nil, fmt.Errorf("%s: %s has %d sizes, %s has %d",
				family, r.Library, len(r.Sizes), base.Library, len(base.Sizes))
		}
		for _, row := range base.Rows {
			if _, ok := r.Row(row.Label); !ok {
				return nil, fmt.Errorf("%s: row %q missing from %s", family, row.Label, r.Library)
			}
		}
	}

	switch family {
	case FamilySimple, FamilyLinalg:
		return perRowCharts(family, reports), nil
	case FamilyAxis, FamilyAxes, FamilyRepeat:
		return perNameCharts(family, reports)
	case FamilySlice:
		return sliceCharts(reports)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFamily, family)
}

func newChart(family Family, title string, sizes *Report) Chart {
	c := Chart{
		Title:      title,
		XLabel:     xLabels[family],
		YLabel:     "Time(ms)",
		Categories: sizes.Sizes,
	}
	if xs, ok := sizes.SizeValues(); ok {
		c.X = xs
	}
	return c
}

func perRowCharts(family Family, reports []*Report) []Chart {
	base := reports[0]
	charts := make([]Chart, 0, len(base.Rows))
	for _, row := range base.Rows {
		c := newChart(family, row.Label, base)
		c.LogX = c.X != nil
		for _, r := range reports {
			lr, _ := r.Row(row.Label)
			c.Series = append(c.Series, Series{Name: r.Library, Mean: lr.Means(), Std: lr.Stds()})
		}
		charts = append(charts, c)
	}
	return charts
}

// perNameCharts draws one chart per operation name, with a series for every
// (parameter, library) pair: "gonum, axis=3".
func perNameCharts(family Family, reports []*Report) ([]Chart, error) {
	base := reports[0]
	var names []string
	params := make(map[string][]Label)
	for _, row := range base.Rows {
		l, err := ParseLabel(row.Label)
		if err != nil {
			return nil, err
		}
		if _, ok := params[l.Name]; !ok {
			names = append(names, l.Name)
		}
		params[l.Name] = append(params[l.Name], l)
	}

	charts := make([]Chart, 0, len(names))
	for _, name := range names {
		c := newChart(family, name, base)
		for _, l := range params[name] {
			for _, r := range reports {
				row, _ := r.Row(l.String())
				sname := r.Library
				if l.Key != "" {
					sname += ", " + l.Key + "=" + l.Value
				}
				c.Series = append(c.Series, Series{Name: sname, Mean: row.Means(), Std: row.Stds()})
			}
		}
		charts = append(charts, c)
	}
	return charts, nil
}

// sliceCharts transposes the slice reports: the index expressions become the
// x axis and every (size, library) pair is a series.
func sliceCharts(reports []*Report) ([]Chart, error) {
	base := reports[0]
	c := Chart{
		Title:  "get_slice",
		XLabel: xLabels[FamilySlice],
		YLabel: "Time(ms)",
	}
	for _, row := range base.Rows {
		l, err := ParseLabel(row.Label)
		if err != nil {
			return nil, err
		}
		c.Categories = append(c.Categories, l.Value)
	}
	for k, size := range base.Sizes {
		for _, r := range reports {
			s := Series{Name: r.Library + ", " + size}
			for _, brow := range base.Rows {
				row, _ := r.Row(brow.Label)
				s.Mean = append(s.Mean, row.Stats[k].Mean)
				s.Std = append(s.Std, row.Stats[k].Std)
			}
			c.Series = append(c.Series, s)
		}
	}
	return []Chart{c}, nil
}
