package chart

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/tiancaiamao/numbench"
)

// Value picks which statistic of a series a page shows.
type Value int

const (
	Mean Value = iota
	Std
)

func (v Value) String() string {
	if v == Std {
		return "std"
	}
	return "mean"
}

func (v Value) of(s numbench.Series) []float64 {
	if v == Std {
		return s.Std
	}
	return s.Mean
}

func globalOpts(c numbench.Chart, v Value) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: c.Title, Subtitle: v.String()}),
		charts.WithXAxisOpts(opts.XAxis{Name: c.XLabel}),
		charts.WithYAxisOpts(opts.YAxis{Name: c.YLabel}),
		charts.WithLegendOpts(opts.Legend{Show: true}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
	}
}

func lineChart(c numbench.Chart, v Value) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(globalOpts(c, v)...)
	line.SetXAxis(c.Categories)
	for _, s := range c.Series {
		data := make([]opts.LineData, 0, len(s.Mean))
		for _, y := range v.of(s) {
			data = append(data, opts.LineData{Value: y})
		}
		line.AddSeries(s.Name, data)
	}
	return line
}

func barChart(c numbench.Chart, v Value) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOpts(c, v)...)
	bar.SetXAxis(c.Categories)
	for _, s := range c.Series {
		data := make([]opts.BarData, 0, len(s.Mean))
		for _, y := range v.of(s) {
			data = append(data, opts.BarData{Value: y})
		}
		bar.AddSeries(s.Name, data)
	}
	return bar
}

// NewPage lays out one chart per descriptor. Numeric size axes are drawn as
// lines, categorical ones as grouped bars.
func NewPage(title string, cs []numbench.Chart, v Value) *components.Page {
	page := components.NewPage()
	page.PageTitle = title
	for _, c := range cs {
		if c.X == nil {
			page.AddCharts(barChart(c, v))
		} else {
			page.AddCharts(lineChart(c, v))
		}
	}
	return page
}

// Render writes the page to w.
func Render(w io.Writer, page *components.Page) error {
	return page.Render(w)
}

// WriteHTML renders the page to path.
func WriteHTML(path string, page *components.Page) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := page.Render(f); err != nil {
		f.Close()
		return fmt.Errorf("render %s: %w", path, err)
	}
	return f.Close()
}
