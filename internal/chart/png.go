// Package chart draws chart descriptors as PNG files with gonum/plot or as
// interactive HTML pages with go-echarts.
package chart

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/tiancaiamao/numbench"
)

const (
	width  = 8 * vg.Inch
	height = 5 * vg.Inch
)

type errPoints struct {
	plotter.XYs
	plotter.YErrors
}

// Colors returns n colors from a qualitative brewer palette, cycling when
// n exceeds the palette.
func Colors(n int) ([]color.Color, error) {
	const maxColors = 12
	k := min(max(n, 3), maxColors)
	p, err := brewer.GetPalette(brewer.TypeQualitative, "Paired", k)
	if err != nil {
		return nil, err
	}
	base := p.Colors()
	res := make([]color.Color, n)
	for i := range res {
		res[i] = base[i%len(base)]
	}
	return res, nil
}

// NewPlot draws one chart: a line with points and y error bars (± std) per
// series. Categorical charts are laid out at nominal x positions.
func NewPlot(c numbench.Chart) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel
	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.Padding = 1 * vg.Millimeter

	xs := c.X
	if xs == nil {
		xs = make([]float64, len(c.Categories))
		for i := range xs {
			xs[i] = float64(i)
		}
		p.NominalX(c.Categories...)
	} else {
		if c.LogX {
			p.X.Scale = plot.LogScale{}
		}
		ticks := make([]plot.Tick, len(xs))
		for i := range xs {
			ticks[i] = plot.Tick{Value: xs[i], Label: c.Categories[i]}
		}
		p.X.Tick.Marker = plot.ConstantTicks(ticks)
	}

	colors, err := Colors(len(c.Series))
	if err != nil {
		return nil, err
	}
	for i, s := range c.Series {
		if len(s.Mean) != len(xs) || len(s.Std) != len(xs) {
			return nil, fmt.Errorf("chart %q series %q: %d points for %d x values",
				c.Title, s.Name, len(s.Mean), len(xs))
		}
		pts := errPoints{XYs: make(plotter.XYs, len(xs)), YErrors: make(plotter.YErrors, len(xs))}
		for k := range xs {
			pts.XYs[k].X = xs[k]
			pts.XYs[k].Y = s.Mean[k]
			pts.YErrors[k].Low = s.Std[k]
			pts.YErrors[k].High = s.Std[k]
		}

		line, points, err := plotter.NewLinePoints(pts.XYs)
		if err != nil {
			return nil, fmt.Errorf("chart %q series %q: %w", c.Title, s.Name, err)
		}
		line.Color = colors[i]
		line.Width = vg.Points(1.5)
		points.Color = colors[i]
		points.Shape = plotutil.Shape(i)

		bars, err := plotter.NewYErrorBars(pts)
		if err != nil {
			return nil, fmt.Errorf("chart %q series %q: %w", c.Title, s.Name, err)
		}
		bars.Color = colors[i]

		p.Add(line, points, bars)
		p.Legend.Add(s.Name, line, points)
	}
	return p, nil
}

// SavePNG writes charts to dir as <prefix><n>.png and returns the paths.
func SavePNG(dir, prefix string, charts []numbench.Chart) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(charts))
	for i, c := range charts {
		p, err := NewPlot(c)
		if err != nil {
			return paths, err
		}
		path := filepath.Join(dir, fmt.Sprintf("%s%d.png", prefix, i))
		if err := p.Save(width, height, path); err != nil {
			return paths, fmt.Errorf("save %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
