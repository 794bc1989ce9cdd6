package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiancaiamao/numbench"
	"github.com/tiancaiamao/numbench/internal/config"
)

func writeReport(t *testing.T, dir string, family numbench.Family, lib string, sizes []string, labels ...string) {
	t.Helper()
	r := &numbench.Report{Family: family, Library: lib, Sizes: sizes}
	for i, l := range labels {
		row := numbench.Row{Label: l}
		for k := range sizes {
			row.Stats = append(row.Stats, numbench.Summary{Mean: float64(i + k + 1), Std: 0.1})
		}
		r.Rows = append(r.Rows, row)
	}
	_, err := numbench.WriteReportFile(dir, r)
	require.NoError(t, err)
}

func TestDraw(t *testing.T) {
	root := t.TempDir()
	data := filepath.Join(root, "data")
	flat := []string{"10", "100", "1e4"}
	writeReport(t, data, numbench.FamilySimple, "gonum", flat, "add", "exp")
	writeReport(t, data, numbench.FamilySimple, "np", flat, "exp", "add")
	writeReport(t, data, numbench.FamilySimple, "owl", flat, "add")
	writeReport(t, data, numbench.FamilyAxis, "gonum", []string{"10", "20"}, "max(axis=0)", "max(axis=3)")
	writeReport(t, data, numbench.FamilyAxis, "np", []string{"10", "20"}, "max(axis=0)", "max(axis=3)")

	cfg := &config.Config{
		DataDir:   data,
		FigDir:    filepath.Join(root, "fig"),
		Libraries: []string{"gonum", "np"},
	}
	html := filepath.Join(root, "index.html")
	written, err := draw(cfg, html)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(cfg.FigDir, "simple_0.png"),
		filepath.Join(cfg.FigDir, "simple_1.png"),
		filepath.Join(cfg.FigDir, "axis_0.png"),
		html,
		filepath.Join(root, "index_std.html"),
	}, written)
	for _, p := range written {
		_, err := os.Stat(p)
		assert.NoError(t, err, p)
	}
}

func TestDrawMissingRow(t *testing.T) {
	root := t.TempDir()
	data := filepath.Join(root, "data")
	writeReport(t, data, numbench.FamilySimple, "gonum", []string{"10"}, "add", "exp")
	writeReport(t, data, numbench.FamilySimple, "owl", []string{"10"}, "add")

	cfg := &config.Config{DataDir: data, FigDir: filepath.Join(root, "fig"), Libraries: []string{"gonum", "owl"}}
	_, err := draw(cfg, "")
	assert.ErrorContains(t, err, `"exp" missing from owl`)

	cfg.Libraries = []string{"julia"}
	_, err = draw(cfg, "")
	assert.ErrorContains(t, err, "no reports")
}
