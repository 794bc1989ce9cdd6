package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tiancaiamao/numbench"
	"github.com/tiancaiamao/numbench/internal/chart"
	"github.com/tiancaiamao/numbench/internal/config"
	"github.com/tiancaiamao/numbench/internal/store"
	"github.com/tiancaiamao/numbench/internal/telemetry"
)

func main() {
	var cfgFile, htmlFile string
	pflag.StringVar(&cfgFile, "config", "", "config file (default is ./numbench.yaml)")
	pflag.BoolP("verbose", "v", false, "Enable debug logging")
	pflag.String("data", "data", "directory holding <family>_<library>.csv reports")
	pflag.StringSlice("libs", []string{"gonum"}, "libraries to compare, in legend order")
	pflag.String("fig", "fig", "directory for PNG charts")
	pflag.StringVar(&htmlFile, "html", "", "also write an interactive page here, std next to it")
	pflag.Parse()

	viper.BindPFlag("verbose", pflag.Lookup("verbose"))
	viper.BindPFlag("data_dir", pflag.Lookup("data"))
	viper.BindPFlag("libraries", pflag.Lookup("libs"))
	viper.BindPFlag("fig_dir", pflag.Lookup("fig"))

	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := telemetry.InitLogger(cfg.Verbose)

	paths, err := draw(cfg, htmlFile)
	if err != nil {
		telemetry.LogError("draw failed", err)
		os.Exit(1)
	}
	for _, p := range paths {
		logger.Info("written", "path", p)
	}
}

// draw renders the reports of cfg.Libraries found in cfg.DataDir and
// returns every file it wrote.
func draw(cfg *config.Config, htmlFile string) ([]string, error) {
	reports, err := store.NewFileStore(cfg.DataDir).LoadAll()
	if err != nil {
		return nil, err
	}
	groups := store.ByFamily(store.Select(reports, cfg.Libraries), cfg.Libraries)
	if len(groups) == 0 {
		return nil, fmt.Errorf("no reports for %s in %s", strings.Join(cfg.Libraries, ","), cfg.DataDir)
	}

	var (
		written []string
		all     []numbench.Chart
	)
	for _, family := range numbench.Families {
		rs, ok := groups[family]
		if !ok {
			continue
		}
		charts, err := numbench.BuildCharts(family, rs)
		if err != nil {
			return written, err
		}
		paths, err := chart.SavePNG(cfg.FigDir, string(family)+"_", charts)
		written = append(written, paths...)
		if err != nil {
			return written, err
		}
		all = append(all, charts...)
	}

	if htmlFile != "" {
		title := strings.Join(cfg.Libraries, " vs ")
		if err := chart.WriteHTML(htmlFile, chart.NewPage(title, all, chart.Mean)); err != nil {
			return written, err
		}
		stdFile := strings.TrimSuffix(htmlFile, filepath.Ext(htmlFile)) + "_std" + filepath.Ext(htmlFile)
		if err := chart.WriteHTML(stdFile, chart.NewPage(title, all, chart.Std)); err != nil {
			return written, err
		}
		written = append(written, htmlFile, stdFile)
	}
	return written, nil
}
