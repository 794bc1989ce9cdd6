package main

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tiancaiamao/numbench"
	"github.com/tiancaiamao/numbench/internal/telemetry"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		writeJSON   bool
		commit      string
		metricsAddr string
	)
	cmd := &cobra.Command{
		Use:   "run [family...]",
		Short: "Benchmark the given families, or all of them",
		Example: `  opeval run
  opeval run simple linalg --trials 10 --out data`,
		RunE: func(cmd *cobra.Command, args []string) error {
			families, err := parseFamilies(args)
			if err != nil {
				return err
			}

			metrics := telemetry.NewMetrics(nil)
			if metricsAddr != "" {
				srv := &http.Server{Addr: metricsAddr, Handler: metrics.Handler()}
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						telemetry.LogError("metrics server", err, "addr", metricsAddr)
					}
				}()
				defer srv.Close()
			}

			for _, family := range families {
				plan, err := a.cfg.Plan(family)
				if err != nil {
					return err
				}
				runner := numbench.NewRunner(a.cfg.Library, a.cfg.Seed)
				runner.Trials = a.cfg.Trials
				runner.Logger = a.logger
				runner.Observe = metrics.Observe

				a.logger.Info("running", "family", family, "ops", len(plan.Ops), "sizes", len(plan.Sizes), "trials", runner.Trials)
				start := time.Now()
				report, err := runner.RunPlan(plan)
				if err != nil {
					return err
				}
				path, err := numbench.WriteReportFile(a.cfg.OutDir, report)
				if err != nil {
					return fmt.Errorf("write %s report: %w", family, err)
				}
				a.logger.Info("report written", "family", family, "path", path, "elapsed", time.Since(start).Round(time.Millisecond))

				if writeJSON {
					out := numbench.BenchOutput{
						Date:   numbench.DateString(time.Now()),
						Commit: commit,
						Report: report,
					}
					jsonPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".json"
					if err := numbench.WriteJSONFile(jsonPath, out); err != nil {
						return fmt.Errorf("write %s: %w", jsonPath, err)
					}
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}
	cmd.Flags().String("out", ".", "directory for report files")
	cmd.Flags().String("library", "gonum", "library name recorded in file names")
	cmd.Flags().Int("trials", numbench.DefaultTrials, "trials per operation and size")
	cmd.Flags().Uint64("seed", 0, "input generator seed, 0 for unseeded")
	cmd.Flags().BoolVar(&writeJSON, "json", false, "also write a JSON upload envelope next to each report")
	cmd.Flags().StringVar(&commit, "commit", "", "commit recorded in the JSON envelope")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running")

	viper.BindPFlag("out_dir", cmd.Flags().Lookup("out"))
	viper.BindPFlag("library", cmd.Flags().Lookup("library"))
	viper.BindPFlag("trials", cmd.Flags().Lookup("trials"))
	viper.BindPFlag("seed", cmd.Flags().Lookup("seed"))
	return cmd
}

func parseFamilies(args []string) ([]numbench.Family, error) {
	if len(args) == 0 {
		return numbench.Families, nil
	}
	families := make([]numbench.Family, 0, len(args))
	for _, arg := range args {
		f, err := numbench.ParseFamily(arg)
		if err != nil {
			return nil, err
		}
		families = append(families, f)
	}
	return families, nil
}
