package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tiancaiamao/numbench/internal/config"
	"github.com/tiancaiamao/numbench/internal/telemetry"
)

var exit = os.Exit

type app struct {
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "opeval",
		Short: "Time numeric array operations and write comparison reports",
		Long: `opeval benchmarks elementwise math, axis reductions, repeat/tile,
slicing and linear algebra, and writes one <family>_<library>.csv report
per operation family.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.cfgFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = telemetry.InitLogger(cfg.Verbose)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./numbench.yaml)")
	root.PersistentFlags().BoolP("verbose", "v", false, "log every measurement")
	viper.BindPFlag("verbose", root.PersistentFlags().Lookup("verbose"))

	root.AddCommand(newRunCmd(a), newListCmd(a))
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		telemetry.LogError("opeval failed", err)
		exit(1)
	}
}
