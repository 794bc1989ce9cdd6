package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tiancaiamao/numbench"
	"github.com/tiancaiamao/numbench/internal/config"
	"github.com/tiancaiamao/numbench/internal/numops"
	"github.com/tiancaiamao/numbench/internal/telemetry"
)

type options struct {
	family  string
	op      string
	size    string
	ms      string
	cfgFile string
}

func usage() {
	fmt.Println(`Usage:
    bisect --family simple --op add --size 1e6 --ms low,high
    Or: bisect --family axis --op "max(axis=0)" --size 60`)
	os.Exit(-1)
}

func newFlagSet() (*pflag.FlagSet, *options) {
	var o options
	fs := pflag.NewFlagSet("bisect", pflag.ContinueOnError)
	fs.StringVar(&o.family, "family", "", "family of the operation")
	fs.StringVar(&o.op, "op", "", "row label of the operation")
	fs.StringVar(&o.size, "size", "", "size label as shown in the report header")
	fs.StringVar(&o.ms, "ms", "", "specify the good,bad mean time range in milliseconds")
	fs.StringVar(&o.cfgFile, "config", "", "config file (default is ./numbench.yaml)")
	fs.Int("trials", numbench.DefaultTrials, "trials")
	fs.Uint64("seed", 0, "input generator seed, 0 for unseeded")
	return fs, &o
}

func main() {
	fs, o := newFlagSet()
	if err := fs.Parse(os.Args[1:]); err != nil {
		fmt.Println(err)
		usage()
	}
	viper.BindPFlag("trials", fs.Lookup("trials"))
	viper.BindPFlag("seed", fs.Lookup("seed"))

	if o.family == "" || o.op == "" || o.size == "" {
		usage()
	}
	from, to, err := parseNumberPair(o.ms)
	if err != nil {
		fmt.Println(err)
		usage()
	}
	if len(o.ms) > 0 && from >= to {
		fmt.Println("ms from >= to", from, to, o.ms)
		usage()
	}

	cfg, err := config.Load(o.cfgFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(-1)
	}
	telemetry.InitLogger(cfg.Verbose)

	s, err := measure(cfg, o.family, o.op, o.size)
	if err != nil {
		// git bisect run: 125 skips a commit that cannot be tested
		telemetry.LogError("measure", err)
		os.Exit(125)
	}

	if len(o.ms) > 0 {
		// compare the mean with [from, to], and decide it's a good or bad case
		os.Exit(goodOrBad(s.Mean, from, to))
	}
	fmt.Printf("%s %s at %s: mean = %.4f ms, std = %.4f ms\n", o.family, o.op, o.size, s.Mean, s.Std)
}

// measure runs one row of one family at one size.
func measure(cfg *config.Config, familyName, label, sizeLabel string) (numbench.Summary, error) {
	f, err := numbench.ParseFamily(familyName)
	if err != nil {
		return numbench.Summary{}, err
	}
	plan, err := cfg.Plan(f)
	if err != nil {
		return numbench.Summary{}, err
	}
	if plan, err = numops.Filter(plan, label); err != nil {
		return numbench.Summary{}, err
	}
	if plan, err = numops.FilterSize(plan, sizeLabel); err != nil {
		return numbench.Summary{}, err
	}

	runner := numbench.NewRunner(cfg.Library, cfg.Seed)
	runner.Trials = cfg.Trials
	report, err := runner.RunPlan(plan)
	if err != nil {
		return numbench.Summary{}, err
	}
	return report.Rows[0].Stats[0], nil
}

func parseNumberPair(str string) (float64, float64, error) {
	if str == "" {
		return 0, 0, nil
	}
	tmp := strings.Split(str, ",")
	if len(tmp) != 2 {
		return 0, 0, fmt.Errorf("range %q is not low,high", str)
	}
	from, err := strconv.ParseFloat(strings.TrimSpace(tmp[0]), 64)
	if err != nil {
		return 0, 0, err
	}
	to, err := strconv.ParseFloat(strings.TrimSpace(tmp[1]), 64)
	if err != nil {
		return 0, 0, err
	}
	return from, to, nil
}

// Return 1~127 if the current source is bad (value near to to)
// Return 0 for a good case (val near to from)
func goodOrBad(val, from, to float64) int {
	if val > to {
		return 1
	}
	if val < from {
		return 0
	}

	if val > (from+to)/2 {
		return 1
	}
	return 0
}
