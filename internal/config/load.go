package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/tiancaiamao/numbench"
	"github.com/tiancaiamao/numbench/internal/numops"
)

// Config is the resolved configuration shared by all commands.
type Config struct {
	Trials    int
	Seed      uint64
	Library   string
	OutDir    string
	DataDir   string
	FigDir    string
	Libraries []string
	Addr      string
	DSN       string
	Verbose   bool
}

// SetDefaults registers the default value of every key.
func SetDefaults() {
	viper.SetDefault("trials", numbench.DefaultTrials)
	viper.SetDefault("seed", 0)
	viper.SetDefault("library", numops.Library)
	viper.SetDefault("out_dir", ".")
	viper.SetDefault("data_dir", "data")
	viper.SetDefault("fig_dir", "fig")
	viper.SetDefault("libraries", []string{numops.Library})
	viper.SetDefault("addr", ":18081")
	viper.SetDefault("dsn", "")
	viper.SetDefault("verbose", false)
}

// Load reads .env, the optional config file and NUMBENCH_* environment
// variables into viper. Without cfgFile, numbench.yaml in the working
// directory is used when present.
func Load(cfgFile string) (*Config, error) {
	// a missing .env is fine
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("numbench")
	}

	viper.SetEnvPrefix("NUMBENCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	SetDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
	return Current()
}

// Current builds a Config from what viper holds now, flags included.
func Current() (*Config, error) {
	c := &Config{
		Trials:    viper.GetInt("trials"),
		Seed:      viper.GetUint64("seed"),
		Library:   viper.GetString("library"),
		OutDir:    viper.GetString("out_dir"),
		DataDir:   viper.GetString("data_dir"),
		FigDir:    viper.GetString("fig_dir"),
		Libraries: viper.GetStringSlice("libraries"),
		Addr:      viper.GetString("addr"),
		DSN:       viper.GetString("dsn"),
		Verbose:   viper.GetBool("verbose"),
	}
	if c.Trials <= 0 {
		return nil, fmt.Errorf("trials must be positive, got %d", c.Trials)
	}
	if c.Library == "" || strings.ContainsAny(c.Library, ",_") {
		return nil, fmt.Errorf("library name %q must be non-empty without ',' or '_'", c.Library)
	}
	return c, nil
}

// Plan returns the default plan of family with its sizes replaced by
// sizes.<family> when configured.
func (c *Config) Plan(family numbench.Family) (numbench.Plan, error) {
	plan, err := numops.Plan(family)
	if err != nil {
		return plan, err
	}
	raw := viper.Get("sizes." + string(family))
	if raw == nil {
		return plan, nil
	}
	shapes, err := ParseShapes(raw)
	if err != nil {
		return plan, fmt.Errorf("sizes.%s: %w", family, err)
	}
	sizes, err := numops.Sizes(family, shapes)
	if err != nil {
		return plan, err
	}
	plan.Sizes = sizes
	return plan, nil
}

// ParseShapes accepts the forms a size list takes in YAML or the
// environment: [10, 100], [[10, 300, 3000]], or "10 100" and
// "10*300*3000,3000*300*10" as strings.
func ParseShapes(raw any) ([][]int, error) {
	if s, ok := raw.(string); ok {
		fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
		shapes := make([][]int, 0, len(fields))
		for _, f := range fields {
			shape, err := parseShape(f)
			if err != nil {
				return nil, err
			}
			shapes = append(shapes, shape)
		}
		return shapes, nil
	}

	items, err := cast.ToSliceE(raw)
	if err != nil {
		return nil, err
	}
	shapes := make([][]int, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			shape, err := parseShape(v)
			if err != nil {
				return nil, err
			}
			shapes = append(shapes, shape)
		case []any:
			shape, err := cast.ToIntSliceE(v)
			if err != nil {
				return nil, err
			}
			shapes = append(shapes, shape)
		default:
			n, err := cast.ToIntE(v)
			if err != nil {
				return nil, err
			}
			shapes = append(shapes, []int{n})
		}
	}
	return shapes, nil
}

func parseShape(s string) ([]int, error) {
	parts := strings.Split(s, "*")
	shape := make([]int, len(parts))
	for i, p := range parts {
		n, err := cast.ToIntE(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("shape %q: %w", s, err)
		}
		shape[i] = n
	}
	return shape, nil
}
