package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	_ "net/http/pprof"
	"os"
	"strings"
	"sync"

	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tiancaiamao/numbench"
	"github.com/tiancaiamao/numbench/internal/chart"
	"github.com/tiancaiamao/numbench/internal/config"
	"github.com/tiancaiamao/numbench/internal/store"
	"github.com/tiancaiamao/numbench/internal/telemetry"
)

const maxUpload = 8 << 20

type server struct {
	store     store.Store
	libraries []string
	metrics   *telemetry.Metrics
	logger    *slog.Logger

	mu       sync.RWMutex
	mainPage *components.Page
	stdPage  *components.Page
}

func newServer(st store.Store, libraries []string, metrics *telemetry.Metrics, logger *slog.Logger) *server {
	return &server{store: st, libraries: libraries, metrics: metrics, logger: logger}
}

func (s *server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.mainHandle)
	mux.HandleFunc("/std", s.stdHandle)
	mux.HandleFunc("/upload", s.uploadHandle)
	mux.Handle("/metrics", s.metrics.Handler())
	return mux
}

func (s *server) mainHandle(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	chart.Render(w, s.mainPage)
}

func (s *server) stdHandle(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chart.Render(w, s.stdPage)
}

func (s *server) uploadHandle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method should be POST", http.StatusMethodNotAllowed)
		return
	}
	defer r.Body.Close()

	var b numbench.BenchOutput
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUpload))
	if err := dec.Decode(&b); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := checkUpload(&b); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.store.Save(b.Report); err != nil {
		s.logger.Error("save upload", "family", b.Report.Family, "library", b.Report.Library, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.metrics.RecordUpload(b.Report)
	s.logger.Info("report uploaded", "family", b.Report.Family, "library", b.Report.Library,
		"date", b.Date, "commit", b.Commit, "rows", len(b.Report.Rows))

	if err := s.reGeneratePage(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func checkUpload(b *numbench.BenchOutput) error {
	if b.Report == nil {
		return fmt.Errorf("missing report")
	}
	if _, err := numbench.ParseFamily(string(b.Report.Family)); err != nil {
		return err
	}
	if b.Report.Library == "" || strings.ContainsAny(b.Report.Library, "_,/") {
		return fmt.Errorf("invalid library name %q", b.Report.Library)
	}
	return b.Report.Validate()
}

// reGeneratePage rebuilds both pages from the store. A family whose
// reports do not line up is left out and logged.
func (s *server) reGeneratePage() error {
	reports, err := s.store.LoadAll()
	if err != nil {
		s.metrics.RecordRebuild(err)
		return err
	}
	groups := store.ByFamily(reports, s.libraries)

	var all []numbench.Chart
	var buildErr error
	for _, family := range numbench.Families {
		rs, ok := groups[family]
		if !ok {
			continue
		}
		charts, err := numbench.BuildCharts(family, rs)
		if err != nil {
			s.logger.Warn("skip family", "family", family, "error", err)
			buildErr = err
			continue
		}
		all = append(all, charts...)
	}
	s.metrics.RecordRebuild(buildErr)

	tmpMainPage := chart.NewPage("numbench", all, chart.Mean)
	tmpStdPage := chart.NewPage("numbench std", all, chart.Std)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.mainPage = tmpMainPage
	s.stdPage = tmpStdPage
	return nil
}

func openStore(cfg *config.Config) (store.Store, error) {
	if cfg.DSN != "" {
		return store.OpenSQLStore(cfg.DSN)
	}
	return store.NewFileStore(cfg.DataDir), nil
}

func main() {
	var cfgFile string
	pflag.StringVar(&cfgFile, "config", "", "config file (default is ./numbench.yaml)")
	pflag.BoolP("verbose", "v", false, "Enable debug logging")
	pflag.String("data", "data", "report directory, used when no DSN is given")
	pflag.String("addr", ":18081", "listen address")
	pflag.String("dsn", "", "MySQL DSN for the report store")
	pflag.StringSlice("libs", []string{"gonum"}, "legend order of libraries")
	pflag.Parse()

	viper.BindPFlag("verbose", pflag.Lookup("verbose"))
	viper.BindPFlag("data_dir", pflag.Lookup("data"))
	viper.BindPFlag("addr", pflag.Lookup("addr"))
	viper.BindPFlag("dsn", pflag.Lookup("dsn"))
	viper.BindPFlag("libraries", pflag.Lookup("libs"))

	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := telemetry.InitLogger(cfg.Verbose)

	st, err := openStore(cfg)
	if err != nil {
		telemetry.LogError("open store", err)
		os.Exit(1)
	}
	s := newServer(st, cfg.Libraries, telemetry.NewMetrics(nil), logger)
	if err := s.reGeneratePage(); err != nil {
		telemetry.LogError("load reports", err)
		os.Exit(1)
	}

	// pprof registers on the default mux
	http.Handle("/", s.routes())
	logger.Info("listening", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, nil); err != nil {
		telemetry.LogError("serve", err)
		os.Exit(1)
	}
}
