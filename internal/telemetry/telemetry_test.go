package telemetry

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiancaiamao/numbench"
)

func TestInitLogger(t *testing.T) {
	old := slog.Default()
	defer slog.SetDefault(old)

	var buf bytes.Buffer
	initLogger(&buf, false)
	slog.Debug("hidden")
	slog.Info("shown", "op", "add")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "op=add")

	buf.Reset()
	initLogger(&buf, true)
	slog.Debug("measured", "mean_ms", 1.5)
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "mean_ms=1.5")

	buf.Reset()
	LogError("write failed", errors.New("disk full"), "path", "x.csv")
	assert.Contains(t, buf.String(), "error=\"disk full\"")
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.Observe(numbench.FamilySimple, "add", numbench.Size{Label: "10"}, numbench.Summary{Mean: 0.5})
	m.Observe(numbench.FamilySimple, "mul", numbench.Size{Label: "10"}, numbench.Summary{Mean: 0.7})
	m.RecordUpload(&numbench.Report{Family: numbench.FamilyLinalg, Library: "gonum"})
	m.RecordRebuild(nil)
	m.RecordRebuild(errors.New("bad report"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SummariesTotal.WithLabelValues("simple")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReportsUploaded.WithLabelValues("linalg", "gonum")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.PageRebuilds))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RebuildErrors))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "numbench_page_rebuilds_total 2")
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Observe(numbench.FamilySimple, "add", numbench.Size{}, numbench.Summary{})
		m.RecordUpload(&numbench.Report{})
		m.RecordRebuild(nil)
	})
}
