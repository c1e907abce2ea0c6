package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "info", "json")

	logger.Debug("hidden")
	logger.Info("figure saved", "path", "temperature.png")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "figure saved", line["msg"])
	assert.Equal(t, "temperature.png", line["path"])
}

func TestNewLogger_TextDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "DEBUG", "text")

	logger.Debug("panel drawn", "model", "ERA5")

	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "model=ERA5")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}

func TestMetricsForTesting_Independent(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.RendersTotal.WithLabelValues(OutcomeSuccess).Inc()
	a.PanelsDrawn.Add(4)

	assert.InDelta(t, 1.0, testutil.ToFloat64(a.RendersTotal.WithLabelValues(OutcomeSuccess)), 0)
	assert.InDelta(t, 4.0, testutil.ToFloat64(a.PanelsDrawn), 0)
	assert.InDelta(t, 0.0, testutil.ToFloat64(b.PanelsDrawn), 0)
}

func TestWriteToTextfile(t *testing.T) {
	m := NewMetricsForTesting()
	reg := prometheus.NewRegistry()
	reg.MustRegister(m.PanelsDrawn, m.ConfigWarnings)
	m.PanelsDrawn.Add(3)
	m.ConfigWarnings.WithLabelValues(WarningModelCount).Inc()

	path := filepath.Join(t.TempDir(), "tempmaps.prom")
	require.NoError(t, prometheus.WriteToTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "tempmaps_panels_drawn_total 3")
	assert.Contains(t, string(data), `tempmaps_config_warnings_total{kind="model_count"} 1`)
}
