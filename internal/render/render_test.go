package render

import (
	"bytes"
	"image"
	"image/color"
	_ "image/png"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ctessum/geom"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/couchcryptid/temperature-panels/internal/domain"
	"github.com/couchcryptid/temperature-panels/internal/geo"
	"github.com/couchcryptid/temperature-panels/internal/observability"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// field returns a lon/lat grid over Europe filled with v.
func field(v float64) domain.TemperatureField {
	lon := []float64{-10, 0, 10, 20, 30}
	lat := []float64{35, 45, 55, 65}
	values := make([][]float64, len(lat))
	for i := range values {
		values[i] = make([]float64, len(lon))
		for j := range values[i] {
			values[i][j] = v
		}
	}
	return domain.TemperatureField{Lon: lon, Lat: lat, Values: values}
}

func dataset(names ...string) *domain.ModelDataset {
	ds := &domain.ModelDataset{}
	for i, name := range names {
		ds.Set(name, field(float64(i)))
	}
	return ds
}

func newTestPlotter(t *testing.T, opts Options) (*Plotter, *observability.Metrics) {
	t.Helper()
	m := observability.NewMetricsForTesting()
	p, err := NewPlotter(opts, discardLogger(), m)
	require.NoError(t, err)
	return p, m
}

func panelNames(fig *Figure) []string {
	names := make([]string, len(fig.Panels))
	for i, p := range fig.Panels {
		names[i] = p.Model
	}
	return names
}

func TestBuild_FourModelsFillGridInOrder(t *testing.T) {
	p, m := newTestPlotter(t, DefaultOptions())

	fig, err := p.Build(dataset("ERA5", "ICON", "GFS", "ARPEGE"))
	require.NoError(t, err)

	assert.Equal(t, []string{"ERA5", "ICON", "GFS", "ARPEGE"}, panelNames(fig))
	assert.Equal(t, 0, fig.BlankPanels())
	assert.Empty(t, fig.Warnings)

	positions := [][2]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	for i, panel := range fig.Panels {
		assert.Equal(t, positions[i], [2]int{panel.Row, panel.Col}, panel.Model)
		assert.Equal(t, panel.Model, fig.cells[i].plot.Title.Text)
	}
	assert.InDelta(t, 4, testutil.ToFloat64(m.PanelsDrawn), 0)
}

func TestBuild_ThreeModelsLeaveOneBlankPanel(t *testing.T) {
	p, _ := newTestPlotter(t, DefaultOptions())

	fig, err := p.Build(dataset("ERA5", "ICON", "GFS"))
	require.NoError(t, err)

	assert.Len(t, fig.Panels, 3)
	assert.Equal(t, 1, fig.BlankPanels())
	assert.Nil(t, fig.cells[3])
	assert.Empty(t, fig.Warnings)
}

func TestBuild_FiveModelsDropTheFifth(t *testing.T) {
	p, m := newTestPlotter(t, DefaultOptions())

	fig, err := p.Build(dataset("A", "B", "C", "D", "E"))
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C", "D"}, panelNames(fig))
	require.Len(t, fig.Warnings, 1)
	assert.Contains(t, fig.Warnings[0], "dropping [E]")
	assert.InDelta(t, 1, testutil.ToFloat64(m.ModelsDropped), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ConfigWarnings.WithLabelValues(observability.WarningModelCount)), 0)
}

func TestBuild_EmptyDatasetWarns(t *testing.T) {
	p, _ := newTestPlotter(t, DefaultOptions())

	fig, err := p.Build(&domain.ModelDataset{})
	require.NoError(t, err)
	assert.Empty(t, fig.Panels)
	assert.Equal(t, 4, fig.BlankPanels())
	assert.Len(t, fig.Warnings, 1)
}

func TestBuild_ZeroFieldStatistics(t *testing.T) {
	opts := DefaultOptions()
	opts.VMin, opts.VMax = -1, 1
	p, _ := newTestPlotter(t, opts)

	fig, err := p.Build(domain.NewModelDataset(domain.ModelEntry{Name: "zero", Field: field(0)}))
	require.NoError(t, err)

	require.Len(t, fig.Panels, 1)
	require.NotNil(t, fig.Panels[0].Stats)
	assert.Equal(t, "RMSE: 0.0 \nBIAS: 0.0", fig.Panels[0].Stats.Label())
}

func TestBuild_StatisticsDisabled(t *testing.T) {
	opts := DefaultOptions()
	opts.ShowStatistics = false
	p, _ := newTestPlotter(t, opts)

	fig, err := p.Build(dataset("ERA5"))
	require.NoError(t, err)
	assert.Nil(t, fig.Panels[0].Stats)
}

func TestBuild_ValueRangeWarnings(t *testing.T) {
	opts := DefaultOptions()
	opts.VMin, opts.VMax = 5, -5
	p, m := newTestPlotter(t, opts)

	fig, err := p.Build(dataset("ERA5"))
	require.NoError(t, err)
	require.Len(t, fig.Warnings, 1)
	assert.Contains(t, fig.Warnings[0], "swapping")
	assert.InDelta(t, -5, fig.colorbar.min, 0)
	assert.InDelta(t, 5, fig.colorbar.max, 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ConfigWarnings.WithLabelValues(observability.WarningValueRange)), 0)
}

func TestBuild_InputShapeError(t *testing.T) {
	p, _ := newTestPlotter(t, DefaultOptions())

	bad := field(1)
	bad.Lon = bad.Lon[:3]
	ds := domain.NewModelDataset(
		domain.ModelEntry{Name: "ok", Field: field(1)},
		domain.ModelEntry{Name: "bad", Field: bad},
	)

	_, err := p.Build(ds)
	require.ErrorIs(t, err, domain.ErrInputShape)
	assert.Contains(t, err.Error(), "bad")
}

func TestBuild_DoesNotMutateField(t *testing.T) {
	p, _ := newTestPlotter(t, DefaultOptions())

	f := field(2)
	f.Lat = []float64{65, 55, 45, 35}
	ds := domain.NewModelDataset(domain.ModelEntry{Name: "desc", Field: f})

	_, err := p.Build(ds)
	require.NoError(t, err)
	assert.Equal(t, []float64{65, 55, 45, 35}, f.Lat)
}

func TestBuild_WithCoastlines(t *testing.T) {
	coast, err := geo.NewCoastlines(geom.LineString{{X: -5, Y: 40}, {X: 5, Y: 50}, {X: 25, Y: 60}})
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.Coastlines = coast
	p, _ := newTestPlotter(t, opts)

	fig, err := p.Build(dataset("ERA5", "ICON"))
	require.NoError(t, err)
	assert.Len(t, fig.Panels, 2)

	var buf bytes.Buffer
	_, err = fig.WriteTo(&buf)
	require.NoError(t, err)
}

func TestSave_WritesPNGAt200DPI(t *testing.T) {
	p, _ := newTestPlotter(t, DefaultOptions())
	fig, err := p.Build(dataset("ERA5", "ICON", "GFS", "ARPEGE"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "temperature.png")
	require.NoError(t, fig.Save(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, format, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 1280, cfg.Width)
	assert.Equal(t, 960, cfg.Height)
}

func TestSave_TwoCallsAreIndependent(t *testing.T) {
	p, _ := newTestPlotter(t, DefaultOptions())
	dir := t.TempDir()

	first, err := p.Build(dataset("A", "B", "C", "D"))
	require.NoError(t, err)
	require.NoError(t, first.Save(filepath.Join(dir, "first.png")))

	second, err := p.Build(dataset("X"))
	require.NoError(t, err)
	require.NoError(t, second.Save(filepath.Join(dir, "second.png")))

	assert.Equal(t, []string{"X"}, panelNames(second))
	assert.Equal(t, 3, second.BlankPanels())

	a, err := os.ReadFile(filepath.Join(dir, "first.png"))
	require.NoError(t, err)
	b, err := os.ReadFile(filepath.Join(dir, "second.png"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	// Saving the first figure again yields the same image.
	require.NoError(t, first.Save(filepath.Join(dir, "again.png")))
	again, err := os.ReadFile(filepath.Join(dir, "again.png"))
	require.NoError(t, err)
	assert.Equal(t, a, again)
}

func TestSave_UnwritablePath(t *testing.T) {
	p, _ := newTestPlotter(t, DefaultOptions())
	fig, err := p.Build(dataset("ERA5"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "missing", "temperature.png")
	err = fig.Save(path)
	require.ErrorIs(t, err, domain.ErrOutput)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NoFileExists(t, path)
}

func TestImage_PanelShowsOverflowColor(t *testing.T) {
	p, _ := newTestPlotter(t, DefaultOptions())
	fig, err := p.Build(domain.NewModelDataset(domain.ModelEntry{Name: "hot", Field: field(40)}))
	require.NoError(t, err)

	img := fig.Image()
	w, h, dpi := fig.Size()
	c := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi))
	area := fig.cellArea(draw.New(c), 0)
	center := area.Center()

	px := int(float64(center.X/vg.Inch) * float64(dpi))
	py := img.Bounds().Dy() - int(float64(center.Y/vg.Inch)*float64(dpi))
	r, g, b, _ := img.At(px, py).RGBA()
	assert.Greater(t, r, g, "panel center should be red")
	assert.Greater(t, r, b, "panel center should be red")
}

func TestNewPlotter_RejectsBadOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.Colormap = "jet"
	_, err := NewPlotter(opts, discardLogger(), observability.NewMetricsForTesting())
	require.ErrorIs(t, err, ErrUnknownColormap)

	opts = DefaultOptions()
	opts.Layout = Layout{}
	_, err = NewPlotter(opts, discardLogger(), observability.NewMetricsForTesting())
	require.Error(t, err)

	opts = DefaultOptions()
	opts.VMax = math.NaN()
	_, err = NewPlotter(opts, discardLogger(), observability.NewMetricsForTesting())
	require.Error(t, err)
}

func TestLayoutFor(t *testing.T) {
	tests := []struct {
		n    int
		want Layout
	}{
		{0, Layout{1, 1}},
		{1, Layout{1, 1}},
		{2, Layout{1, 2}},
		{3, Layout{2, 2}},
		{4, Layout{2, 2}},
		{5, Layout{2, 3}},
		{7, Layout{3, 3}},
		{10, Layout{3, 4}},
	}
	for _, tt := range tests {
		got := LayoutFor(tt.n)
		assert.Equal(t, tt.want, got, "n=%d", tt.n)
		assert.GreaterOrEqual(t, got.Capacity(), tt.n)
	}
}

func TestBuild_DynamicLayout(t *testing.T) {
	opts := DefaultOptions()
	opts.Layout = LayoutFor(5)
	p, _ := newTestPlotter(t, opts)

	fig, err := p.Build(dataset("A", "B", "C", "D", "E"))
	require.NoError(t, err)
	assert.Len(t, fig.Panels, 5)
	assert.Equal(t, 1, fig.BlankPanels())
	assert.Equal(t, 1, fig.Panels[4].Row)
	assert.Equal(t, 1, fig.Panels[4].Col)
}

func TestNormalizeRange(t *testing.T) {
	lo, hi, warn := normalizeRange(-15, 15)
	assert.Equal(t, [2]float64{-15, 15}, [2]float64{lo, hi})
	assert.Empty(t, warn)

	lo, hi, warn = normalizeRange(3, -3)
	assert.Equal(t, [2]float64{-3, 3}, [2]float64{lo, hi})
	assert.NotEmpty(t, warn)

	lo, hi, warn = normalizeRange(2, 2)
	assert.Equal(t, [2]float64{1, 3}, [2]float64{lo, hi})
	assert.NotEmpty(t, warn)
}

func TestLookupColormap(t *testing.T) {
	newMap, err := lookupColormap("CoolWarm")
	require.NoError(t, err)
	newReversed, err := lookupColormap("coolwarm_r")
	require.NoError(t, err)

	fwd, rev := newMap(), newReversed()
	for _, cm := range []palette.ColorMap{fwd, rev} {
		cm.SetMax(1)
		cm.SetMin(-1)
	}

	lowFwd, err := fwd.At(-1)
	require.NoError(t, err)
	highRev, err := rev.At(1)
	require.NoError(t, err)
	assert.Equal(t, rgba(lowFwd), rgba(highRev))

	_, err = lookupColormap("viridis")
	require.ErrorIs(t, err, ErrUnknownColormap)
	assert.Contains(t, Colormaps(), "coolwarm")
}

func rgba(c color.Color) [4]uint32 {
	r, g, b, a := c.RGBA()
	return [4]uint32{r, g, b, a}
}

func TestFieldGrid_ReordersDescendingCoordinates(t *testing.T) {
	f := domain.TemperatureField{
		Lon:    []float64{20, 10, 0},
		Lat:    []float64{50, 40},
		Values: [][]float64{{1, 2, 3}, {4, 5, 6}},
	}
	g, err := newFieldGrid(f, geo.PlateCarree())
	require.NoError(t, err)

	c, r := g.Dims()
	assert.Equal(t, 3, c)
	assert.Equal(t, 2, r)
	assert.Equal(t, []float64{0, 10, 20}, []float64{g.X(0), g.X(1), g.X(2)})
	assert.Equal(t, []float64{40, 50}, []float64{g.Y(0), g.Y(1)})
	// (lon 0, lat 40) is Values[1][2].
	assert.InDelta(t, 6, g.Z(0, 0), 0)
	assert.InDelta(t, 1, g.Z(2, 1), 0)

	assert.Equal(t, []float64{20, 10, 0}, f.Lon)
}

func TestCoastlineShifts(t *testing.T) {
	opts := DefaultOptions()
	opts.Projection = geo.PlateCarree()
	p, _ := newTestPlotter(t, opts)

	coast := []geo.Path{{{X: -180, Y: 0}, {X: 180, Y: 10}}}
	shifts, err := p.coastlineShifts(coast, 0, 360)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 360}, shifts)

	shifts, err = p.coastlineShifts(coast, -30, 30)
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, shifts)
}

func TestFitAspect(t *testing.T) {
	c := vgimg.NewWith(vgimg.UseWH(4*vg.Inch, 2*vg.Inch), vgimg.UseDPI(72))
	area := draw.New(c)

	got := fitAspect(area, 1, 0)
	size := got.Size()
	assert.InDelta(t, float64(2*vg.Inch), float64(size.X), 1e-6)
	assert.InDelta(t, float64(2*vg.Inch), float64(size.Y), 1e-6)
	assert.InDelta(t, float64(area.Center().X), float64(got.Center().X), 1e-6)
}

func TestBuild_IgnoresShapeOfDroppedModel(t *testing.T) {
	p, _ := newTestPlotter(t, DefaultOptions())

	ds := dataset("A", "B", "C", "D")
	bad := field(0)
	bad.Lat = bad.Lat[:1]
	ds.Set("E", bad)

	fig, err := p.Build(ds)
	require.NoError(t, err)
	assert.Len(t, fig.Panels, 4)
}

// globalField returns a 0..358° grid, the layout many climate models use,
// warm around the 180° meridian.
func globalField() domain.TemperatureField {
	lon := make([]float64, 180)
	for i := range lon {
		lon[i] = float64(2 * i)
	}
	lat := make([]float64, 17)
	for i := range lat {
		lat[i] = float64(-80 + 10*i)
	}
	values := make([][]float64, len(lat))
	for i := range values {
		values[i] = make([]float64, len(lon))
		for j := range values[i] {
			values[i][j] = 5 * math.Cos((lon[j]-180)*math.Pi/180)
		}
	}
	return domain.TemperatureField{Lon: lon, Lat: lat, Values: values}
}

func TestBuild_ZeroTo360GridOnMercator(t *testing.T) {
	p, _ := newTestPlotter(t, DefaultOptions())

	fig, err := p.Build(domain.NewModelDataset(domain.ModelEntry{Name: "global", Field: globalField()}))
	require.NoError(t, err)
	assert.Equal(t, []string{"global"}, panelNames(fig))

	g, err := newFieldGrid(globalField(), geo.Mercator())
	require.NoError(t, err)
	cols, _ := g.Dims()
	for c := 1; c < cols; c++ {
		require.Greater(t, g.X(c), g.X(c-1), "column %d", c)
	}

	var buf bytes.Buffer
	_, err = fig.WriteTo(&buf)
	require.NoError(t, err)
}

func TestBuild_ZeroTo360GridWithCoastlineAcrossAntimeridian(t *testing.T) {
	coast, err := geo.NewCoastlines(geom.LineString{
		{X: 160, Y: 0}, {X: 175, Y: 5}, {X: 185, Y: 5}, {X: 200, Y: 0},
	})
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.Coastlines = coast
	p, _ := newTestPlotter(t, opts)

	fig, err := p.Build(domain.NewModelDataset(domain.ModelEntry{Name: "global", Field: globalField()}))
	require.NoError(t, err)
	assert.Empty(t, fig.Warnings)

	paths, err := coast.Project(geo.Mercator())
	require.NoError(t, err)
	require.Len(t, paths, 2)
	period, err := geo.Mercator().Period()
	require.NoError(t, err)

	g, err := newFieldGrid(globalField(), geo.Mercator())
	require.NoError(t, err)
	cols, _ := g.Dims()
	shifts, err := p.coastlineShifts(paths, g.X(0), g.X(cols-1))
	require.NoError(t, err)
	require.Len(t, shifts, 2)
	assert.InDelta(t, 0, shifts[0], 1e-6)
	assert.InDelta(t, period, shifts[1], 1e-6)

	var buf bytes.Buffer
	_, err = fig.WriteTo(&buf)
	require.NoError(t, err)
}

func TestNewPlotter_NilLoggerAndMetrics(t *testing.T) {
	p, err := NewPlotter(DefaultOptions(), nil, nil)
	require.NoError(t, err)

	fig, err := p.Build(dataset("ERA5", "ICON", "GFS", "ARPEGE", "extra"))
	require.NoError(t, err)
	assert.Len(t, fig.Panels, 4)
}

func TestLookupColormap_EveryName(t *testing.T) {
	for _, name := range Colormaps() {
		for _, variant := range []string{name, name + "_r"} {
			newMap, err := lookupColormap(variant)
			require.NoError(t, err, variant)

			a, b := newMap(), newMap()
			a.SetMax(10)
			a.SetMin(-10)
			b.SetMax(1)
			b.SetMin(0)
			assert.InDelta(t, -10, a.Min(), 0, "%s instances share a range", variant)

			_, err = a.At(0)
			require.NoError(t, err, variant)
		}
	}
}
