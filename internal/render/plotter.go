// Package render builds the composite temperature figure: one map panel per
// model on a grid, coastlines, optional bias/RMSE labels and a shared
// colorbar. Building and saving are separate from displaying.
package render

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/couchcryptid/temperature-panels/internal/domain"
	"github.com/couchcryptid/temperature-panels/internal/geo"
	"github.com/couchcryptid/temperature-panels/internal/observability"
)

const (
	paletteSize        = 256
	coastlineCacheSize = 8
)

// Plotter turns model datasets into figures. It is safe for concurrent use.
type Plotter struct {
	opts        Options
	newColorMap func() palette.ColorMap
	projection  *geo.Projection
	coast       *geo.CoastlineCache
	logger      *slog.Logger
	metrics     *observability.Metrics
}

// NewPlotter resolves the colormap and projection in opts. A nil logger or
// metrics falls back to slog.Default and an unregistered Metrics.
func NewPlotter(opts Options, logger *slog.Logger, metrics *observability.Metrics) (*Plotter, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid render options: %w", err)
	}
	newColorMap, err := lookupColormap(opts.Colormap)
	if err != nil {
		return nil, err
	}
	proj := opts.Projection
	if proj == nil {
		proj = geo.Mercator()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NewMetricsForTesting()
	}

	p := &Plotter{
		opts:        opts,
		newColorMap: newColorMap,
		projection:  proj,
		logger:      logger,
		metrics:     metrics,
	}
	if opts.Coastlines.Len() > 0 {
		p.coast = geo.NewCoastlineCache(opts.Coastlines, coastlineCacheSize)
	}
	return p, nil
}

// Build lays out one panel per model in dataset order, up to the layout's
// capacity. Extra models are dropped and missing ones leave blank panels;
// both, like an unusable value range, are warnings rather than errors.
// A drawn field with an inconsistent shape fails with domain.ErrInputShape.
func (p *Plotter) Build(ds *domain.ModelDataset) (*Figure, error) {
	fig := &Figure{
		layout: p.opts.Layout,
		width:  p.opts.Width,
		height: p.opts.Height,
		dpi:    p.opts.DPI,
		cells:  make([]*cell, p.opts.Layout.Capacity()),
	}

	vmin, vmax, warning := normalizeRange(p.opts.VMin, p.opts.VMax)
	if warning != "" {
		p.warn(fig, observability.WarningValueRange, warning)
	}

	entries := ds.Entries()
	switch capacity := p.opts.Layout.Capacity(); {
	case len(entries) == 0:
		p.warn(fig, observability.WarningModelCount, "dataset has no models, all panels are blank")
	case len(entries) > capacity:
		dropped := entries[capacity:]
		names := make([]string, len(dropped))
		for i, e := range dropped {
			names[i] = e.Name
		}
		p.warn(fig, observability.WarningModelCount,
			fmt.Sprintf("%d models for %d panels, dropping %v", len(entries), capacity, names))
		p.metrics.ModelsDropped.Add(float64(len(dropped)))
		entries = entries[:capacity]
	}

	cmap := p.newColorMap()
	cmap.SetMax(vmax)
	cmap.SetMin(vmin)

	coast := p.projectCoastlines(fig)

	for _, e := range entries {
		if err := e.Field.Validate(); err != nil {
			return nil, &domain.ModelError{Model: e.Name, Err: err}
		}
	}

	for i, e := range entries {
		c, stats, err := p.panel(e, cmap, coast)
		if err != nil {
			return nil, &domain.ModelError{Model: e.Name, Err: err}
		}
		fig.cells[i] = c
		fig.Panels = append(fig.Panels, Panel{
			Model: e.Name,
			Row:   i / p.opts.Layout.Cols,
			Col:   i % p.opts.Layout.Cols,
			Stats: stats,
		})
	}
	fig.colorbar = newColorbar(cmap, ColorbarLabel)

	p.metrics.PanelsDrawn.Add(float64(len(fig.Panels)))
	p.logger.Debug("figure built",
		"panels", len(fig.Panels),
		"blank", fig.BlankPanels(),
		"vmin", vmin,
		"vmax", vmax,
		"colormap", p.opts.Colormap,
		"projection", p.projection.Name(),
	)
	return fig, nil
}

func (p *Plotter) warn(fig *Figure, kind, msg string) {
	p.logger.Warn("render configuration warning", "kind", kind, "warning", msg)
	p.metrics.ConfigWarnings.WithLabelValues(kind).Inc()
	fig.Warnings = append(fig.Warnings, msg)
}

// projectCoastlines returns nil when no coastlines are configured or they
// cannot be projected; the figure is still drawn without them.
func (p *Plotter) projectCoastlines(fig *Figure) []geo.Path {
	if p.coast == nil {
		return nil
	}
	paths, err := p.coast.Project(p.projection)
	if err != nil {
		p.warn(fig, observability.WarningCoastlines, fmt.Sprintf("coastlines skipped: %v", err))
		return nil
	}
	return paths
}

func (p *Plotter) panel(e domain.ModelEntry, cmap palette.ColorMap, coast []geo.Path) (*cell, *domain.Statistics, error) {
	grid, err := newFieldGrid(e.Field, p.projection)
	if err != nil {
		return nil, nil, err
	}

	heat := plotter.NewHeatMap(grid, cmap.Palette(paletteSize))
	heat.Min = cmap.Min()
	heat.Max = cmap.Max()
	colors := heat.Palette.Colors()
	heat.Underflow = colors[0]
	heat.Overflow = colors[len(colors)-1]
	heat.NaN = color.Transparent

	pl := plot.New()
	pl.Title.Text = e.Name
	pl.Title.TextStyle.Font.Size = vg.Points(10)
	pl.Title.Padding = vg.Points(3)
	pl.HideAxes()
	pl.X.Padding = 0
	pl.Y.Padding = 0
	pl.Add(heat)

	xmin, xmax, ymin, ymax := heat.DataRange()
	if len(coast) > 0 {
		shifts, err := p.coastlineShifts(coast, xmin, xmax)
		if err != nil {
			return nil, nil, err
		}
		pl.Add(coastlines{
			paths:  coast,
			shifts: shifts,
			style:  draw.LineStyle{Color: color.Black, Width: vg.Points(0.5)},
		})
	}

	var stats *domain.Statistics
	if p.opts.ShowStatistics {
		s := domain.ComputeStatistics(e.Field)
		stats = &s
		pl.Add(statsBox{label: s.Label(), fontSize: vg.Points(6), padding: vg.Points(2)})
	}
	pl.Add(frame{style: draw.LineStyle{Color: color.Black, Width: vg.Points(0.75)}})

	pl.X.Min, pl.X.Max = xmin, xmax
	pl.Y.Min, pl.Y.Max = ymin, ymax

	aspect := 0.0
	if ymax > ymin {
		aspect = (xmax - xmin) / (ymax - ymin)
	}
	return &cell{plot: pl, aspect: aspect}, stats, nil
}

// coastlineShifts returns the whole-period offsets at which the coastline
// set overlaps [xmin, xmax].
func (p *Plotter) coastlineShifts(coast []geo.Path, xmin, xmax float64) ([]float64, error) {
	period, err := p.projection.Period()
	if err != nil {
		return nil, err
	}
	if period <= 0 || math.IsInf(period, 0) {
		return nil, errors.New("projection has no usable longitude period")
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, path := range coast {
		for _, pt := range path {
			lo = math.Min(lo, pt.X)
			hi = math.Max(hi, pt.X)
		}
	}
	var shifts []float64
	for k := -2; k <= 2; k++ {
		s := float64(k) * period
		if lo+s <= xmax && hi+s >= xmin {
			shifts = append(shifts, s)
		}
	}
	return shifts, nil
}
