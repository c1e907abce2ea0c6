package render

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/plot/vg"

	"github.com/couchcryptid/temperature-panels/internal/geo"
)

// Options configures a Plotter.
type Options struct {
	VMin     float64
	VMax     float64
	Colormap string

	// Projection is the panel projection. Nil means Mercator.
	Projection *geo.Projection

	ShowStatistics bool

	// Coastlines drawn on every panel. Nil draws none.
	Coastlines *geo.Coastlines

	Layout Layout
	Width  vg.Length
	Height vg.Length
	DPI    int
}

// DefaultOptions returns the standard four-panel figure: a 2×2 grid on a
// 6.4×4.8 in page at 200 DPI, coolwarm over [-15, 15] °C, Mercator panels
// with statistics.
func DefaultOptions() Options {
	return Options{
		VMin:           -15,
		VMax:           15,
		Colormap:       "coolwarm",
		ShowStatistics: true,
		Layout:         Layout{Rows: 2, Cols: 2},
		Width:          6.4 * vg.Inch,
		Height:         4.8 * vg.Inch,
		DPI:            200,
	}
}

func (o Options) validate() error {
	var errs []error
	if o.Layout.Rows < 1 || o.Layout.Cols < 1 {
		errs = append(errs, fmt.Errorf("layout %dx%d must have at least one row and column", o.Layout.Rows, o.Layout.Cols))
	}
	if o.Width <= 0 || o.Height <= 0 {
		errs = append(errs, errors.New("figure size must be positive"))
	}
	if o.DPI < 1 {
		errs = append(errs, fmt.Errorf("dpi %d must be positive", o.DPI))
	}
	if math.IsNaN(o.VMin) || math.IsNaN(o.VMax) || math.IsInf(o.VMin, 0) || math.IsInf(o.VMax, 0) {
		errs = append(errs, errors.New("value range must be finite"))
	}
	return errors.Join(errs...)
}

// Layout is a row-major panel grid.
type Layout struct {
	Rows int
	Cols int
}

// Capacity returns the number of panels.
func (l Layout) Capacity() int { return l.Rows * l.Cols }

// LayoutFor returns the smallest near-square grid holding n panels, with
// columns filled first: 4 → 2×2, 5 → 2×3, 7 → 3×3.
func LayoutFor(n int) Layout {
	if n < 1 {
		return Layout{Rows: 1, Cols: 1}
	}
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + cols - 1) / cols
	return Layout{Rows: rows, Cols: cols}
}

// normalizeRange returns a usable color range. A reversed range is
// swapped and an empty one widened by one degree each side; warning is
// empty when the range was already valid.
func normalizeRange(vmin, vmax float64) (lo, hi float64, warning string) {
	switch {
	case vmin < vmax:
		return vmin, vmax, ""
	case vmin > vmax:
		return vmax, vmin, fmt.Sprintf("vmin %g is greater than vmax %g, swapping", vmin, vmax)
	default:
		return vmin - 1, vmax + 1, fmt.Sprintf("vmin equals vmax (%g), widening to [%g, %g]", vmin, vmin-1, vmax+1)
	}
}
