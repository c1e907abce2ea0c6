package render

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/couchcryptid/temperature-panels/internal/domain"
)

// Figure margins and gaps as fractions of the page. Panels share the area
// left of 0.8; the colorbar sits in its own strip to the right.
const (
	marginLeft   = 0.1
	marginRight  = 0.8
	marginBottom = 0.1
	marginTop    = 0.95
	panelGap     = 0.1 // of the mean panel size

	colorbarLeft   = 0.83
	colorbarBottom = 0.11
	colorbarWidth  = 0.02
	colorbarHeight = 0.83
)

// Panel describes one drawn map panel.
type Panel struct {
	Model string
	Row   int
	Col   int

	// Stats is nil when statistics are disabled.
	Stats *domain.Statistics
}

// Figure is a built composite: map panels on a grid plus a shared colorbar.
// It holds no reference to a canvas; every Draw, Image, or WriteTo renders
// onto a new one.
type Figure struct {
	// Panels lists the drawn panels in dataset order.
	Panels []Panel

	// Warnings collects non-fatal configuration problems met while building.
	Warnings []string

	layout Layout
	width  vg.Length
	height vg.Length
	dpi    int

	cells    []*cell // by grid position; nil is a blank panel
	colorbar *colorbar
}

type cell struct {
	plot   *plot.Plot
	aspect float64 // data width over height
}

// Layout returns the panel grid.
func (f *Figure) Layout() Layout { return f.layout }

// BlankPanels returns the number of grid positions left empty.
func (f *Figure) BlankPanels() int {
	var n int
	for _, c := range f.cells {
		if c == nil {
			n++
		}
	}
	return n
}

// Size returns the page size and raster resolution.
func (f *Figure) Size() (width, height vg.Length, dpi int) {
	return f.width, f.height, f.dpi
}

// Draw renders the figure onto dc, which should span the whole page.
func (f *Figure) Draw(dc draw.Canvas) {
	for i, c := range f.cells {
		if c == nil {
			continue
		}
		area := f.cellArea(dc, i)
		c.plot.Draw(fitAspect(area, c.aspect, titleHeight(c.plot)))
	}
	if f.colorbar != nil {
		f.colorbar.draw(fraction(dc, colorbarLeft, colorbarBottom, colorbarLeft+colorbarWidth, colorbarBottom+colorbarHeight))
	}
}

// Image renders the figure to a new raster image.
func (f *Figure) Image() image.Image {
	return f.canvas().Image()
}

// WriteTo renders the figure and encodes it to w as PNG.
func (f *Figure) WriteTo(w io.Writer) (int64, error) {
	png := vgimg.PngCanvas{Canvas: f.canvas()}
	return png.WriteTo(w)
}

// Save writes the figure as a PNG file at path. The image is fully encoded
// before the file is created, so a failed render leaves no partial file.
// Write failures wrap domain.ErrOutput.
func (f *Figure) Save(path string) error {
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrOutput, path, err)
	}
	return nil
}

func (f *Figure) canvas() *vgimg.Canvas {
	c := vgimg.NewWith(vgimg.UseWH(f.width, f.height), vgimg.UseDPI(f.dpi))
	f.Draw(draw.New(c))
	return c
}

// cellArea returns the grid cell for panel i, laid out like a subplot grid:
// equal cells with gaps of panelGap times the cell size between them.
func (f *Figure) cellArea(dc draw.Canvas, i int) draw.Canvas {
	rows, cols := float64(f.layout.Rows), float64(f.layout.Cols)
	row, col := float64(i/f.layout.Cols), float64(i%f.layout.Cols)

	w := (marginRight - marginLeft) / (cols + panelGap*(cols-1))
	h := (marginTop - marginBottom) / (rows + panelGap*(rows-1))

	left := marginLeft + col*w*(1+panelGap)
	top := marginTop - row*h*(1+panelGap)
	return fraction(dc, left, top-h, left+w, top)
}

// fraction returns the part of dc between the given page fractions.
func fraction(dc draw.Canvas, x0, y0, x1, y1 float64) draw.Canvas {
	size := dc.Size()
	return draw.Canvas{
		Canvas: dc.Canvas,
		Rectangle: vg.Rectangle{
			Min: vg.Point{X: dc.Min.X + vg.Length(x0)*size.X, Y: dc.Min.Y + vg.Length(y0)*size.Y},
			Max: vg.Point{X: dc.Min.X + vg.Length(x1)*size.X, Y: dc.Min.Y + vg.Length(y1)*size.Y},
		},
	}
}

// fitAspect shrinks area so the part below the title has the given
// width/height ratio, keeping it centered.
func fitAspect(area draw.Canvas, aspect float64, title vg.Length) draw.Canvas {
	if aspect <= 0 {
		return area
	}
	size := area.Size()
	w, h := size.X, size.Y-title
	if h <= 0 {
		return area
	}
	if float64(w)/float64(h) > aspect {
		w = vg.Length(aspect) * h
	} else {
		h = w / vg.Length(aspect)
	}
	cx := area.Min.X + size.X/2
	cy := area.Min.Y + size.Y/2
	total := h + title
	area.Rectangle = vg.Rectangle{
		Min: vg.Point{X: cx - w/2, Y: cy - total/2},
		Max: vg.Point{X: cx + w/2, Y: cy + total/2},
	}
	return area
}

func titleHeight(p *plot.Plot) vg.Length {
	if p.Title.Text == "" {
		return 0
	}
	return p.Title.TextStyle.Rectangle(p.Title.Text).Size().Y + p.Title.Padding
}
