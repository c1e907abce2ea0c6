package render

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/couchcryptid/temperature-panels/internal/geo"
)

// Position of the statistics box's lower-left corner as a fraction of the
// panel's data area.
const (
	statsBoxX = 0.027
	statsBoxY = 0.047
)

var statsBoxFill = color.NRGBA{R: 255, G: 255, B: 255, A: 204}

// statsBox draws a text label over a translucent white box anchored to
// the lower-left corner of the panel.
type statsBox struct {
	label    string
	fontSize vg.Length
	padding  vg.Length
}

func (b statsBox) Plot(c draw.Canvas, plt *plot.Plot) {
	sty := plt.Title.TextStyle
	sty.Font.Size = b.fontSize
	sty.XAlign = text.XLeft
	sty.YAlign = text.YBottom

	size := c.Size()
	x := c.Min.X + statsBoxX*size.X
	y := c.Min.Y + statsBoxY*size.Y
	w := sty.Width(b.label) + 2*b.padding
	h := sty.Height(b.label) + 2*b.padding

	c.FillPolygon(statsBoxFill, []vg.Point{
		{X: x, Y: y},
		{X: x + w, Y: y},
		{X: x + w, Y: y + h},
		{X: x, Y: y + h},
	})
	c.FillText(sty, vg.Point{X: x + b.padding, Y: y + b.padding}, b.label)
}

// coastlines strokes projected coastline paths. Copies shifted by whole
// periods are drawn too, so coastlines follow data on 0..360 grids.
type coastlines struct {
	paths  []geo.Path
	shifts []float64
	style  draw.LineStyle
}

func (cl coastlines) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	for _, shift := range cl.shifts {
		for _, path := range cl.paths {
			line := make([]vg.Point, len(path))
			for i, pt := range path {
				line[i] = vg.Point{X: trX(pt.X + shift), Y: trY(pt.Y)}
			}
			c.StrokeLines(cl.style, c.ClipLinesXY(line)...)
		}
	}
}

// frame outlines the panel's data area.
type frame struct {
	style draw.LineStyle
}

func (f frame) Plot(c draw.Canvas, _ *plot.Plot) {
	c.StrokeLines(f.style, []vg.Point{
		c.Min,
		{X: c.Max.X, Y: c.Min.Y},
		c.Max,
		{X: c.Min.X, Y: c.Max.Y},
		c.Min,
	})
}
