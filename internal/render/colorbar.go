package render

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ColorbarLabel is the shared colorbar caption.
const ColorbarLabel = "ΔT [°C]"

// colorbar is a vertical color scale with ticks and a caption on its
// right, drawn into an exact rectangle so the bar keeps its width.
type colorbar struct {
	gradient *plot.Plot
	min, max float64
	label    string

	tickLabel text.Style
	caption   text.Style
	line      draw.LineStyle
	tickLen   vg.Length
	gap       vg.Length
}

func newColorbar(cmap palette.ColorMap, label string) *colorbar {
	p := plot.New()
	p.Add(&plotter.ColorBar{ColorMap: cmap, Vertical: true})
	p.HideAxes()
	p.X.Padding = 0
	p.Y.Padding = 0

	tickLabel := p.Y.Tick.Label
	tickLabel.Font.Size = vg.Points(7)
	tickLabel.XAlign = text.XLeft
	tickLabel.YAlign = text.YCenter

	caption := p.Y.Label.TextStyle
	caption.Font.Size = vg.Points(8)
	caption.Rotation = math.Pi / 2
	caption.XAlign = text.XCenter
	caption.YAlign = text.YTop

	return &colorbar{
		gradient:  p,
		min:       cmap.Min(),
		max:       cmap.Max(),
		label:     label,
		tickLabel: tickLabel,
		caption:   caption,
		line:      draw.LineStyle{Color: color.Black, Width: vg.Points(0.5)},
		tickLen:   vg.Points(2.5),
		gap:       vg.Points(2),
	}
}

func (cb *colorbar) draw(c draw.Canvas) {
	cb.gradient.Draw(c)
	c.StrokeLines(cb.line, []vg.Point{
		c.Min,
		{X: c.Max.X, Y: c.Min.Y},
		c.Max,
		{X: c.Min.X, Y: c.Max.Y},
		c.Min,
	})

	height := c.Max.Y - c.Min.Y
	ticks := plot.DefaultTicks{}.Ticks(cb.min, cb.max)
	var labelWidth vg.Length
	for _, tick := range ticks {
		if tick.Value < cb.min || tick.Value > cb.max {
			continue
		}
		y := c.Min.Y + vg.Length((tick.Value-cb.min)/(cb.max-cb.min))*height
		length := cb.tickLen
		if tick.IsMinor() {
			length /= 2
		}
		c.StrokeLine2(cb.line, c.Max.X, y, c.Max.X+length, y)
		if tick.IsMinor() {
			continue
		}
		c.FillText(cb.tickLabel, vg.Point{X: c.Max.X + cb.tickLen + cb.gap, Y: y}, tick.Label)
		labelWidth = max(labelWidth, cb.tickLabel.Width(tick.Label))
	}

	x := c.Max.X + cb.tickLen + 2*cb.gap + labelWidth
	c.FillText(cb.caption, vg.Point{X: x, Y: c.Min.Y + height/2}, cb.label)
}
