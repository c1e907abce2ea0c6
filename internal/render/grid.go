package render

import (
	"fmt"
	"slices"

	"github.com/couchcryptid/temperature-panels/internal/domain"
	"github.com/couchcryptid/temperature-panels/internal/geo"
)

// fieldGrid presents a field as a plotter.GridXYZ in projected coordinates
// with both axes ascending. The field itself is never copied or mutated.
type fieldGrid struct {
	values [][]float64
	xs, ys []float64
	cols   []int // source lon index per ascending column
	rows   []int // source lat index per ascending row
}

func newFieldGrid(f domain.TemperatureField, p *geo.Projection) (*fieldGrid, error) {
	xs, err := p.Xs(f.Lon)
	if err != nil {
		return nil, fmt.Errorf("project longitudes: %w", err)
	}
	ys, err := p.Ys(f.Lat)
	if err != nil {
		return nil, fmt.Errorf("project latitudes: %w", err)
	}
	g := &fieldGrid{values: f.Values}
	g.xs, g.cols = ascending(xs)
	g.ys, g.rows = ascending(ys)
	return g, nil
}

// ascending reverses a descending series and returns the source index of
// each position.
func ascending(vs []float64) ([]float64, []int) {
	idx := make([]int, len(vs))
	for i := range idx {
		idx[i] = i
	}
	if len(vs) > 1 && vs[0] > vs[len(vs)-1] {
		slices.Reverse(vs)
		slices.Reverse(idx)
	}
	return vs, idx
}

func (g *fieldGrid) Dims() (c, r int) { return len(g.xs), len(g.ys) }

func (g *fieldGrid) Z(c, r int) float64 { return g.values[g.rows[r]][g.cols[c]] }

func (g *fieldGrid) X(c int) float64 { return g.xs[c] }

func (g *fieldGrid) Y(r int) float64 { return g.ys[r] }
