package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
)

// Path is a polyline in either lon/lat degrees or projected coordinates.
type Path []geom.Point

// Coastlines is a set of coastline polylines in lon/lat degrees.
type Coastlines struct {
	paths []Path
}

// NewCoastlines collects line and polygon geometries in lon/lat degrees.
// Polygon rings become closed polylines; other geometry kinds are an error.
func NewCoastlines(geoms ...geom.Geom) (*Coastlines, error) {
	c := &Coastlines{}
	for i, g := range geoms {
		if err := c.add(g); err != nil {
			return nil, fmt.Errorf("coastline geometry %d: %w", i, err)
		}
	}
	return c, nil
}

// LoadCoastlines reads a line or polygon shapefile whose coordinates are
// lon/lat degrees, such as Natural Earth's ne_110m_coastline.shp.
func LoadCoastlines(path string) (*Coastlines, error) {
	dec, err := shp.NewDecoder(path)
	if err != nil {
		return nil, fmt.Errorf("open coastline shapefile: %w", err)
	}
	defer dec.Close()

	c := &Coastlines{}
	for row := 0; ; row++ {
		g, _, more := dec.DecodeRowFields()
		if !more {
			break
		}
		if g == nil {
			continue
		}
		if err := c.add(g); err != nil {
			return nil, fmt.Errorf("coastline shapefile row %d: %w", row, err)
		}
	}
	if err := dec.Error(); err != nil {
		return nil, fmt.Errorf("read coastline shapefile: %w", err)
	}
	return c, nil
}

// Len returns the number of polylines.
func (c *Coastlines) Len() int {
	if c == nil {
		return 0
	}
	return len(c.paths)
}

// Paths returns the lon/lat polylines.
func (c *Coastlines) Paths() []Path {
	if c == nil {
		return nil
	}
	return c.paths
}

// Project transforms every polyline with p. Lines are split where they
// jump across the antimeridian or where a point fails to project, so no
// segment spans the whole map.
func (c *Coastlines) Project(p *Projection) ([]Path, error) {
	if c == nil {
		return nil, nil
	}
	out := make([]Path, 0, len(c.paths))
	var failed int
	for _, path := range c.paths {
		var cur Path
		flush := func() {
			if len(cur) > 1 {
				out = append(out, cur)
			}
			cur = nil
		}
		for i, pt := range path {
			if i > 0 && math.Abs(WrapLongitude(pt.X)-WrapLongitude(path[i-1].X)) > 180 {
				flush()
			}
			x, y, err := p.Forward(pt.X, pt.Y)
			if err != nil || math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
				failed++
				flush()
				continue
			}
			cur = append(cur, geom.Point{X: x, Y: y})
		}
		flush()
	}
	if len(out) == 0 && failed > 0 {
		return nil, errors.New("no coastline point could be projected")
	}
	return out, nil
}

func (c *Coastlines) add(g geom.Geom) error {
	switch g := g.(type) {
	case geom.LineString:
		c.addPath(g)
	case geom.MultiLineString:
		for _, l := range g {
			c.addPath(l)
		}
	case geom.Polygon:
		for _, ring := range g {
			c.addPath(ring)
		}
	case geom.MultiPolygon:
		for _, poly := range g {
			for _, ring := range poly {
				c.addPath(ring)
			}
		}
	default:
		return fmt.Errorf("unsupported geometry %T", g)
	}
	return nil
}

func (c *Coastlines) addPath(pts []geom.Point) {
	if len(pts) < 2 {
		return
	}
	path := make(Path, len(pts))
	copy(path, pts)
	c.paths = append(c.paths, path)
}
