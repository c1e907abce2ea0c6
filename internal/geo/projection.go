// Package geo maps geographic lon/lat coordinates into panel coordinates
// and carries the coastline geometry drawn over each map panel.
package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/ctessum/geom/proj"
)

const (
	// MercatorDescriptor is the default panel projection.
	MercatorDescriptor = "+proj=merc +lon_0=0 +k=1 +x_0=0 +y_0=0 +ellps=WGS84 +units=m +no_defs"

	// PlateCarreeDescriptor is plain lon/lat in degrees. Input data is
	// always interpreted in this system.
	PlateCarreeDescriptor = "+proj=longlat +ellps=WGS84 +no_defs"

	// mercatorMaxLat keeps Mercator y finite.
	mercatorMaxLat = 85.0511
)

// ErrNotRectilinear is returned for projections where x depends on latitude
// or y on longitude. A colormesh over 1D lon/lat axes needs a rectilinear
// image of the grid.
var ErrNotRectilinear = errors.New("projection is not rectilinear in lon/lat")

// Projection transforms lon/lat degrees into map coordinates.
type Projection struct {
	descriptor string
	name       string
	forward    proj.Transformer // nil means identity
	maxLat     float64
}

// NewProjection parses a proj4 descriptor and prepares the transform from
// lon/lat. Only rectilinear projections are accepted.
func NewProjection(descriptor string) (*Projection, error) {
	dst, err := proj.Parse(descriptor)
	if err != nil {
		return nil, fmt.Errorf("parse projection %q: %w", descriptor, err)
	}

	p := &Projection{descriptor: descriptor, name: dst.Name, maxLat: 90}
	if dst.Name == "merc" {
		p.maxLat = mercatorMaxLat
	}

	if !isLongLat(dst.Name) {
		src, err := proj.Parse(PlateCarreeDescriptor)
		if err != nil {
			return nil, fmt.Errorf("parse lon/lat source: %w", err)
		}
		p.forward, err = src.NewTransform(dst)
		if err != nil {
			return nil, fmt.Errorf("create transform to %q: %w", descriptor, err)
		}
	}

	if err := p.checkRectilinear(); err != nil {
		return nil, err
	}
	return p, nil
}

// Mercator returns the default panel projection.
func Mercator() *Projection {
	return mustProjection(MercatorDescriptor)
}

// PlateCarree returns the identity lon/lat projection.
func PlateCarree() *Projection {
	return mustProjection(PlateCarreeDescriptor)
}

func mustProjection(descriptor string) *Projection {
	p, err := NewProjection(descriptor)
	if err != nil {
		panic(err)
	}
	return p
}

// Descriptor returns the proj4 string the projection was built from.
func (p *Projection) Descriptor() string { return p.descriptor }

// Name returns the proj4 projection name, e.g. "merc" or "longlat".
func (p *Projection) Name() string { return p.name }

// Forward projects a lon/lat point in degrees. Longitudes are wrapped into
// [-180, 180) and latitudes beyond the projection's usable range are
// clamped.
func (p *Projection) Forward(lon, lat float64) (x, y float64, err error) {
	lon = WrapLongitude(lon)
	lat = math.Max(-p.maxLat, math.Min(p.maxLat, lat))
	if p.forward == nil {
		return lon, lat, nil
	}
	return p.forward(lon, lat)
}

// WrapLongitude maps lon in degrees into [-180, 180).
func WrapLongitude(lon float64) float64 {
	if lon >= -180 && lon < 180 {
		return lon
	}
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}

// X projects a longitude onto the x axis.
func (p *Projection) X(lon float64) (float64, error) {
	x, _, err := p.Forward(lon, 0)
	return x, err
}

// Y projects a latitude onto the y axis.
func (p *Projection) Y(lat float64) (float64, error) {
	_, y, err := p.Forward(0, lat)
	return y, err
}

// Period returns the x extent of one full turn of longitude. Rectilinear
// projections are linear in longitude, so a 10° step scaled by 36 gives the
// period; the smallest of three samples skips a step that wraps.
func (p *Projection) Period() (float64, error) {
	period := math.Inf(1)
	for _, lon := range []float64{-90, 0, 90} {
		x0, err := p.X(lon)
		if err != nil {
			return 0, err
		}
		x1, err := p.X(lon + 10)
		if err != nil {
			return 0, err
		}
		period = math.Min(period, 36*math.Abs(x1-x0))
	}
	return period, nil
}

// Xs projects a monotonic series of longitudes, unwrapping the result so it
// stays monotonic when the series crosses the projection's seam, as 0..360
// grids do.
func (p *Projection) Xs(lons []float64) ([]float64, error) {
	period, err := p.Period()
	if err != nil {
		return nil, err
	}
	xs := make([]float64, len(lons))
	for i, lon := range lons {
		x, err := p.X(lon)
		if err != nil {
			return nil, fmt.Errorf("project lon %g: %w", lon, err)
		}
		if i > 0 {
			step := (lon - lons[i-1]) / 360 * period
			for x-xs[i-1]-step > period/2 {
				x -= period
			}
			for x-xs[i-1]-step < -period/2 {
				x += period
			}
		}
		xs[i] = x
	}
	return xs, nil
}

// Ys projects a series of latitudes.
func (p *Projection) Ys(lats []float64) ([]float64, error) {
	ys := make([]float64, len(lats))
	for i, lat := range lats {
		y, err := p.Y(lat)
		if err != nil {
			return nil, fmt.Errorf("project lat %g: %w", lat, err)
		}
		ys[i] = y
	}
	return ys, nil
}

func (p *Projection) checkRectilinear() error {
	lons := []float64{-150, -60, 0, 60, 150}
	lats := []float64{-60, -30, 0, 30, 60}

	for _, lon := range lons {
		x0, err := p.X(lon)
		if err != nil {
			return fmt.Errorf("project lon %g: %w", lon, err)
		}
		for _, lat := range lats {
			x, _, err := p.Forward(lon, lat)
			if err != nil {
				return fmt.Errorf("project (%g, %g): %w", lon, lat, err)
			}
			if !nearlyEqual(x, x0) {
				return fmt.Errorf("%w: %s", ErrNotRectilinear, p.descriptor)
			}
		}
	}
	for _, lat := range lats {
		y0, err := p.Y(lat)
		if err != nil {
			return fmt.Errorf("project lat %g: %w", lat, err)
		}
		for _, lon := range lons {
			_, y, err := p.Forward(lon, lat)
			if err != nil {
				return fmt.Errorf("project (%g, %g): %w", lon, lat, err)
			}
			if !nearlyEqual(y, y0) {
				return fmt.Errorf("%w: %s", ErrNotRectilinear, p.descriptor)
			}
		}
	}
	return nil
}

func isLongLat(name string) bool {
	return name == "longlat" || name == "latlong" || name == "lonlat" || name == "latlon"
}

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-6*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}
