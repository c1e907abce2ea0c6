package geo

import (
	"path/filepath"
	"testing"

	"github.com/ctessum/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCoastlines(t *testing.T) {
	c, err := NewCoastlines(
		geom.LineString{{X: -10, Y: 50}, {X: 0, Y: 51}},
		geom.MultiLineString{
			{{X: 1, Y: 1}, {X: 2, Y: 2}},
			{{X: 3, Y: 3}},
		},
		geom.Polygon{{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 0}}},
	)
	require.NoError(t, err)

	// The single-point line is dropped.
	assert.Equal(t, 3, c.Len())
	assert.Len(t, c.Paths()[2], 4)
}

func TestNewCoastlines_RejectsPoints(t *testing.T) {
	_, err := NewCoastlines(geom.Point{X: 1, Y: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported geometry")
}

func TestCoastlines_ProjectSplitsAtAntimeridian(t *testing.T) {
	c, err := NewCoastlines(geom.LineString{
		{X: 160, Y: 0}, {X: 170, Y: 0}, {X: -170, Y: 0}, {X: -160, Y: 0},
	})
	require.NoError(t, err)

	paths, err := c.Project(PlateCarree())
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, Path{{X: 160, Y: 0}, {X: 170, Y: 0}}, paths[0])
	assert.Equal(t, Path{{X: -170, Y: 0}, {X: -160, Y: 0}}, paths[1])
}

func TestCoastlines_ProjectMercator(t *testing.T) {
	c, err := NewCoastlines(geom.LineString{{X: 0, Y: 0}, {X: 90, Y: 0}})
	require.NoError(t, err)

	paths, err := c.Project(Mercator())
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.InDelta(t, 10018754.17, paths[0][1].X, 1)
}

func TestCoastlines_NilIsEmpty(t *testing.T) {
	var c *Coastlines
	assert.Equal(t, 0, c.Len())
	paths, err := c.Project(PlateCarree())
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestLoadCoastlines_MissingFile(t *testing.T) {
	_, err := LoadCoastlines(filepath.Join(t.TempDir(), "missing.shp"))
	require.Error(t, err)
}

func TestCoastlines_ProjectMercatorAcrossAntimeridian(t *testing.T) {
	c, err := NewCoastlines(geom.LineString{
		{X: 160, Y: 0}, {X: 175, Y: 5}, {X: 185, Y: 5}, {X: 200, Y: 0},
	})
	require.NoError(t, err)

	paths, err := c.Project(Mercator())
	require.NoError(t, err)
	require.Len(t, paths, 2)

	x175, err := Mercator().X(175)
	require.NoError(t, err)
	assert.InDelta(t, x175, paths[0][1].X, 1)
	assert.InDelta(t, -x175, paths[1][0].X, 1)
	assert.Less(t, paths[1][1].X, 0.0)
}
