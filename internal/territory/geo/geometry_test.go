package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"territory/internal/territory/models"
)

func square(minLon, minLat, maxLon, maxLat float64) models.Ring {
	return models.Ring{
		{Lon: minLon, Lat: minLat},
		{Lon: maxLon, Lat: minLat},
		{Lon: maxLon, Lat: maxLat},
		{Lon: minLon, Lat: maxLat},
		{Lon: minLon, Lat: minLat},
	}
}

func TestContainsSimplePolygon(t *testing.T) {
	geom := &models.Geometry{
		Type:     "Polygon",
		Polygons: []models.Polygon{{Rings: []models.Ring{square(0, 0, 10, 10)}}},
	}

	assert.True(t, Contains(geom, models.Point{Lon: 5, Lat: 5}))
	assert.False(t, Contains(geom, models.Point{Lon: 15, Lat: 5}))
	assert.False(t, Contains(geom, models.Point{Lon: -1, Lat: -1}))
}

func TestContainsRespectsHoles(t *testing.T) {
	geom := &models.Geometry{
		Type: "Polygon",
		Polygons: []models.Polygon{{
			Rings: []models.Ring{
				square(0, 0, 10, 10),
				square(4, 4, 6, 6),
			},
		}},
	}

	assert.True(t, Contains(geom, models.Point{Lon: 2, Lat: 2}))
	assert.False(t, Contains(geom, models.Point{Lon: 5, Lat: 5}), "point inside hole is outside the polygon")
}

func TestContainsMultiPolygon(t *testing.T) {
	geom := &models.Geometry{
		Type: "MultiPolygon",
		Polygons: []models.Polygon{
			{Rings: []models.Ring{square(0, 0, 2, 2)}},
			{Rings: []models.Ring{square(10, 10, 12, 12)}},
		},
	}

	assert.True(t, Contains(geom, models.Point{Lon: 1, Lat: 1}))
	assert.True(t, Contains(geom, models.Point{Lon: 11, Lat: 11}))
	assert.False(t, Contains(geom, models.Point{Lon: 5, Lat: 5}))
}

func TestContainsEmptyGeometry(t *testing.T) {
	assert.False(t, Contains(nil, models.Point{Lon: 1, Lat: 1}))
	assert.False(t, Contains(&models.Geometry{Type: "MultiPolygon"}, models.Point{}))
}

func TestCentroidSquare(t *testing.T) {
	geom := &models.Geometry{
		Type:     "Polygon",
		Polygons: []models.Polygon{{Rings: []models.Ring{square(0, 0, 10, 10)}}},
	}

	c, ok := Centroid(geom)
	require.True(t, ok)
	assert.InDelta(t, 5.0, c.Lon, 1e-9)
	assert.InDelta(t, 5.0, c.Lat, 1e-9)
}

func TestCentroidWithHoleShiftsAway(t *testing.T) {
	// Square with a hole in its right half: centroid moves left of center.
	geom := &models.Geometry{
		Type: "Polygon",
		Polygons: []models.Polygon{{
			Rings: []models.Ring{
				square(0, 0, 10, 10),
				square(6, 4, 8, 6),
			},
		}},
	}

	c, ok := Centroid(geom)
	require.True(t, ok)
	assert.Less(t, c.Lon, 5.0)
	assert.InDelta(t, 5.0, c.Lat, 1e-9)
}

func TestCentroidEmptyGeometry(t *testing.T) {
	_, ok := Centroid(nil)
	assert.False(t, ok)

	_, ok = Centroid(&models.Geometry{Type: "Polygon"})
	assert.False(t, ok)

	// Degenerate ring with zero area.
	degenerate := &models.Geometry{
		Type: "Polygon",
		Polygons: []models.Polygon{{Rings: []models.Ring{{
			{Lon: 1, Lat: 1}, {Lon: 1, Lat: 1}, {Lon: 1, Lat: 1},
		}}}},
	}
	_, ok = Centroid(degenerate)
	assert.False(t, ok)
}

func TestCentroidMultiPolygonWeightsByArea(t *testing.T) {
	// A large square around (5,5) and a tiny one around (100,100): the
	// centroid stays close to the large polygon.
	geom := &models.Geometry{
		Type: "MultiPolygon",
		Polygons: []models.Polygon{
			{Rings: []models.Ring{square(0, 0, 10, 10)}},
			{Rings: []models.Ring{square(99.9, 99.9, 100.1, 100.1)}},
		},
	}

	c, ok := Centroid(geom)
	require.True(t, ok)
	assert.Less(t, c.Lon, 6.0)
	assert.Less(t, c.Lat, 6.0)
}
