// Package geo implements the geometry algorithms the territory engine needs:
// point-in-polygon containment for the in-memory region store, area-weighted
// centroids for overview projections, and GeoJSON encoding/decoding.
package geo

import (
	"math"

	"territory/internal/territory/models"
)

// Contains reports whether the point lies strictly inside the geometry.
// Holes are subtracted: a point inside an interior ring is outside the
// polygon. Points exactly on a boundary follow the ray-casting tie-break of
// the crossing test; callers treat boundary ties as store-defined.
func Contains(g *models.Geometry, p models.Point) bool {
	if g.Empty() {
		return false
	}
	for _, poly := range g.Polygons {
		if polygonContains(poly, p) {
			return true
		}
	}
	return false
}

func polygonContains(poly models.Polygon, p models.Point) bool {
	ext := poly.Exterior()
	if len(ext) < 3 || !ringContains(ext, p) {
		return false
	}
	for _, hole := range poly.Holes() {
		if ringContains(hole, p) {
			return false
		}
	}
	return true
}

// ringContains runs the even-odd crossing test against one ring.
func ringContains(ring models.Ring, p models.Point) bool {
	inside := false
	n := len(ring)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := ring[i], ring[j]
		if (a.Lat > p.Lat) != (b.Lat > p.Lat) {
			x := (b.Lon-a.Lon)*(p.Lat-a.Lat)/(b.Lat-a.Lat) + a.Lon
			if p.Lon < x {
				inside = !inside
			}
		}
	}
	return inside
}

// Centroid computes the area-weighted centroid of the geometry with holes
// subtracted. The second return is false for empty or degenerate geometry
// (zero total area), in which case callers omit the centroid.
func Centroid(g *models.Geometry) (models.Point, bool) {
	if g.Empty() {
		return models.Point{}, false
	}
	var areaSum, cxSum, cySum float64
	for _, poly := range g.Polygons {
		for i, ring := range poly.Rings {
			a, cx, cy := ringMoments(ring)
			if i > 0 {
				// Interior ring: subtract regardless of winding.
				a, cx, cy = -math.Abs(a), -math.Abs(a)*cx, -math.Abs(a)*cy
			} else {
				a = math.Abs(a)
				cx, cy = a*cx, a*cy
			}
			areaSum += a
			cxSum += cx
			cySum += cy
		}
	}
	if areaSum == 0 {
		return models.Point{}, false
	}
	return models.Point{Lon: cxSum / areaSum, Lat: cySum / areaSum}, true
}

// ringMoments returns the signed shoelace area of the ring and the centroid
// of the enclosed surface.
func ringMoments(ring models.Ring) (area, cx, cy float64) {
	n := len(ring)
	if n < 3 {
		return 0, 0, 0
	}
	var a2, sx, sy float64
	for i := 0; i < n; i++ {
		p, q := ring[i], ring[(i+1)%n]
		cross := p.Lon*q.Lat - q.Lon*p.Lat
		a2 += cross
		sx += (p.Lon + q.Lon) * cross
		sy += (p.Lat + q.Lat) * cross
	}
	if a2 == 0 {
		return 0, 0, 0
	}
	return a2 / 2, sx / (3 * a2), sy / (3 * a2)
}
