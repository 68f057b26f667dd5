// Package models holds the territory domain types shared by services,
// stores, and the HTTP layer.
package models

// Point is a WGS84 longitude/latitude pair.
type Point struct {
	Lon float64
	Lat float64
}

// Ring is a closed sequence of points. The first and last point are expected
// to be equal; the stores are responsible for geometry validity.
type Ring []Point

// Polygon is one exterior ring followed by zero or more interior (hole)
// rings, in the source dataset's own order.
type Polygon struct {
	Rings []Ring
}

// Exterior returns the outer ring, or nil for a degenerate polygon.
func (p Polygon) Exterior() Ring {
	if len(p.Rings) == 0 {
		return nil
	}
	return p.Rings[0]
}

// Holes returns the interior rings, if any.
func (p Polygon) Holes() []Ring {
	if len(p.Rings) < 2 {
		return nil
	}
	return p.Rings[1:]
}

// Geometry is a multi-polygon in WGS84. Type preserves the source dataset's
// declared geometry type so exports can echo it even when Polygons is empty.
type Geometry struct {
	Type     string
	Polygons []Polygon
}

// Empty reports whether the geometry carries no coordinates.
func (g *Geometry) Empty() bool {
	return g == nil || len(g.Polygons) == 0
}

// Region is one administrative district. Regions are seeded from an external
// administrative dataset and never mutated by this service.
type Region struct {
	// ID is the stable store identifier.
	ID string
	// SigCd is the administrative code, unique across the catalog.
	SigCd string
	// GuSi is the district name. Not globally unique: two parents may
	// both contain a district with the same name.
	GuSi string
	// SiDo is the enclosing province or city name.
	SiDo string
	// Geom is the district boundary, possibly nil when the catalog row
	// was seeded without geometry.
	Geom *Geometry
}

// RegionSummary is the client-facing projection of a region.
type RegionSummary struct {
	ID    string `json:"id"`
	SigCd string `json:"sigCd"`
	GuSi  string `json:"guSi"`
	SiDo  string `json:"siDo"`
}

// Summary builds the client-facing projection of r.
func (r *Region) Summary() RegionSummary {
	return RegionSummary{ID: r.ID, SigCd: r.SigCd, GuSi: r.GuSi, SiDo: r.SiDo}
}
