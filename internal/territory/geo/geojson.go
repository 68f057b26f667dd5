package geo

import (
	"encoding/json"
	"fmt"

	"territory/internal/territory/models"
)

// FeatureCollection converts regions into a GeoJSON FeatureCollection for
// map rendering. Rings are emitted in source order, exterior first, with no
// winding normalization. Missing or empty geometry produces the declared
// type (or "Geometry") with empty coordinates rather than an error.
func FeatureCollection(regions []*models.Region) map[string]any {
	features := make([]map[string]any, 0, len(regions))
	for _, region := range regions {
		features = append(features, map[string]any{
			"type": "Feature",
			"properties": map[string]any{
				"id":    region.ID,
				"sigCd": region.SigCd,
				"siDo":  region.SiDo,
				"guSi":  region.GuSi,
			},
			"geometry": encodeGeometry(region.Geom),
		})
	}
	return map[string]any{
		"type":     "FeatureCollection",
		"features": features,
	}
}

func encodeGeometry(g *models.Geometry) map[string]any {
	if g.Empty() {
		typ := "Geometry"
		if g != nil && g.Type != "" {
			typ = g.Type
		}
		return map[string]any{"type": typ, "coordinates": []any{}}
	}
	if len(g.Polygons) == 1 && g.Type != "MultiPolygon" {
		return map[string]any{
			"type":        "Polygon",
			"coordinates": polygonCoords(g.Polygons[0]),
		}
	}
	coords := make([]any, 0, len(g.Polygons))
	for _, poly := range g.Polygons {
		coords = append(coords, polygonCoords(poly))
	}
	return map[string]any{"type": "MultiPolygon", "coordinates": coords}
}

func polygonCoords(poly models.Polygon) [][][]float64 {
	rings := make([][][]float64, 0, len(poly.Rings))
	for _, ring := range poly.Rings {
		coords := make([][]float64, 0, len(ring))
		for _, p := range ring {
			coords = append(coords, []float64{p.Lon, p.Lat})
		}
		rings = append(rings, coords)
	}
	return rings
}

// geoJSONGeometry mirrors the wire shape of a GeoJSON geometry object.
type geoJSONGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// ParseGeometry decodes a GeoJSON Polygon or MultiPolygon object into the
// domain geometry. Other geometry types are rejected: the catalog only
// carries administrative boundaries.
func ParseGeometry(raw []byte) (*models.Geometry, error) {
	var gj geoJSONGeometry
	if err := json.Unmarshal(raw, &gj); err != nil {
		return nil, fmt.Errorf("decode geometry: %w", err)
	}
	switch gj.Type {
	case "Polygon":
		var coords [][][]float64
		if err := json.Unmarshal(gj.Coordinates, &coords); err != nil {
			return nil, fmt.Errorf("decode polygon coordinates: %w", err)
		}
		return &models.Geometry{Type: gj.Type, Polygons: []models.Polygon{coordsToPolygon(coords)}}, nil
	case "MultiPolygon":
		var coords [][][][]float64
		if err := json.Unmarshal(gj.Coordinates, &coords); err != nil {
			return nil, fmt.Errorf("decode multipolygon coordinates: %w", err)
		}
		polys := make([]models.Polygon, 0, len(coords))
		for _, pc := range coords {
			polys = append(polys, coordsToPolygon(pc))
		}
		return &models.Geometry{Type: gj.Type, Polygons: polys}, nil
	default:
		return nil, fmt.Errorf("unsupported geometry type %q", gj.Type)
	}
}

func coordsToPolygon(coords [][][]float64) models.Polygon {
	rings := make([]models.Ring, 0, len(coords))
	for _, rc := range coords {
		ring := make(models.Ring, 0, len(rc))
		for _, pair := range rc {
			if len(pair) < 2 {
				continue
			}
			ring = append(ring, models.Point{Lon: pair[0], Lat: pair[1]})
		}
		rings = append(rings, ring)
	}
	return models.Polygon{Rings: rings}
}

// EncodeGeometry marshals the domain geometry back into GeoJSON bytes, used
// by the Postgres store to persist the geometry column.
func EncodeGeometry(g *models.Geometry) ([]byte, error) {
	return json.Marshal(encodeGeometry(g))
}
