package models

import "strings"

// RefKind discriminates the ways a caller may identify a region.
type RefKind int

const (
	RefNone RefKind = iota
	RefByID
	RefByCode
	RefByName
	RefByCoordinate
)

// RegionRef is a tagged union describing how to resolve a region. Callers
// may populate several fields; Kind picks the most specific one in the
// resolver's precedence order (id, code, name, coordinate). Ephemeral, never
// persisted.
type RegionRef struct {
	ID   string
	Code string
	Name string

	Lon           float64
	Lat           float64
	HasCoordinate bool
}

// ByID references a region by its store identifier.
func ByID(id string) RegionRef { return RegionRef{ID: strings.TrimSpace(id)} }

// ByCode references a region by administrative code.
func ByCode(code string) RegionRef { return RegionRef{Code: strings.TrimSpace(code)} }

// ByName references a region by free-text district name.
func ByName(name string) RegionRef { return RegionRef{Name: strings.TrimSpace(name)} }

// ByCoordinate references the region containing a WGS84 point.
func ByCoordinate(lon, lat float64) RegionRef {
	return RegionRef{Lon: lon, Lat: lat, HasCoordinate: true}
}

// Kind returns the most specific populated field's kind.
func (r RegionRef) Kind() RefKind {
	switch {
	case strings.TrimSpace(r.ID) != "":
		return RefByID
	case strings.TrimSpace(r.Code) != "":
		return RefByCode
	case strings.TrimSpace(r.Name) != "":
		return RefByName
	case r.HasCoordinate:
		return RefByCoordinate
	default:
		return RefNone
	}
}
