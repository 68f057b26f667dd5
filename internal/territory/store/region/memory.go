// Package region implements the region catalog stores. The catalog is
// read-only for this service: rows are seeded by the ingest tool and only
// queried here.
package region

import (
	"context"
	"sync"

	"territory/internal/territory/geo"
	"territory/internal/territory/models"
	"territory/pkg/platform/sentinel"
)

// InMemory keeps the catalog in process memory with a linear
// point-in-polygon scan. It backs unit tests and local development.
type InMemory struct {
	mu      sync.RWMutex
	byID    map[string]*models.Region
	byCode  map[string]*models.Region
	ordered []*models.Region
}

// NewInMemory builds a store pre-loaded with the given regions.
func NewInMemory(regions ...*models.Region) *InMemory {
	s := &InMemory{
		byID:   make(map[string]*models.Region),
		byCode: make(map[string]*models.Region),
	}
	for _, r := range regions {
		s.Add(r)
	}
	return s
}

// Add seeds one region. Last write wins on duplicate ids or codes.
func (s *InMemory) Add(r *models.Region) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[r.ID]; !exists {
		s.ordered = append(s.ordered, r)
	}
	s.byID[r.ID] = r
	if r.SigCd != "" {
		s.byCode[r.SigCd] = r
	}
}

func (s *InMemory) FindByID(ctx context.Context, id string) (*models.Region, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.byID[id]; ok {
		return r, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) FindByCode(ctx context.Context, code string) (*models.Region, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.byCode[code]; ok {
		return r, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) FindByName(ctx context.Context, name string) (*models.Region, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.ordered {
		if r.GuSi == name {
			return r, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// FindContaining returns the first region whose geometry contains the point.
// Boundary ties follow the crossing test's tie-break.
func (s *InMemory) FindContaining(ctx context.Context, lon, lat float64) (*models.Region, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p := models.Point{Lon: lon, Lat: lat}
	for _, r := range s.ordered {
		if r.Geom != nil && geo.Contains(r.Geom, p) {
			return r, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) ListAll(ctx context.Context) ([]*models.Region, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Region, len(s.ordered))
	copy(out, s.ordered)
	return out, nil
}
