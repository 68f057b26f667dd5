package region

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"territory/internal/territory/models"
	"territory/pkg/platform/sentinel"
)

type InMemorySuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func TestInMemorySuite(t *testing.T) {
	suite.Run(t, new(InMemorySuite))
}

func square(minLon, minLat, maxLon, maxLat float64) models.Ring {
	return models.Ring{
		{Lon: minLon, Lat: minLat},
		{Lon: maxLon, Lat: minLat},
		{Lon: maxLon, Lat: maxLat},
		{Lon: minLon, Lat: maxLat},
		{Lon: minLon, Lat: minLat},
	}
}

func newRegion(id, sigCd, guSi, siDo string, ring models.Ring) *models.Region {
	return &models.Region{
		ID:    id,
		SigCd: sigCd,
		GuSi:  guSi,
		SiDo:  siDo,
		Geom: &models.Geometry{
			Type:     "Polygon",
			Polygons: []models.Polygon{{Rings: []models.Ring{ring}}},
		},
	}
}

func (s *InMemorySuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewInMemory(
		newRegion("1", "11680", "Gangnam-gu", "Seoul", square(127.0, 37.4, 127.1, 37.6)),
		newRegion("2", "11440", "Mapo-gu", "Seoul", square(126.8, 37.5, 127.0, 37.6)),
		newRegion("3", "41500", "Gangjin-gu", "Jeonnam", square(126.6, 34.5, 126.9, 34.7)),
	)
}

func (s *InMemorySuite) TestFindByID() {
	r, err := s.store.FindByID(s.ctx, "2")
	s.Require().NoError(err)
	s.Equal("Mapo-gu", r.GuSi)

	_, err = s.store.FindByID(s.ctx, "99")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemorySuite) TestFindByCode() {
	r, err := s.store.FindByCode(s.ctx, "41500")
	s.Require().NoError(err)
	s.Equal("Gangjin-gu", r.GuSi)

	_, err = s.store.FindByCode(s.ctx, "00000")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemorySuite) TestFindByNameExactOnly() {
	r, err := s.store.FindByName(s.ctx, "Gangnam-gu")
	s.Require().NoError(err)
	s.Equal("11680", r.SigCd)

	_, err = s.store.FindByName(s.ctx, "gangnam-gu")
	s.Require().ErrorIs(err, sentinel.ErrNotFound, "name match is case-sensitive")
}

func (s *InMemorySuite) TestFindContaining() {
	r, err := s.store.FindContaining(s.ctx, 127.05, 37.5)
	s.Require().NoError(err)
	s.Equal("Gangnam-gu", r.GuSi)

	_, err = s.store.FindContaining(s.ctx, 0, 0)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemorySuite) TestFindContainingSkipsMissingGeometry() {
	s.store.Add(&models.Region{ID: "4", SigCd: "99999", GuSi: "NoGeom", SiDo: "Nowhere"})

	_, err := s.store.FindContaining(s.ctx, 50, 50)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemorySuite) TestListAll() {
	regions, err := s.store.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Len(regions, 3)
}
