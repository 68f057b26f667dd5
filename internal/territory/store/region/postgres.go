package region

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"territory/internal/territory/geo"
	"territory/internal/territory/models"
	"territory/pkg/platform/sentinel"
	"territory/pkg/platform/tx"
)

// PostgresStore serves the region catalog from PostgreSQL with PostGIS.
// The geom column answers containment queries; geometry travels to and from
// Go as GeoJSON via ST_AsGeoJSON / ST_GeomFromGeoJSON.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostGIS-backed region store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const regionColumns = `id, sig_cd, gu_si, si_do, ST_AsGeoJSON(geom)`

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*models.Region, error) {
	row := tx.Resolve(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+regionColumns+` FROM region WHERE id = $1`, id)
	return scanRegion(row)
}

func (s *PostgresStore) FindByCode(ctx context.Context, code string) (*models.Region, error) {
	row := tx.Resolve(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+regionColumns+` FROM region WHERE sig_cd = $1`, code)
	return scanRegion(row)
}

func (s *PostgresStore) FindByName(ctx context.Context, name string) (*models.Region, error) {
	row := tx.Resolve(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+regionColumns+` FROM region WHERE gu_si = $1 LIMIT 1`, name)
	return scanRegion(row)
}

// FindContaining runs the point-in-polygon query. Boundary ties resolve to
// whichever single row PostGIS returns first.
func (s *PostgresStore) FindContaining(ctx context.Context, lon, lat float64) (*models.Region, error) {
	row := tx.Resolve(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+regionColumns+` FROM region
		 WHERE ST_Contains(geom, ST_SetSRID(ST_MakePoint($1, $2), 4326))
		 LIMIT 1`, lon, lat)
	return scanRegion(row)
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]*models.Region, error) {
	rows, err := tx.Resolve(ctx, s.db).QueryContext(ctx,
		`SELECT `+regionColumns+` FROM region ORDER BY si_do, gu_si`)
	if err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}
	defer rows.Close()

	var regions []*models.Region
	for rows.Next() {
		r, err := scanRegionRow(rows)
		if err != nil {
			return nil, err
		}
		regions = append(regions, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate regions: %w", err)
	}
	return regions, nil
}

// Upsert seeds or refreshes one catalog row keyed by administrative code.
// Only the ingest tool writes; the serving path never calls this.
func (s *PostgresStore) Upsert(ctx context.Context, r *models.Region) error {
	var geomJSON any
	if !r.Geom.Empty() {
		encoded, err := geo.EncodeGeometry(r.Geom)
		if err != nil {
			return fmt.Errorf("encode geometry for %s: %w", r.SigCd, err)
		}
		geomJSON = string(encoded)
	}
	_, err := tx.Resolve(ctx, s.db).ExecContext(ctx,
		`INSERT INTO region (id, sig_cd, gu_si, si_do, geom)
		 VALUES ($1, $2, $3, $4, ST_SetSRID(ST_GeomFromGeoJSON($5), 4326))
		 ON CONFLICT (sig_cd) DO UPDATE SET
		   gu_si = excluded.gu_si,
		   si_do = excluded.si_do,
		   geom  = excluded.geom`,
		r.ID, r.SigCd, r.GuSi, r.SiDo, geomJSON)
	if err != nil {
		return fmt.Errorf("upsert region %s: %w", r.SigCd, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRegion(row *sql.Row) (*models.Region, error) {
	r, err := scanRegionRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	return r, err
}

func scanRegionRow(row rowScanner) (*models.Region, error) {
	var r models.Region
	var geomJSON sql.NullString
	if err := row.Scan(&r.ID, &r.SigCd, &r.GuSi, &r.SiDo, &geomJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan region: %w", err)
	}
	if geomJSON.Valid && geomJSON.String != "" {
		geom, err := geo.ParseGeometry([]byte(geomJSON.String))
		if err != nil {
			// Invalid stored geometry makes the region unresolvable
			// rather than poisoning whole-catalog reads.
			return nil, fmt.Errorf("region %s: %w", r.ID, err)
		}
		r.Geom = geom
	}
	return &r, nil
}
