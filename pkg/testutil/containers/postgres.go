//go:build integration

package containers

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// PostgresContainer wraps a testcontainers PostGIS instance with the
// territory schema applied.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

const schema = `
CREATE EXTENSION IF NOT EXISTS postgis;

CREATE TABLE IF NOT EXISTS region (
	id     TEXT PRIMARY KEY,
	sig_cd TEXT NOT NULL UNIQUE,
	gu_si  TEXT NOT NULL,
	si_do  TEXT NOT NULL,
	geom   geometry(Geometry, 4326)
);
CREATE INDEX IF NOT EXISTS region_geom_idx ON region USING gist (geom);
CREATE INDEX IF NOT EXISTS region_gu_si_idx ON region (gu_si);

CREATE TABLE IF NOT EXISTS couple_region (
	id          TEXT PRIMARY KEY,
	couple_id   TEXT NOT NULL,
	region_id   TEXT NOT NULL REFERENCES region (id),
	is_locked   BOOLEAN NOT NULL DEFAULT true,
	unlocked_at TIMESTAMPTZ,
	unlock_type TEXT NOT NULL DEFAULT '',
	selected_by TEXT NOT NULL DEFAULT '',
	UNIQUE (couple_id, region_id)
);
CREATE INDEX IF NOT EXISTS couple_region_couple_idx ON couple_region (couple_id);
`

// NewPostgresContainer starts a PostGIS container, applies the schema, and
// opens a pooled connection. Terminated when the test finishes.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgis/postgis:16-3.4-alpine",
		tcpostgres.WithDatabase("territory_test"),
		tcpostgres.WithUsername("territory"),
		tcpostgres.WithPassword("territory"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(2*time.Minute),
		),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("postgres connection string: %v", err)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("ping postgres: %v", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		t.Fatalf("apply schema: %v", err)
	}

	return &PostgresContainer{Container: container, DSN: dsn, DB: db}
}

// TruncateTables empties the territory tables between tests.
func (p *PostgresContainer) TruncateTables(ctx context.Context) error {
	_, err := p.DB.ExecContext(ctx, `TRUNCATE couple_region, region CASCADE`)
	return err
}
