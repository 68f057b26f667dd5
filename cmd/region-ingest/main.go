// Command region-ingest seeds the region catalog from a GeoJSON
// FeatureCollection of administrative boundaries. Rows upsert by
// administrative code, so re-running against a refreshed dataset is safe.
//
// Usage:
//
//	DATABASE_URL=postgres://... region-ingest -file districts.geojson
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"territory/internal/platform/logger"
	"territory/internal/platform/postgres"
	"territory/internal/territory/geo"
	"territory/internal/territory/models"
	regionstore "territory/internal/territory/store/region"
)

type feature struct {
	Properties struct {
		SigCd  string `json:"sig_cd"`
		NameKo string `json:"name_ko"`
		Parent string `json:"parent"`
	} `json:"properties"`
	Geometry json.RawMessage `json:"geometry"`
}

type featureCollection struct {
	Features []feature `json:"features"`
}

func main() {
	file := flag.String("file", "", "path to the GeoJSON FeatureCollection")
	flag.Parse()

	log := logger.New()
	if *file == "" {
		log.Error("missing -file flag")
		os.Exit(2)
	}

	ctx := context.Background()
	db, err := postgres.Open(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Error("postgres connection failed", "error", err.Error())
		os.Exit(1)
	}
	defer db.Close()

	store := regionstore.NewPostgres(db)

	count, err := ingest(ctx, store, *file)
	if err != nil {
		log.Error("ingest failed", "error", err.Error())
		os.Exit(1)
	}
	log.Info("region catalog seeded", "regions", count, "file", *file)
}

func ingest(ctx context.Context, store *regionstore.PostgresStore, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read dataset: %w", err)
	}

	var fc featureCollection
	if err := json.Unmarshal(raw, &fc); err != nil {
		return 0, fmt.Errorf("decode dataset: %w", err)
	}

	count := 0
	for i, f := range fc.Features {
		sigCd := strings.TrimSpace(f.Properties.SigCd)
		if sigCd == "" {
			return count, fmt.Errorf("feature %d has no sig_cd", i)
		}
		var geom *models.Geometry
		if len(f.Geometry) > 0 {
			geom, err = geo.ParseGeometry(f.Geometry)
			if err != nil {
				return count, fmt.Errorf("feature %s: %w", sigCd, err)
			}
		}
		region := &models.Region{
			ID:    sigCd,
			SigCd: sigCd,
			GuSi:  strings.TrimSpace(f.Properties.NameKo),
			SiDo:  strings.TrimSpace(f.Properties.Parent),
			Geom:  geom,
		}
		if err := store.Upsert(ctx, region); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
