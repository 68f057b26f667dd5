// Package unlock implements the per-couple unlock record stores. Both
// implementations guarantee at most one record per (couple, region) pair and
// merge-preserving upserts so concurrent unlocks of the same pair converge.
package unlock

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"territory/internal/territory/models"
	"territory/pkg/platform/sentinel"
)

// InMemory keeps unlock records in a mutex-guarded map keyed by the compound
// pair key. Used by unit tests and local development.
type InMemory struct {
	mu      sync.RWMutex
	records map[string]*models.UnlockRecord
}

func NewInMemory() *InMemory {
	return &InMemory{records: make(map[string]*models.UnlockRecord)}
}

func pairKey(coupleID, regionID string) string {
	return coupleID + "|" + regionID
}

func (s *InMemory) Find(ctx context.Context, coupleID, regionID string) (*models.UnlockRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rec, ok := s.records[pairKey(coupleID, regionID)]; ok {
		cp := *rec
		return &cp, nil
	}
	return nil, sentinel.ErrNotFound
}

// Upsert merges rec into the stored record for its pair. Merge rules mirror
// the Postgres ON CONFLICT clause: an unlocked row never re-locks, the first
// unlock timestamp is frozen, and empty metadata never erases stored values.
func (s *InMemory) Upsert(ctx context.Context, rec *models.UnlockRecord) (*models.UnlockRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey(rec.CoupleID, rec.RegionID)
	existing, ok := s.records[key]
	if !ok {
		stored := *rec
		if stored.ID == "" {
			stored.ID = uuid.NewString()
		}
		s.records[key] = &stored
		cp := stored
		return &cp, nil
	}

	if existing.Locked && !rec.Locked {
		existing.Locked = false
		existing.UnlockedAt = rec.UnlockedAt
	}
	if rec.UnlockType != "" {
		existing.UnlockType = rec.UnlockType
	}
	if rec.SelectedBy != "" {
		existing.SelectedBy = rec.SelectedBy
	}
	cp := *existing
	return &cp, nil
}

func (s *InMemory) ListUnlocked(ctx context.Context, coupleID string) ([]*models.UnlockRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.UnlockRecord
	for _, rec := range s.records {
		if rec.CoupleID == coupleID && !rec.Locked {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

// RunInTx approximates a transaction by snapshotting the record map and
// restoring it when fn fails, giving batches all-or-nothing semantics.
func (s *InMemory) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	snapshot := make(map[string]*models.UnlockRecord, len(s.records))
	for k, v := range s.records {
		cp := *v
		snapshot[k] = &cp
	}
	s.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.records = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}
