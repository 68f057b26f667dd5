package unlock

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"territory/internal/territory/models"
	"territory/pkg/platform/sentinel"
	"territory/pkg/platform/tx"
)

// PostgresStore persists unlock records with a unique compound key on
// (couple_id, region_id). The conditional upsert makes concurrent unlocks of
// the same pair converge to one row with a single unlock timestamp.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const recordColumns = `id, couple_id, region_id, is_locked, unlocked_at, unlock_type, selected_by`

func (s *PostgresStore) Find(ctx context.Context, coupleID, regionID string) (*models.UnlockRecord, error) {
	row := tx.Resolve(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM couple_region
		 WHERE couple_id = $1 AND region_id = $2`, coupleID, regionID)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	return rec, err
}

// Upsert inserts or merges one record. The ON CONFLICT clause encodes the
// unlock state machine so it holds under concurrent writers:
//   - an unlocked row never re-locks,
//   - unlocked_at is set exactly once, on the locked-to-unlocked flip,
//   - empty metadata never erases previously stored values.
func (s *PostgresStore) Upsert(ctx context.Context, rec *models.UnlockRecord) (*models.UnlockRecord, error) {
	id := rec.ID
	if id == "" {
		id = uuid.NewString()
	}
	row := tx.Resolve(ctx, s.db).QueryRowContext(ctx,
		`INSERT INTO couple_region (`+recordColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (couple_id, region_id) DO UPDATE SET
		   is_locked   = couple_region.is_locked AND excluded.is_locked,
		   unlocked_at = CASE
		     WHEN couple_region.is_locked AND NOT excluded.is_locked
		       THEN excluded.unlocked_at
		     ELSE couple_region.unlocked_at
		   END,
		   unlock_type = CASE
		     WHEN excluded.unlock_type <> '' THEN excluded.unlock_type
		     ELSE couple_region.unlock_type
		   END,
		   selected_by = CASE
		     WHEN excluded.selected_by <> '' THEN excluded.selected_by
		     ELSE couple_region.selected_by
		   END
		 RETURNING `+recordColumns,
		id, rec.CoupleID, rec.RegionID, rec.Locked, nullTime(rec.UnlockedAt),
		rec.UnlockType, rec.SelectedBy)
	stored, err := scanRecord(row)
	if err != nil {
		return nil, fmt.Errorf("upsert unlock record: %w", err)
	}
	return stored, nil
}

func (s *PostgresStore) ListUnlocked(ctx context.Context, coupleID string) ([]*models.UnlockRecord, error) {
	rows, err := tx.Resolve(ctx, s.db).QueryContext(ctx,
		`SELECT `+recordColumns+` FROM couple_region
		 WHERE couple_id = $1 AND is_locked = false
		 ORDER BY unlocked_at`, coupleID)
	if err != nil {
		return nil, fmt.Errorf("list unlocked records: %w", err)
	}
	defer rows.Close()

	var records []*models.UnlockRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate unlock records: %w", err)
	}
	return records, nil
}

// RunInTx wraps fn in a database transaction; store calls inside fn join it
// through the context.
func (s *PostgresStore) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return tx.Run(ctx, s.db, fn)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*models.UnlockRecord, error) {
	var rec models.UnlockRecord
	var unlockedAt sql.NullTime
	var unlockType, selectedBy sql.NullString
	err := row.Scan(&rec.ID, &rec.CoupleID, &rec.RegionID, &rec.Locked,
		&unlockedAt, &unlockType, &selectedBy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("scan unlock record: %w", err)
	}
	if unlockedAt.Valid {
		t := unlockedAt.Time
		rec.UnlockedAt = &t
	}
	rec.UnlockType = unlockType.String
	rec.SelectedBy = selectedBy.String
	return &rec, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
