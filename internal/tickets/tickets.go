// Package tickets tracks each couple's unlock-ticket balance in Redis. The
// gateway seeds balances; this service reads and consumes them when ticket
// enforcement is enabled.
package tickets

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	dErrors "territory/pkg/domainerrors"
)

const (
	keyPrefix = "couple:ticket:"
	cacheTTL  = 24 * time.Hour
)

// Service manages per-couple ticket counters.
type Service struct {
	client *redis.Client
	logger *slog.Logger
}

func New(client *redis.Client, logger *slog.Logger) *Service {
	return &Service{client: client, logger: logger}
}

func key(coupleID string) string { return keyPrefix + coupleID }

// Set stores the couple's balance with the standard TTL.
func (s *Service) Set(ctx context.Context, coupleID string, count int) error {
	if err := s.client.Set(ctx, key(coupleID), count, cacheTTL).Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "ticket balance write failed")
	}
	return nil
}

// Get returns the couple's balance. A missing key reads as zero.
func (s *Service) Get(ctx context.Context, coupleID string) (int, error) {
	count, err := s.client.Get(ctx, key(coupleID)).Int()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "ticket balance read failed")
	}
	return count, nil
}

// Has reports whether the couple holds at least one ticket.
func (s *Service) Has(ctx context.Context, coupleID string) (bool, error) {
	count, err := s.Get(ctx, coupleID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Consume decrements the balance by one. Returns false without writing below
// zero when the couple has no tickets left; the decrement is undone if it
// raced the balance under zero.
func (s *Service) Consume(ctx context.Context, coupleID string) (bool, error) {
	remaining, err := s.client.Decr(ctx, key(coupleID)).Result()
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "ticket consume failed")
	}
	if remaining < 0 {
		if err := s.client.Incr(ctx, key(coupleID)).Err(); err != nil {
			s.logger.WarnContext(ctx, "ticket balance restore failed",
				"couple_id", coupleID, "error", err.Error())
		}
		return false, nil
	}
	return true, nil
}

// Restore returns a consumed ticket to the balance. Failures are logged and
// swallowed: a refund must never fail the request that triggered it.
func (s *Service) Restore(ctx context.Context, coupleID string) {
	if err := s.client.Incr(ctx, key(coupleID)).Err(); err != nil {
		s.logger.WarnContext(ctx, "ticket balance restore failed",
			"couple_id", coupleID, "error", err.Error())
	}
}

// Delete drops the couple's balance entry.
func (s *Service) Delete(ctx context.Context, coupleID string) error {
	if err := s.client.Del(ctx, key(coupleID)).Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "ticket balance delete failed")
	}
	return nil
}
