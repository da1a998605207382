// Package quota implements the daily per-client request quota gate.
package quota

import (
	"context"
	"log/slog"
	"time"
)

// usageRepo defines the storage interface needed by the quota gate. The
// increment must be a single atomic create-or-increment; see the postgres
// adapter.
type usageRepo interface {
	IncrementWithinLimit(ctx context.Context, clientID, day string, limit int) (count int, allowed bool, err error)
}

// loopback identifiers are always admitted and never touch storage, so
// local development is unaffected by the quota.
var loopback = map[string]struct{}{
	"127.0.0.1": {},
	"::1":       {},
	"localhost": {},
}

// Gate is the daily quota gate.
type Gate struct {
	log   *slog.Logger
	repo  usageRepo
	limit int
	now   func() time.Time
}

// NewGate creates a Gate with the given daily limit.
func NewGate(logger *slog.Logger, repo usageRepo, dailyLimit int) *Gate {
	return &Gate{
		log:   logger.With("service", "quota"),
		repo:  repo,
		limit: dailyLimit,
		now:   time.Now,
	}
}

// CheckAndConsume reports whether clientID may make one more chargeable
// request today and, if so, consumes one unit. remaining is the number of
// requests left after this one (0 when the limit is exactly reached).
// Loopback clients are admitted unconditionally before any storage access
// and reported with remaining equal to the full limit.
func (g *Gate) CheckAndConsume(ctx context.Context, clientID string) (allowed bool, remaining int, err error) {
	if _, ok := loopback[clientID]; ok {
		return true, g.limit, nil
	}

	day := g.now().UTC().Format(time.DateOnly)

	count, allowed, err := g.repo.IncrementWithinLimit(ctx, clientID, day, g.limit)
	if err != nil {
		return false, 0, err
	}
	if !allowed {
		g.log.InfoContext(ctx, "quota denied", slog.String("client_id", clientID), slog.String("day", day))
		return false, 0, nil
	}

	return true, g.limit - count, nil
}
