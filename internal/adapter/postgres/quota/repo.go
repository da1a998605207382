// Package quota implements daily usage-count persistence using PostgreSQL.
package quota

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/itzulbide/alignd/internal/adapter/postgres"
)

// Repo provides quota usage persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new quota repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// incrementSQL creates-or-increments the usage row for (client_id, day) in
// one atomic statement. The insert arm only fires when the limit admits at
// least one request; the update arm only fires while the stored count is
// below the limit. When neither arm applies no row is returned and the
// stored count is left untouched, so denial is side-effect-free.
const incrementSQL = `
INSERT INTO quota_usage (client_id, day, count)
SELECT $1, $2, 1 WHERE $3 >= 1
ON CONFLICT (client_id, day) DO UPDATE
    SET count = quota_usage.count + 1
    WHERE quota_usage.count < $3
RETURNING count`

// IncrementWithinLimit atomically increments the counter for (clientID, day)
// if and only if the stored count is below limit. It returns the count after
// the increment and whether the request was admitted. Concurrent calls for
// the same key serialize on the upsert; no check-then-write gap is visible
// to other callers.
func (r *Repo) IncrementWithinLimit(ctx context.Context, clientID, day string, limit int) (int, bool, error) {
	var count int
	err := r.pool.QueryRow(ctx, incrementSQL, clientID, day, limit).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, postgres.MapError(err, "quota_usage")
	}
	return count, true, nil
}

// Count returns the stored count for (clientID, day), or zero when no row
// exists. Used by tests and the non-streaming inspection path; the hot path
// never reads without incrementing.
func (r *Repo) Count(ctx context.Context, clientID, day string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT count FROM quota_usage WHERE client_id = $1 AND day = $2`,
		clientID, day,
	).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, postgres.MapError(err, "quota_usage")
	}
	return count, nil
}
