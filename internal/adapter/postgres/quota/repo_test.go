package quota_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itzulbide/alignd/internal/adapter/postgres/quota"
	"github.com/itzulbide/alignd/internal/adapter/postgres/testhelper"
)

func newRepo(t *testing.T) *quota.Repo {
	t.Helper()
	return quota.New(testhelper.SetupTestDB(t))
}

// freshClient returns a client ID no other test uses, so counts never leak
// between parallel tests sharing the container.
func freshClient() string {
	return "203.0.113." + uuid.New().String()[:8]
}

func TestRepo_IncrementWithinLimit_Counting(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()

	client := freshClient()
	const limit = 3

	for k := 1; k <= limit; k++ {
		count, allowed, err := repo.IncrementWithinLimit(ctx, client, "2026-08-29", limit)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be admitted", k)
		assert.Equal(t, k, count)
	}

	_, allowed, err := repo.IncrementWithinLimit(ctx, client, "2026-08-29", limit)
	require.NoError(t, err)
	assert.False(t, allowed)
}

// A denied call must leave the stored count untouched: raising the limit
// afterwards admits the client again with the old count intact.
func TestRepo_IncrementWithinLimit_DenialIsSideEffectFree(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()

	client := freshClient()

	_, allowed, err := repo.IncrementWithinLimit(ctx, client, "2026-08-29", 1)
	require.NoError(t, err)
	require.True(t, allowed)

	for i := 0; i < 3; i++ {
		_, allowed, err = repo.IncrementWithinLimit(ctx, client, "2026-08-29", 1)
		require.NoError(t, err)
		assert.False(t, allowed)
	}

	count, err := repo.Count(ctx, client, "2026-08-29")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, allowed, err = repo.IncrementWithinLimit(ctx, client, "2026-08-29", 5)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 2, count)
}

func TestRepo_IncrementWithinLimit_ZeroLimitNeverInserts(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()

	client := freshClient()

	_, allowed, err := repo.IncrementWithinLimit(ctx, client, "2026-08-29", 0)
	require.NoError(t, err)
	assert.False(t, allowed)

	count, err := repo.Count(ctx, client, "2026-08-29")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRepo_IncrementWithinLimit_ClientsIndependent(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()

	a, b := freshClient(), freshClient()

	_, allowed, err := repo.IncrementWithinLimit(ctx, a, "2026-08-29", 1)
	require.NoError(t, err)
	require.True(t, allowed)

	_, allowed, err = repo.IncrementWithinLimit(ctx, b, "2026-08-29", 1)
	require.NoError(t, err)
	assert.True(t, allowed, "second client must not share the first client's count")
}

func TestRepo_IncrementWithinLimit_DaysIndependent(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()

	client := freshClient()

	_, allowed, err := repo.IncrementWithinLimit(ctx, client, "2026-08-29", 1)
	require.NoError(t, err)
	require.True(t, allowed)

	_, allowed, err = repo.IncrementWithinLimit(ctx, client, "2026-08-29", 1)
	require.NoError(t, err)
	require.False(t, allowed)

	// Next day: quota is full again; yesterday's row is simply never consulted.
	count, allowed, err := repo.IncrementWithinLimit(ctx, client, "2026-08-30", 1)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 1, count)
}

// Concurrent increments for the same key must never lose an update or admit
// more than limit requests.
func TestRepo_IncrementWithinLimit_ConcurrentAtomicity(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()

	client := freshClient()
	const limit = 10
	const callers = 25

	var wg sync.WaitGroup
	admitted := make(chan bool, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, allowed, err := repo.IncrementWithinLimit(ctx, client, "2026-08-29", limit)
			assert.NoError(t, err)
			admitted <- allowed
		}()
	}
	wg.Wait()
	close(admitted)

	var yes int
	for ok := range admitted {
		if ok {
			yes++
		}
	}
	assert.Equal(t, limit, yes)

	count, err := repo.Count(ctx, client, "2026-08-29")
	require.NoError(t, err)
	assert.Equal(t, limit, count)
}
