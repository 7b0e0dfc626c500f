//go:build integration

package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meeyqueue/case-backend/internal/models"
	"github.com/meeyqueue/case-backend/internal/repository"
	"github.com/meeyqueue/case-backend/internal/testutil/containers"
)

func TestRedisCounterSeedsFromRepository(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	ctx := context.Background()
	require.NoError(t, rc.FlushAll(ctx))

	loc := singapore(t)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, loc)
	cases := repository.NewInMemoryCaseRepository()
	require.NoError(t, cases.Create(ctx, &models.Case{
		ID: uuid.New(), UserID: uuid.New(), Location: "L1", QueueNo: 4, CreatedAt: now,
	}))

	counter := NewRedisCounter(rc.Client, NewRepositoryCounter(cases, loc), loc)
	n, err := counter.Next(ctx, "L1", now)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = counter.Next(ctx, "L1", now)
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	ttl, err := rc.Client.TTL(ctx, counter.key("L1", now)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 47*time.Hour)
}

func TestRedisCounterConcurrentNumbersAreUnique(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	ctx := context.Background()
	require.NoError(t, rc.FlushAll(ctx))

	loc := singapore(t)
	now := time.Now().In(loc)
	counter := NewRedisCounter(rc.Client, NewRepositoryCounter(repository.NewInMemoryCaseRepository(), loc), loc)

	const workers = 20
	var (
		mu   sync.Mutex
		seen = make(map[int]bool)
		wg   sync.WaitGroup
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := counter.Next(ctx, "L9", now)
			assert.NoError(t, err)
			mu.Lock()
			seen[n] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers)
	for i := 1; i <= workers; i++ {
		assert.True(t, seen[i], "missing number %d", i)
	}
}
