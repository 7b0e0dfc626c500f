package queue

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meeyqueue/case-backend/internal/models"
	"github.com/meeyqueue/case-backend/internal/repository"
)

func singapore(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Singapore")
	require.NoError(t, err)
	return loc
}

func TestDayWindow(t *testing.T) {
	loc := singapore(t)

	// 17:30 UTC on the 9th is 01:30 on the 10th in Singapore.
	now := time.Date(2026, 3, 9, 17, 30, 0, 0, time.UTC)
	start, end := DayWindow(now, loc)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2026, 3, 11, 0, 0, 0, 0, loc), end)
	assert.True(t, !now.Before(start) && now.Before(end))

	start, end = DayWindow(now, nil)
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, 24*time.Hour, end.Sub(start))
}

func TestRepositoryCounter(t *testing.T) {
	ctx := context.Background()
	loc := singapore(t)
	cases := repository.NewInMemoryCaseRepository()
	counter := NewRepositoryCounter(cases, loc)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, loc)

	for want := 1; want <= 3; want++ {
		n, err := counter.Next(ctx, "L1", now)
		require.NoError(t, err)
		assert.Equal(t, want, n)
		require.NoError(t, cases.Create(ctx, &models.Case{
			ID: uuid.New(), UserID: uuid.New(), Location: "L1", QueueNo: n,
			CreatedAt: now.Add(time.Duration(want) * time.Minute),
		}))
	}

	n, err := counter.Next(ctx, "L2", now)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "locations are numbered independently")

	n, err = counter.Next(ctx, "L1", now.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, n, "numbering restarts each day")
}
