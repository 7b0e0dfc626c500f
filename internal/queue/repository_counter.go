package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/meeyqueue/case-backend/internal/repository"
)

// RepositoryCounter derives the next number from the latest case stored for
// the location and day. Two concurrent intakes can read the same latest case
// and receive the same number.
type RepositoryCounter struct {
	cases repository.CaseRepository
	loc   *time.Location
}

func NewRepositoryCounter(cases repository.CaseRepository, loc *time.Location) *RepositoryCounter {
	return &RepositoryCounter{cases: cases, loc: loc}
}

func (c *RepositoryCounter) Next(ctx context.Context, location string, now time.Time) (int, error) {
	latest, err := c.current(ctx, location, now)
	if err != nil {
		return 0, err
	}
	return latest + 1, nil
}

// current returns the highest number already issued today, 0 when none.
func (c *RepositoryCounter) current(ctx context.Context, location string, now time.Time) (int, error) {
	start, end := DayWindow(now, c.loc)
	latest, err := c.cases.FindLatestByLocationAndDay(ctx, location, start, end)
	if err != nil {
		return 0, fmt.Errorf("latest queue number: %w", err)
	}
	if latest == nil {
		return 0, nil
	}
	return latest.QueueNo, nil
}
