// Package queue hands out per-location, per-day queue numbers.
package queue

import (
	"context"
	"time"
)

// Counter returns the next queue number for a location on the calendar day
// that contains now.
type Counter interface {
	Next(ctx context.Context, location string, now time.Time) (int, error)
}

// DayWindow returns [start, end) of the calendar day containing now in loc.
func DayWindow(now time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}
