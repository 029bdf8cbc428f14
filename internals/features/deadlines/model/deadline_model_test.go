package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsOpenAt(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	window := ApplicationDeadline{
		StartDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC),
		IsActive:  true,
	}

	assert.True(t, window.IsOpenAt(now))
	assert.True(t, window.IsOpenAt(window.StartDate))
	assert.True(t, window.IsOpenAt(window.EndDate))
	assert.False(t, window.IsOpenAt(window.StartDate.Add(-time.Second)))
	assert.False(t, window.IsOpenAt(window.EndDate.Add(time.Second)))

	inactive := window
	inactive.IsActive = false
	assert.False(t, inactive.IsOpenAt(now))
}

func TestDaysRemainingAt(t *testing.T) {
	window := ApplicationDeadline{
		StartDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
	}

	assert.Equal(t, 3, window.DaysRemainingAt(time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 0, window.DaysRemainingAt(time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)))
	// Closed window reports zero, not negative
	assert.Equal(t, 0, window.DaysRemainingAt(time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)))
}
