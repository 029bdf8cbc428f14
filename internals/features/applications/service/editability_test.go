package service

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"masingacdf_backend/internals/constants"
	"masingacdf_backend/internals/features/applications/model"
)

var deadlineColumns = []string{"deadline_id", "name", "start_date", "end_date", "is_active"}

func expectNoActiveDeadline(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(regexp.QuoteMeta(`FROM "application_deadlines"`)).
		WillReturnRows(sqlmock.NewRows(deadlineColumns))
}

func TestCanEdit_StatusGates(t *testing.T) {
	db, _ := newMockDB(t)
	checker := NewEditabilityChecker(db)
	now := time.Now()

	t.Run("approved is frozen", func(t *testing.T) {
		app := &model.BursaryApplication{Status: constants.StatusApproved, SubmittedAt: now}
		ok, reason := checker.CanEditAt(app, now)
		assert.False(t, ok)
		assert.Contains(t, reason, "approved")
	})

	t.Run("rejected points to reapplication", func(t *testing.T) {
		app := &model.BursaryApplication{Status: constants.StatusRejected, SubmittedAt: now}
		ok, reason := checker.CanEditAt(app, now)
		assert.False(t, ok)
		assert.Contains(t, reason, "new application")
	})
}

func TestCanEdit_WindowExpiry(t *testing.T) {
	db, _ := newMockDB(t)
	checker := NewEditabilityChecker(db)
	now := time.Now()

	// 25 hours after submission the window is gone, whatever the
	// deadline says (no deadline query should even run).
	app := &model.BursaryApplication{
		Status:      constants.StatusPending,
		SubmittedAt: now.Add(-25 * time.Hour),
	}
	ok, reason := checker.CanEditAt(app, now)
	assert.False(t, ok)
	assert.Contains(t, reason, "24 hours")
}

func TestCanEdit_PendingInsideWindow(t *testing.T) {
	db, mock := newMockDB(t)
	checker := NewEditabilityChecker(db)
	now := time.Now()

	expectNoActiveDeadline(mock)

	app := &model.BursaryApplication{
		Status:      constants.StatusPending,
		SubmittedAt: now.Add(-23 * time.Hour),
	}
	ok, reason := checker.CanEditAt(app, now)
	assert.True(t, ok)
	assert.Equal(t, "Application can be edited", reason)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCanEdit_ClosedDeadlineBlocks(t *testing.T) {
	db, mock := newMockDB(t)
	checker := NewEditabilityChecker(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM "application_deadlines"`)).
		WillReturnRows(sqlmock.NewRows(deadlineColumns).AddRow(
			uuid.New(), "2026 Intake", now.Add(-30*24*time.Hour), now.Add(-time.Hour), true,
		))

	app := &model.BursaryApplication{
		Status:      constants.StatusPending,
		SubmittedAt: now.Add(-2 * time.Hour),
	}
	ok, reason := checker.CanEditAt(app, now)
	assert.False(t, ok)
	assert.Contains(t, reason, "deadline has passed")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEditTimeRemaining(t *testing.T) {
	now := time.Now()

	cases := []struct {
		name      string
		submitted time.Time
		want      string
	}{
		{"hours and minutes", now.Add(-90 * time.Minute), "22 hour(s) 30 minute(s)"},
		{"minutes only", now.Add(-23*time.Hour - 30*time.Minute), "30 minute(s)"},
		{"expired", now.Add(-25 * time.Hour), "Expired"},
		{"exactly at the boundary", now.Add(-EditWindow), "Expired"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := &model.BursaryApplication{SubmittedAt: tc.submitted}
			assert.Equal(t, tc.want, EditTimeRemainingAt(app, now))
		})
	}
}
