package service

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"masingacdf_backend/internals/constants"
	"masingacdf_backend/internals/features/applications/model"
)

func TestTransition_NoOpWritesNothing(t *testing.T) {
	db, mock := newMockDB(t)
	tr := NewStatusTransitioner(db)

	app := &model.BursaryApplication{
		ApplicationID: uuid.New(),
		Status:        constants.StatusPending,
	}

	result, err := tr.Transition(app, constants.StatusPending, nil, "")
	require.NoError(t, err)

	assert.False(t, result.Changed)
	assert.Equal(t, constants.StatusPending, result.OldStatus)
	assert.Nil(t, result.Log)
	// No Begin/Exec expectations registered: any SQL would fail here
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransition_UpdatesAndLogsAtomically(t *testing.T) {
	db, mock := newMockDB(t)
	tr := NewStatusTransitioner(db)

	actor := uuid.New()
	app := &model.BursaryApplication{
		ApplicationID: uuid.New(),
		Status:        constants.StatusPending,
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "bursary_applications" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "application_status_logs"`)).
		WillReturnRows(sqlmock.NewRows([]string{"status_log_id"}).AddRow(uuid.New()))
	mock.ExpectCommit()

	result, err := tr.Transition(app, constants.StatusApproved, &actor, "Verified by committee")
	require.NoError(t, err)

	assert.True(t, result.Changed)
	assert.Equal(t, constants.StatusPending, result.OldStatus)
	assert.Equal(t, constants.StatusApproved, result.NewStatus)
	assert.Equal(t, constants.StatusApproved, app.Status)
	require.NotNil(t, result.Log)
	assert.Equal(t, &actor, result.Log.ChangedBy)
	assert.Equal(t, "Verified by committee", result.Log.Reason)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransition_RollsBackWhenLogInsertFails(t *testing.T) {
	db, mock := newMockDB(t)
	tr := NewStatusTransitioner(db)

	app := &model.BursaryApplication{
		ApplicationID: uuid.New(),
		Status:        constants.StatusPending,
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "bursary_applications" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "application_status_logs"`)).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := tr.Transition(app, constants.StatusRejected, nil, "")
	require.Error(t, err)

	// In-memory status must stay untouched after a rollback
	assert.Equal(t, constants.StatusPending, app.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDiffTrackedFields(t *testing.T) {
	before := &model.BursaryApplication{
		InstitutionName: "Machakos University",
		Amount:          20000,
		Ward:            "kivaa",
		PhoneNumber:     "0712345678",
		Email:           "jane@example.com",
	}
	after := *before
	after.Amount = 25000
	after.Ward = "ndithini"

	changes := DiffTrackedFields(before, &after)
	require.Len(t, changes, 2)

	assert.Equal(t, "amount", changes[0].Field)
	assert.Equal(t, "amount: 20000 → 25000", changes[0].String())
	assert.Equal(t, "ward", changes[1].Field)

	assert.Empty(t, DiffTrackedFields(before, before))
}

func TestDiffEditableFields(t *testing.T) {
	before := &model.BursaryApplication{
		InstitutionName: "Machakos University",
		Amount:          20000,
		Ward:            "kivaa",
		PhoneNumber:     "0712345678",
		Email:           "jane@example.com",
		Village:         "Kaewa",
		AdmissionNumber: "ADM-001",
	}

	t.Run("untracked fields still count as changes", func(t *testing.T) {
		after := *before
		after.Village = "Ithanga"
		after.AdmissionNumber = "ADM-002"

		changes := DiffEditableFields(before, &after)
		require.Len(t, changes, 2)
		assert.Equal(t, "village", changes[0].Field)
		assert.Equal(t, "admission_number", changes[1].Field)

		// The audit view of the same edit is empty
		assert.Empty(t, DiffTrackedFields(before, &after))
	})

	t.Run("tracked fields appear in both diffs", func(t *testing.T) {
		after := *before
		after.Amount = 30000

		assert.Len(t, DiffEditableFields(before, &after), 1)
		assert.Len(t, DiffTrackedFields(before, &after), 1)
	})
}

func TestRecordSelfEdit(t *testing.T) {
	db, mock := newMockDB(t)
	tr := NewStatusTransitioner(db)

	app := &model.BursaryApplication{
		ApplicationID: uuid.New(),
		Status:        constants.StatusPending,
	}

	t.Run("no changes writes nothing", func(t *testing.T) {
		logRow, err := tr.RecordSelfEdit(app, nil)
		require.NoError(t, err)
		assert.Nil(t, logRow)
	})

	t.Run("changes produce a same-status audit row", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "application_status_logs"`)).
			WillReturnRows(sqlmock.NewRows([]string{"status_log_id"}).AddRow(uuid.New()))
		mock.ExpectCommit()

		changes := []FieldChange{{Field: "amount", Old: "20000", New: "25000"}}
		logRow, err := tr.RecordSelfEdit(app, changes)
		require.NoError(t, err)

		require.NotNil(t, logRow)
		assert.Equal(t, logRow.OldStatus, logRow.NewStatus)
		assert.Nil(t, logRow.ChangedBy)
		assert.Contains(t, logRow.Reason, "edited by applicant")
		assert.Contains(t, logRow.Reason, "amount: 20000 → 25000")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
