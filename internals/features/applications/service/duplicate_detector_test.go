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

func emptyApplications() *sqlmock.Rows {
	return sqlmock.NewRows(applicationColumns)
}

func oneApplication(reference string) *sqlmock.Rows {
	return sqlmock.NewRows(applicationColumns).AddRow(
		uuid.New(), reference, constants.StatusPending, time.Now().Add(-48*time.Hour),
		"12345678", "Jane Mwikali", "jane@example.com", "0712345678",
		"Machakos University", "ADM-001", "kivaa",
	)
}

func fullCandidate() DuplicateCandidate {
	return DuplicateCandidate{
		IDNumber:        "12345678",
		Email:           "jane@example.com",
		PhoneNumber:     "0712345678",
		FullName:        "Jane Mwikali",
		Ward:            "kivaa",
		InstitutionName: "Machakos University",
		AdmissionNumber: "ADM-001",
	}
}

func TestDuplicateDetector_ExactIDBlocks(t *testing.T) {
	db, mock := newMockDB(t)
	detector := NewDuplicateDetector(db)

	mock.ExpectQuery(regexp.QuoteMeta(`id_number = `)).
		WillReturnRows(oneApplication("MNG-AAAA1111"))

	result, err := detector.Check(fullCandidate())
	require.NoError(t, err)

	assert.True(t, result.Blocked)
	assert.False(t, result.Suspicious)
	assert.Equal(t, MatchExactID, result.MatchType)
	assert.Equal(t, "MNG-AAAA1111", result.ExistingReference)
	assert.Contains(t, result.Reason, "12345678")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDuplicateDetector_EmailPhoneBlocks(t *testing.T) {
	db, mock := newMockDB(t)
	detector := NewDuplicateDetector(db)

	mock.ExpectQuery(regexp.QuoteMeta(`id_number = `)).
		WillReturnRows(emptyApplications())
	// Windowed rules must skip rejected records
	mock.ExpectQuery(`email = .* AND phone_number = .*status <> `).
		WillReturnRows(oneApplication("MNG-BBBB2222"))

	result, err := detector.Check(fullCandidate())
	require.NoError(t, err)

	assert.True(t, result.Blocked)
	assert.Equal(t, MatchEmailPhone, result.MatchType)
	assert.Equal(t, "MNG-BBBB2222", result.ExistingReference)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDuplicateDetector_InstitutionAdmissionBlocks(t *testing.T) {
	db, mock := newMockDB(t)
	detector := NewDuplicateDetector(db)

	mock.ExpectQuery(regexp.QuoteMeta(`id_number = `)).
		WillReturnRows(emptyApplications())
	mock.ExpectQuery(regexp.QuoteMeta(`email = `)).
		WillReturnRows(emptyApplications())
	mock.ExpectQuery(`LOWER\(institution_name\) = LOWER\(.*admission_number = `).
		WillReturnRows(oneApplication("MNG-CCCC3333"))

	result, err := detector.Check(fullCandidate())
	require.NoError(t, err)

	assert.True(t, result.Blocked)
	assert.Equal(t, MatchInstitutionAdmission, result.MatchType)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDuplicateDetector_FuzzyWarnsWithoutBlocking(t *testing.T) {
	db, mock := newMockDB(t)
	detector := NewDuplicateDetector(db)

	mock.ExpectQuery(regexp.QuoteMeta(`id_number = `)).
		WillReturnRows(emptyApplications())
	mock.ExpectQuery(regexp.QuoteMeta(`email = `)).
		WillReturnRows(emptyApplications())
	mock.ExpectQuery(regexp.QuoteMeta(`admission_number = `)).
		WillReturnRows(emptyApplications())
	mock.ExpectQuery(`LOWER\(full_name\) = LOWER\(.*ward = `).
		WillReturnRows(oneApplication("MNG-DDDD4444"))

	result, err := detector.Check(fullCandidate())
	require.NoError(t, err)

	assert.False(t, result.Blocked)
	assert.True(t, result.Suspicious)
	assert.Equal(t, MatchFuzzy, result.MatchType)
	assert.False(t, result.Clean())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDuplicateDetector_CleanWhenNothingMatches(t *testing.T) {
	db, mock := newMockDB(t)
	detector := NewDuplicateDetector(db)

	for i := 0; i < 4; i++ {
		mock.ExpectQuery(`SELECT .* FROM "bursary_applications"`).
			WillReturnRows(emptyApplications())
	}

	result, err := detector.Check(fullCandidate())
	require.NoError(t, err)

	assert.True(t, result.Clean())
	assert.Equal(t, MatchNone, result.MatchType)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDuplicateDetector_SkipsOptionalRulesWithoutFields(t *testing.T) {
	db, mock := newMockDB(t)
	detector := NewDuplicateDetector(db)

	// Fast-submit shape: no institution, ward or admission data, so
	// only the two mandatory rules run.
	mock.ExpectQuery(regexp.QuoteMeta(`id_number = `)).
		WillReturnRows(emptyApplications())
	mock.ExpectQuery(regexp.QuoteMeta(`email = `)).
		WillReturnRows(emptyApplications())

	result, err := detector.Check(DuplicateCandidate{
		IDNumber:    "87654321",
		Email:       "tom@example.com",
		PhoneNumber: "0700000001",
	})
	require.NoError(t, err)

	assert.True(t, result.Clean())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAllowReapplication(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		status    string
		submitted time.Time
		allowed   bool
	}{
		{"rejected past cooldown", constants.StatusRejected, now.Add(-91 * 24 * time.Hour), true},
		{"rejected inside cooldown", constants.StatusRejected, now.Add(-30 * 24 * time.Hour), false},
		{"rejected exactly at boundary", constants.StatusRejected, now.Add(-ReapplicationCooldown), false},
		{"pending never reapplies", constants.StatusPending, now.Add(-200 * 24 * time.Hour), false},
		{"approved never reapplies", constants.StatusApproved, now.Add(-200 * 24 * time.Hour), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := &model.BursaryApplication{Status: tc.status, SubmittedAt: tc.submitted}
			allowed, _ := AllowReapplication(app, now)
			assert.Equal(t, tc.allowed, allowed)
		})
	}
}
