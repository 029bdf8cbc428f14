package controller

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return gdb, mock
}

func TestExportCSV_AppliesDateRangeFilter(t *testing.T) {
	db, mock := newMockDB(t)
	ctrl := NewExportController(db)

	app := fiber.New()
	app.Get("/exports/applications.csv", ctrl.ExportCSV)

	// The query must carry both date bounds alongside the status filter
	mock.ExpectQuery(`status = .*submitted_at >= .*submitted_at < `).
		WillReturnRows(sqlmock.NewRows([]string{
			"application_id", "reference_number", "full_name", "status", "amount", "submitted_at",
		}).AddRow(
			uuid.New(), "MNG-AAAA1111", "Jane Mwikali", "approved", 25000,
			time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC),
		))

	req := httptest.NewRequest("GET",
		"/exports/applications.csv?status=approved&submitted_from=2026-01-01&submitted_to=2026-03-31", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get(fiber.HeaderContentType))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Reference Number,Full Name")
	assert.Contains(t, string(body), "MNG-AAAA1111")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExportCSV_InvalidDatesAreIgnored(t *testing.T) {
	db, mock := newMockDB(t)
	ctrl := NewExportController(db)

	app := fiber.New()
	app.Get("/exports/applications.csv", ctrl.ExportCSV)

	// Malformed dates fall away rather than erroring the export
	mock.ExpectQuery(`SELECT .* FROM "bursary_applications" ORDER BY submitted_at`).
		WillReturnRows(sqlmock.NewRows([]string{"application_id", "reference_number"}))

	req := httptest.NewRequest("GET", "/exports/applications.csv?submitted_from=not-a-date", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, mock.ExpectationsWereMet())
}
