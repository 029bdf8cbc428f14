package service

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
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

func TestOverview_ServesCachedSnapshot(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewAnalyticsService(db)

	// Fresh cache: no expectations registered, any SQL would fail
	svc.cached = &Overview{TotalApplications: 42}
	svc.cachedAt = time.Now()

	ov, err := svc.Overview()
	require.NoError(t, err)
	assert.Same(t, svc.cached, ov)
	assert.Equal(t, int64(42), ov.TotalApplications)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInvalidate_DropsTheCache(t *testing.T) {
	db, _ := newMockDB(t)
	svc := NewAnalyticsService(db)

	svc.cached = &Overview{TotalApplications: 42}
	svc.cachedAt = time.Now()

	svc.Invalidate()
	assert.Nil(t, svc.cached)
}

func TestOverview_ExpiredCacheRecomputes(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewAnalyticsService(db)

	stale := &Overview{TotalApplications: 42}
	svc.cached = stale
	svc.cachedAt = time.Now().Add(-10 * time.Minute)

	// Recompute path: the first count runs against the database.
	// Failing it here keeps the test short and proves the stale copy
	// was not served.
	mock.ExpectQuery(`SELECT count\(\*\) FROM "bursary_applications"`).
		WillReturnError(assert.AnError)

	_, err := svc.Overview()
	require.Error(t, err)
	assert.Same(t, stale, svc.cached) // failed recompute keeps the old copy
	require.NoError(t, mock.ExpectationsWereMet())
}
