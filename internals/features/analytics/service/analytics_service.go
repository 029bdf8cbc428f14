package service

import (
	"sync"
	"time"

	"gorm.io/gorm"

	"masingacdf_backend/internals/constants"
	applicationModel "masingacdf_backend/internals/features/applications/model"
)

// overviewTTL caches the dashboard overview; distributions change
// slowly and the dashboard polls often.
const overviewTTL = 5 * time.Minute

type CountBucket struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

type AmountBucket struct {
	Label string `json:"label"`
	Min   int    `json:"min"`
	Max   int    `json:"max"` // 0 = unbounded
	Count int64  `json:"count"`
}

type TimelinePoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type Overview struct {
	TotalApplications int64 `json:"total_applications"`
	Pending           int64 `json:"pending"`
	Approved          int64 `json:"approved"`
	Rejected          int64 `json:"rejected"`

	TotalRequested    int64 `json:"total_requested"`
	ApprovedRequested int64 `json:"approved_requested"`

	ByWard            []CountBucket `json:"by_ward"`
	ByLevelOfStudy    []CountBucket `json:"by_level_of_study"`
	ByInstitutionType []CountBucket `json:"by_institution_type"`
	ByGender          []CountBucket `json:"by_gender"`
	ByFamilyStatus    []CountBucket `json:"by_family_status"`
	WithDisability    int64         `json:"with_disability"`

	AmountRanges []AmountBucket `json:"amount_ranges"`

	GeneratedAt time.Time `json:"generated_at"`
}

// AnalyticsService computes dashboard aggregates. It is constructed
// once and shared; the cached overview is guarded by the mutex.
type AnalyticsService struct {
	DB *gorm.DB

	mu       sync.Mutex
	cached   *Overview
	cachedAt time.Time
	ttl      time.Duration
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{DB: db, ttl: overviewTTL}
}

// Overview returns the cached dashboard snapshot, recomputing when the
// TTL has lapsed.
func (s *AnalyticsService) Overview() (*Overview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil && time.Since(s.cachedAt) < s.ttl {
		return s.cached, nil
	}

	ov, err := s.computeOverview()
	if err != nil {
		return nil, err
	}
	s.cached = ov
	s.cachedAt = time.Now()
	return ov, nil
}

// Invalidate drops the cache; called after admin status decisions so
// the dashboard reflects them immediately.
func (s *AnalyticsService) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

func (s *AnalyticsService) computeOverview() (*Overview, error) {
	ov := &Overview{GeneratedAt: time.Now()}

	base := func() *gorm.DB {
		return s.DB.Model(&applicationModel.BursaryApplication{})
	}

	if err := base().Count(&ov.TotalApplications).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", constants.StatusPending).Count(&ov.Pending).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", constants.StatusApproved).Count(&ov.Approved).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", constants.StatusRejected).Count(&ov.Rejected).Error; err != nil {
		return nil, err
	}
	if err := base().Where("disability = ?", true).Count(&ov.WithDisability).Error; err != nil {
		return nil, err
	}

	// COALESCE so an empty table sums to 0, not NULL
	if err := base().Select("COALESCE(SUM(amount), 0)").Scan(&ov.TotalRequested).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", constants.StatusApproved).
		Select("COALESCE(SUM(amount), 0)").Scan(&ov.ApprovedRequested).Error; err != nil {
		return nil, err
	}

	var err error
	if ov.ByWard, err = s.groupCount("ward"); err != nil {
		return nil, err
	}
	if ov.ByLevelOfStudy, err = s.groupCount("level_of_study"); err != nil {
		return nil, err
	}
	if ov.ByInstitutionType, err = s.groupCount("institution_type"); err != nil {
		return nil, err
	}
	if ov.ByGender, err = s.groupCount("gender"); err != nil {
		return nil, err
	}
	if ov.ByFamilyStatus, err = s.groupCount("family_status"); err != nil {
		return nil, err
	}

	if ov.AmountRanges, err = s.amountRanges(); err != nil {
		return nil, err
	}

	return ov, nil
}

func (s *AnalyticsService) groupCount(column string) ([]CountBucket, error) {
	var buckets []CountBucket
	err := s.DB.Model(&applicationModel.BursaryApplication{}).
		Select(column + " AS label, COUNT(*) AS count").
		Group(column).
		Order("count DESC").
		Scan(&buckets).Error
	return buckets, err
}

func (s *AnalyticsService) amountRanges() ([]AmountBucket, error) {
	ranges := []AmountBucket{
		{Label: "Under 10,000", Min: 0, Max: 10_000},
		{Label: "10,000 - 25,000", Min: 10_000, Max: 25_000},
		{Label: "25,000 - 50,000", Min: 25_000, Max: 50_000},
		{Label: "Over 50,000", Min: 50_000, Max: 0},
	}

	for i := range ranges {
		q := s.DB.Model(&applicationModel.BursaryApplication{}).Where("amount >= ?", ranges[i].Min)
		if ranges[i].Max > 0 {
			q = q.Where("amount < ?", ranges[i].Max)
		}
		if err := q.Count(&ranges[i].Count).Error; err != nil {
			return nil, err
		}
	}
	return ranges, nil
}

// SubmissionTimeline returns daily submission counts for the last
// `days` days, gaps included as zero.
func (s *AnalyticsService) SubmissionTimeline(days int) ([]TimelinePoint, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days).Truncate(24 * time.Hour)

	var rows []TimelinePoint
	err := s.DB.Model(&applicationModel.BursaryApplication{}).
		Select("TO_CHAR(submitted_at, 'YYYY-MM-DD') AS date, COUNT(*) AS count").
		Where("submitted_at >= ?", since).
		Group("date").
		Order("date ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]int64, len(rows))
	for _, r := range rows {
		byDate[r.Date] = r.Count
	}

	points := make([]TimelinePoint, 0, days)
	for d := 0; d < days; d++ {
		date := since.AddDate(0, 0, d).Format("2006-01-02")
		points = append(points, TimelinePoint{Date: date, Count: byDate[date]})
	}
	return points, nil
}

// MonthlyTrends returns per-month counts and requested totals for the
// last `months` months.
type MonthlyTrend struct {
	Month     string `json:"month"`
	Count     int64  `json:"count"`
	Requested int64  `json:"requested"`
}

func (s *AnalyticsService) MonthlyTrends(months int) ([]MonthlyTrend, error) {
	if months <= 0 {
		months = 12
	}
	since := time.Now().AddDate(0, -months, 0)

	var rows []MonthlyTrend
	err := s.DB.Model(&applicationModel.BursaryApplication{}).
		Select("TO_CHAR(submitted_at, 'YYYY-MM') AS month, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS requested").
		Where("submitted_at >= ?", since).
		Group("month").
		Order("month ASC").
		Scan(&rows).Error
	return rows, err
}
