package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApplicationDeadline is the administrator-configured window during
// which new submissions are accepted. At most one record is active at
// a time; ActiveDeadline picks the one with the latest end date if an
// operator ever leaves two active.
type ApplicationDeadline struct {
	DeadlineID uuid.UUID `gorm:"column:deadline_id;type:uuid;default:gen_random_uuid();primaryKey" json:"deadline_id"`

	Name      string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	StartDate time.Time `gorm:"column:start_date;not null" json:"start_date"`
	EndDate   time.Time `gorm:"column:end_date;not null;index" json:"end_date"`
	IsActive  bool      `gorm:"column:is_active;default:true;index" json:"is_active"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ApplicationDeadline) TableName() string {
	return "application_deadlines"
}

func (d *ApplicationDeadline) IsOpen() bool {
	return d.IsOpenAt(time.Now())
}

func (d *ApplicationDeadline) IsOpenAt(now time.Time) bool {
	return d.IsActive && !now.Before(d.StartDate) && !now.After(d.EndDate)
}

func (d *ApplicationDeadline) DaysRemaining() int {
	return d.DaysRemainingAt(time.Now())
}

func (d *ApplicationDeadline) DaysRemainingAt(now time.Time) int {
	if !d.IsOpenAt(now) {
		return 0
	}
	return int(d.EndDate.Sub(now).Hours() / 24)
}

// ActiveDeadline returns the current active window, or nil when none
// is configured.
func ActiveDeadline(db *gorm.DB) (*ApplicationDeadline, error) {
	var deadline ApplicationDeadline
	err := db.Where("is_active = ?", true).Order("end_date DESC").First(&deadline).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &deadline, nil
}
