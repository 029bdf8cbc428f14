package model

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationStatusLog is the append-only audit trail. Rows are only
// ever inserted; the single exception is the cascade delete when the
// parent application is removed.
type ApplicationStatusLog struct {
	StatusLogID   uuid.UUID `gorm:"column:status_log_id;type:uuid;default:gen_random_uuid();primaryKey" json:"status_log_id"`
	ApplicationID uuid.UUID `gorm:"column:application_id;type:uuid;not null;index" json:"application_id"`

	OldStatus string `gorm:"column:old_status;type:varchar(20);not null" json:"old_status"`
	NewStatus string `gorm:"column:new_status;type:varchar(20);not null" json:"new_status"`

	// nil = system action or applicant self-edit
	ChangedBy *uuid.UUID `gorm:"column:changed_by;type:uuid" json:"changed_by,omitempty"`

	Reason    string    `gorm:"column:reason;type:text" json:"reason"`
	ChangedAt time.Time `gorm:"column:changed_at;autoCreateTime;index" json:"changed_at"`
}

func (ApplicationStatusLog) TableName() string {
	return "application_status_logs"
}
