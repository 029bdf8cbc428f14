package model

import (
	"time"

	"github.com/google/uuid"
)

// AdminUser is a fund staff account. Applicants never get accounts;
// they are identified by reference number + email instead.
type AdminUser struct {
	AdminUserID uuid.UUID `gorm:"column:admin_user_id;type:uuid;default:gen_random_uuid();primaryKey" json:"admin_user_id"`

	Username     string `gorm:"column:username;type:varchar(100);not null;uniqueIndex" json:"username"`
	Email        string `gorm:"column:email;type:varchar(255)" json:"email"`
	PasswordHash string `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`

	IsSuperuser bool `gorm:"column:is_superuser;default:false" json:"is_superuser"`
	IsActive    bool `gorm:"column:is_active;default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (AdminUser) TableName() string {
	return "admin_users"
}
