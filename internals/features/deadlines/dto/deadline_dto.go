package dto

import "time"

type CreateDeadlineRequest struct {
	Name      string    `json:"name" validate:"required,max=255"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
	IsActive  bool      `json:"is_active"`
}

type UpdateDeadlineRequest struct {
	Name      *string    `json:"name" validate:"omitempty,max=255"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	IsActive  *bool      `json:"is_active"`
}
