package service

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"masingacdf_backend/internals/constants"
	"masingacdf_backend/internals/features/applications/model"
	deadlineModel "masingacdf_backend/internals/features/deadlines/model"
)

// EditWindow is the self-service window after submission.
const EditWindow = 24 * time.Hour

type EditabilityChecker struct {
	DB *gorm.DB
}

func NewEditabilityChecker(db *gorm.DB) *EditabilityChecker {
	return &EditabilityChecker{DB: db}
}

func (e *EditabilityChecker) CanEdit(app *model.BursaryApplication) (bool, string) {
	return e.CanEditAt(app, time.Now())
}

// CanEditAt runs the policy checks in order; the first failure decides
// the reason. Only pending applications are ever editable.
func (e *EditabilityChecker) CanEditAt(app *model.BursaryApplication, now time.Time) (bool, string) {
	// 1) Status gate
	if app.Status == constants.StatusApproved {
		return false, "Application has been approved and cannot be edited"
	}
	if app.Status == constants.StatusRejected {
		return false, "Rejected applications cannot be edited. Please submit a new application"
	}

	// 2) 24h window after submission
	if now.Sub(app.SubmittedAt) > EditWindow {
		return false, "Edit window expired. Applications can only be edited within 24 hours of submission"
	}

	// 3) Deadline still open
	deadline, err := deadlineModel.ActiveDeadline(e.DB)
	if err != nil {
		return false, "Could not verify the application deadline"
	}
	if deadline != nil && !deadline.IsOpenAt(now) {
		return false, "Application deadline has passed"
	}

	return true, "Application can be edited"
}

func EditTimeRemaining(app *model.BursaryApplication) string {
	return EditTimeRemainingAt(app, time.Now())
}

// EditTimeRemainingAt formats max(0, 24h − elapsed) for applicants.
func EditTimeRemainingAt(app *model.BursaryApplication, now time.Time) string {
	remaining := EditWindow - now.Sub(app.SubmittedAt)
	if remaining <= 0 {
		return "Expired"
	}

	hours := int(remaining.Hours())
	minutes := int(remaining.Minutes()) % 60

	if hours > 0 {
		return fmt.Sprintf("%d hour(s) %d minute(s)", hours, minutes)
	}
	return fmt.Sprintf("%d minute(s)", minutes)
}
